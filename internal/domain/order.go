package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

type Order struct {
	ID              int
	OrderNumber     string
	UserID          int
	TotalAmount     decimal.Decimal
	DiscountAmount  decimal.Decimal
	Status          OrderStatus
	PaymentProvider string
	// PaymentID is the gateway's intent id. It is nil until the gateway call
	// succeeds and unique among live orders once set.
	PaymentID *string
	PromoID   *int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// OrderItem is an immutable snapshot of the price the course carried at
// order-creation time. It is never updated after insertion.
type OrderItem struct {
	ID              int
	OrderID         int
	CourseID        int
	PriceAtPurchase decimal.Decimal
}

// NewOrderNumber generates a human-readable unique order number.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])

	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// AmountMinorUnits converts the order total to the gateway's minor-unit
// representation (e.g. cents).
func (o *Order) AmountMinorUnits() int64 {
	return o.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart()
}

// PaidOrder describes the outcome of a successful pending -> paid transition.
type PaidOrder struct {
	Order         Order
	Items         []OrderItem
	GrantedCount  int
	AlreadyPaid   bool
	CustomerEmail string
}

type OrderRepository interface {
	// CreateWithItems inserts the order, its item snapshots, and a
	// payment_initiated journal entry in a single transaction.
	CreateWithItems(ctx context.Context, order *Order, items []OrderItem) error

	// GetPendingByIdAndUser returns the order only when it belongs to the user
	// and is still pending.
	GetPendingByIdAndUser(ctx context.Context, orderID, userID int) (*Order, error)

	// UpdatePendingAmounts rewrites total, discount and promo of a pending
	// order in place. Returns ErrEditConflict when the order left the pending
	// state in the meantime.
	UpdatePendingAmounts(ctx context.Context, order *Order) error

	SetPaymentId(ctx context.Context, orderID int, paymentID string) error

	// MarkPaid performs the guarded pending -> paid transition for the order
	// holding paymentID: flips the status, grants entitlements for every item,
	// bumps the promo usage counter, and appends the income journal entry, all
	// in one transaction. Returns ErrRecordNotFound when no order carries the
	// payment id and a PaidOrder with AlreadyPaid set on idempotent replay.
	MarkPaid(ctx context.Context, paymentID string) (*PaidOrder, error)

	// MarkFailed performs the guarded pending -> failed transition and appends
	// a failed_payment journal entry. Replays after the order is already
	// failed are no-ops reported via ErrOrderAlreadyFinal.
	MarkFailed(ctx context.Context, paymentID string) (*Order, error)
}
