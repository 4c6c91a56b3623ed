package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type JournalEntryType string

const (
	JournalPaymentInitiated JournalEntryType = "payment_initiated"
	JournalIncome           JournalEntryType = "income"
	JournalFailedPayment    JournalEntryType = "failed_payment"
)

// JournalEntry is one row of the append-only financial journal. Entries are
// never updated or deleted after insertion.
type JournalEntry struct {
	ID        int
	OrderID   int
	Type      JournalEntryType
	Amount    decimal.Decimal
	Metadata  map[string]any
	CreatedAt time.Time
}

type JournalRepository interface {
	Append(ctx context.Context, entry *JournalEntry) error
	GetByOrderId(ctx context.Context, orderID int) ([]JournalEntry, error)
}
