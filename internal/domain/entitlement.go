package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Entitlement grants a user durable access to a course. Unique per
// (user, course) and carries the price actually paid for reporting.
type Entitlement struct {
	ID        int
	UserID    int
	CourseID  int
	PricePaid decimal.Decimal
	CreatedAt time.Time
}

type EntitlementRepository interface {
	// GrantIfAbsent inserts the entitlement unless one already exists for the
	// (user, course) pair. It reports whether a new row was created and never
	// errors on "already exists".
	GrantIfAbsent(ctx context.Context, userID, courseID int, pricePaid decimal.Decimal) (bool, error)
	GetByUserId(ctx context.Context, userID int) ([]Entitlement, error)
}
