package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PromoType string

const (
	PromoTypeFixed      PromoType = "fixed"
	PromoTypePercentage PromoType = "percentage"
)

type Promo struct {
	ID        int
	Code      string
	Type      PromoType
	Value     decimal.Decimal
	MaxUses   *int
	UsedCount int
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  bool
	// CourseID scopes the promo to a single course. A nil value means the code
	// is valid site-wide.
	CourseID  *int
	CreatedAt time.Time
}

// Validate checks that the promo is redeemable at the given time and returns
// the discount it yields for the subtotal. The discount never exceeds the
// subtotal and is never negative.
//
// cartCourseIDs is accepted but not matched against CourseID: a course-scoped
// code currently applies to any cart. Product is still deciding whether the
// scope should gate redemption or only exists for reporting.
func (p *Promo) Validate(now time.Time, subtotal decimal.Decimal, cartCourseIDs []int) (decimal.Decimal, error) {
	if !p.IsActive {
		return decimal.Zero, ErrPromoInactive
	}

	if p.StartDate != nil && now.Before(*p.StartDate) {
		return decimal.Zero, ErrPromoExpired
	}

	if p.EndDate != nil && now.After(*p.EndDate) {
		return decimal.Zero, ErrPromoExpired
	}

	if p.MaxUses != nil && p.UsedCount >= *p.MaxUses {
		return decimal.Zero, ErrPromoExhausted
	}

	return p.discount(subtotal), nil
}

func (p *Promo) discount(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch p.Type {
	case PromoTypePercentage:
		discount = subtotal.Mul(p.Value).Div(decimal.NewFromInt(100)).Round(2)
	default:
		discount = p.Value
	}

	if discount.GreaterThan(subtotal) {
		return subtotal
	}

	if discount.IsNegative() {
		return decimal.Zero
	}

	return discount
}

type PromoRepository interface {
	// GetByCode returns the promo with the given code, excluding soft-deleted
	// rows. Returns ErrRecordNotFound when no such code exists.
	GetByCode(ctx context.Context, code string) (*Promo, error)
	GetById(ctx context.Context, id int) (*Promo, error)
}
