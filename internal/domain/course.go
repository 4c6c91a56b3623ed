package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Course struct {
	ID            int
	Title         string
	Slug          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Published     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectivePrice is the price a buyer pays right now: the discount price when
// one is set, the list price otherwise.
func (c Course) EffectivePrice() decimal.Decimal {
	if c.DiscountPrice != nil {
		return *c.DiscountPrice
	}

	return c.Price
}

type CourseRepository interface {
	GetById(ctx context.Context, id int) (*Course, error)
	GetByIds(ctx context.Context, ids []int) ([]Course, error)
	GetAll(ctx context.Context, pagination Pagination) ([]Course, *Metadata, error)
}
