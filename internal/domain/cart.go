package domain

import (
	"context"
	"time"
)

// CartItem references a course only. Prices are intentionally not snapshotted
// here: they are resolved live from the catalog at checkout time.
type CartItem struct {
	CourseID int       `json:"course_id"`
	AddedAt  time.Time `json:"added_at"`
}

// CartStore holds one active cart per user. The cart is deleted wholesale once
// the order that consumed it is paid.
type CartStore interface {
	Items(ctx context.Context, userID int) ([]CartItem, error)
	Add(ctx context.Context, userID, courseID int) error
	Remove(ctx context.Context, userID, courseID int) error
	Clear(ctx context.Context, userID int) error
}
