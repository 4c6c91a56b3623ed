// Package api defines the JSON request and response shapes of the public
// HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error     string    `json:"error"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Error            string            `json:"error"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,alpha,max=50"`
	LastName  string `json:"lastName" validate:"required,alpha,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Course struct {
	Id            int              `json:"id"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type CoursesResponse struct {
	Courses  []Course `json:"courses"`
	Metadata Metadata `json:"metadata"`
}

type CourseResponse struct {
	Course Course `json:"course"`
}

type AddCartItemRequest struct {
	CourseId int `json:"course_id" validate:"required,gt=0"`
}

type CartItem struct {
	CourseId int             `json:"courseId"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	AddedAt  time.Time       `json:"addedAt"`
}

type CartResponse struct {
	Items    []CartItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type PaymentIntentRequest struct {
	PromoId *string `json:"promo_id,omitempty" validate:"omitempty,numeric"`
	OrderId *string `json:"order_id,omitempty" validate:"omitempty,numeric"`
}

type PaymentIntentResponse struct {
	ClientSecret *string `json:"clientSecret"`
	OrderId      string  `json:"orderId"`
	Message      string  `json:"message,omitempty"`
}

type PromoCheckRequest struct {
	Code string `json:"code" validate:"required,promo_code"`
}

type Promo struct {
	Id       int             `json:"id"`
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Value    decimal.Decimal `json:"value"`
	CourseId *int            `json:"courseId,omitempty"`
}

type PromoCheckResponse struct {
	Valid   bool   `json:"valid"`
	Promo   *Promo `json:"promo,omitempty"`
	Message string `json:"message"`
}

type WebhookResponse struct {
	Status string `json:"status"`
}

type MyCourse struct {
	CourseId    int             `json:"courseId"`
	Title       string          `json:"title"`
	PricePaid   decimal.Decimal `json:"pricePaid"`
	PurchasedAt time.Time       `json:"purchasedAt"`
}

type MyCoursesResponse struct {
	Courses []MyCourse `json:"courses"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
