package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skillforge/course-marketplace/api"
	"github.com/skillforge/course-marketplace/internal/domain"
)

const ErrEmptyCart = "Cart is empty"

// checkoutTotals is the priced view of a cart at one instant: the item
// snapshots to be written and the amounts the gateway will charge.
type checkoutTotals struct {
	items     []domain.OrderItem
	courseIds []int
	subtotal  decimal.Decimal
	discount  decimal.Decimal
	total     decimal.Decimal
	promoId   *int
}

// CreatePaymentIntentHandler turns the caller's cart into a pending order
// backed by a gateway payment intent. Repeated calls for the same checkout
// session reuse the pending order and update the intent in place; only when
// the gateway refuses the update does it fall back to a fresh order so the
// user is never left unable to pay.
func (app *Application) CreatePaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.PaymentIntentRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	cartItems, err := app.cartStore.Items(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(cartItems) == 0 {
		app.errorResponse(w, r, http.StatusBadRequest, ErrEmptyCart)
		return
	}

	totals, err := app.priceCart(r.Context(), cartItems)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(totals.items) == 0 {
		// Every carted course has since been unpublished.
		app.errorResponse(w, r, http.StatusBadRequest, ErrEmptyCart)
		return
	}

	if input.PromoId != nil {
		promoId, err := strconv.Atoi(*input.PromoId)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid promo_id value"))
			return
		}

		err = app.applyPromo(r.Context(), promoId, totals)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrRecordNotFound),
				errors.Is(err, domain.ErrPromoInactive),
				errors.Is(err, domain.ErrPromoExpired),
				errors.Is(err, domain.ErrPromoExhausted):

				logger.Warn("checkout with unredeemable promo", "promo_id", promoId, "reason", err)
				app.errorResponse(w, r, http.StatusUnprocessableEntity, promoRejectionMessage(err))
			default:
				app.serverErrorResponse(w, r, err)
			}

			return
		}
	}

	if input.OrderId != nil {
		orderId, err := strconv.Atoi(*input.OrderId)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid order_id value"))
			return
		}

		done := app.updateExistingOrder(w, r, orderId, userId, totals)
		if done {
			return
		}
		// Fall through: either the order is no longer reusable or the gateway
		// rejected the in-place update.
	}

	app.createOrderWithIntent(w, r, userId, totals)
}

// updateExistingOrder tries to reuse the caller's pending order. It reports
// whether the request has been fully handled; false means the caller should
// proceed with a fresh order + intent.
func (app *Application) updateExistingOrder(
	w http.ResponseWriter,
	r *http.Request,
	orderId,
	userId int,
	totals *checkoutTotals) bool {

	logger := app.contextGetLogger(r)

	order, err := app.orderRepo.GetPendingByIdAndUser(r.Context(), orderId, userId)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Info("stale order id in checkout request, creating a new order", "order_id", orderId)
			return false
		}

		app.serverErrorResponse(w, r, err)
		return true
	}

	order.TotalAmount = totals.total
	order.DiscountAmount = totals.discount
	order.PromoID = totals.promoId

	err = app.orderRepo.UpdatePendingAmounts(r.Context(), order)
	if err != nil {
		if errors.Is(err, domain.ErrEditConflict) {
			// The order reached a terminal state while this request was in
			// flight. Start over with a new order.
			logger.Warn("pending order finalized mid-checkout", "order_id", orderId)
			return false
		}

		app.serverErrorResponse(w, r, err)
		return true
	}

	if order.PaymentID == nil {
		// A previous gateway failure left this order without an intent.
		app.attachIntent(w, r, order, totals)
		return true
	}

	err = app.gateway.UpdateIntent(r.Context(), *order.PaymentID, order)
	if err != nil {
		logger.Warn("gateway rejected intent update, falling back to a new order",
			"order_id", orderId,
			"payment_id", *order.PaymentID,
			"error", err,
		)
		return false
	}

	// The client keeps the secret it received when the intent was created,
	// so none is returned here.
	resp := api.PaymentIntentResponse{
		ClientSecret: nil,
		OrderId:      strconv.Itoa(order.ID),
		Message:      "updated",
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}

	return true
}

func (app *Application) createOrderWithIntent(
	w http.ResponseWriter,
	r *http.Request,
	userId int,
	totals *checkoutTotals) {

	order := &domain.Order{
		OrderNumber:     domain.NewOrderNumber(time.Now()),
		UserID:          userId,
		TotalAmount:     totals.total,
		DiscountAmount:  totals.discount,
		Status:          domain.OrderStatusPending,
		PaymentProvider: app.gateway.Name(),
		PromoID:         totals.promoId,
	}

	err := app.orderRepo.CreateWithItems(r.Context(), order, totals.items)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.attachIntent(w, r, order, totals)
}

// attachIntent creates a gateway intent for a pending order that has none. A
// gateway error leaves the order pending without a payment id, which is safe
// to retry.
func (app *Application) attachIntent(
	w http.ResponseWriter,
	r *http.Request,
	order *domain.Order,
	totals *checkoutTotals) {

	logger := app.contextGetLogger(r)

	user, err := app.userRepo.GetById(r.Context(), order.UserID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	intent, err := app.gateway.CreateIntent(r.Context(), order, user)
	if err != nil {
		logger.Error("gateway intent creation failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.orderRepo.SetPaymentId(r.Context(), order.ID, intent.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("payment intent created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"amount", order.TotalAmount,
	)

	resp := api.PaymentIntentResponse{
		ClientSecret: &intent.ClientSecret,
		OrderId:      strconv.Itoa(order.ID),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) priceCart(ctx context.Context, cartItems []domain.CartItem) (*checkoutTotals, error) {
	courseIds := make([]int, len(cartItems))
	for i, item := range cartItems {
		courseIds[i] = item.CourseID
	}

	courses, err := app.courseRepo.GetByIds(ctx, courseIds)
	if err != nil {
		return nil, err
	}

	totals := &checkoutTotals{
		items:    make([]domain.OrderItem, 0, len(courses)),
		subtotal: decimal.Zero,
	}

	for _, course := range courses {
		price := course.EffectivePrice()

		totals.items = append(totals.items, domain.OrderItem{
			CourseID:        course.ID,
			PriceAtPurchase: price,
		})
		totals.courseIds = append(totals.courseIds, course.ID)
		totals.subtotal = totals.subtotal.Add(price)
	}

	totals.discount = decimal.Zero
	totals.total = totals.subtotal

	return totals, nil
}

func (app *Application) applyPromo(ctx context.Context, promoId int, totals *checkoutTotals) error {
	promo, err := app.promoRepo.GetById(ctx, promoId)
	if err != nil {
		return err
	}

	discount, err := promo.Validate(time.Now(), totals.subtotal, totals.courseIds)
	if err != nil {
		return err
	}

	totals.discount = discount
	totals.total = totals.subtotal.Sub(discount)

	if totals.total.IsNegative() {
		totals.total = decimal.Zero
	}

	totals.promoId = &promo.ID

	return nil
}

func (app *Application) CheckPromoHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.PromoCheckRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	promo, err := app.promoRepo.GetByCode(r.Context(), input.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.promoRejectedResponse(w, r, "Promo code not found")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	cartItems, err := app.cartStore.Items(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	totals, err := app.priceCart(r.Context(), cartItems)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	discount, err := promo.Validate(time.Now(), totals.subtotal, totals.courseIds)
	if err != nil {
		logger.Info("promo check rejected", "code", promo.Code, "reason", err)
		app.promoRejectedResponse(w, r, promoRejectionMessage(err))
		return
	}

	resp := api.PromoCheckResponse{
		Valid: true,
		Promo: &api.Promo{
			Id:       promo.ID,
			Code:     promo.Code,
			Type:     string(promo.Type),
			Value:    promo.Value,
			CourseId: promo.CourseID,
		},
		Message: fmt.Sprintf("Promo code applied, you save %s", discount),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) promoRejectedResponse(w http.ResponseWriter, r *http.Request, message string) {
	resp := api.PromoCheckResponse{
		Valid:   false,
		Message: message,
	}

	err := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func promoRejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrPromoInactive):
		return "This promo code is no longer active"
	case errors.Is(err, domain.ErrPromoExpired):
		return "This promo code is outside its validity period"
	case errors.Is(err, domain.ErrPromoExhausted):
		return "This promo code has reached its usage limit"
	case errors.Is(err, domain.ErrRecordNotFound):
		return "Promo code not found"
	default:
		return "This promo code cannot be applied"
	}
}
