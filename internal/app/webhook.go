package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillforge/course-marketplace/api"
	"github.com/skillforge/course-marketplace/internal/domain"
)

// Webhook payloads are small; anything bigger than this is not a legitimate
// gateway event.
const maxWebhookBodyBytes = 65536

type reconcileFunc func(ctx context.Context, logger *slog.Logger, event domain.GatewayEvent) error

// reconcilers is the closed dispatch table of the webhook state machine.
// Every EventKind is either mapped here or handled by the explicit ignored
// branch in WebhookHandler; there is no silent fallthrough.
func (app *Application) reconcilers() map[domain.EventKind]reconcileFunc {
	return map[domain.EventKind]reconcileFunc{
		domain.EventPaymentSucceeded: app.reconcilePaymentSucceeded,
		domain.EventPaymentFailed:    app.reconcilePaymentFailed,
	}
}

// WebhookHandler consumes asynchronous events from a payment provider. Once a
// request is authenticated it always acknowledges with 200, including for
// events that turn out to be irrelevant, so the provider never retries a
// message this system cannot usefully process.
func (app *Application) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	provider := chi.URLParam(r, "provider")

	gateway, ok := app.gateways[provider]
	if !ok {
		logger.Warn("webhook delivery for unknown provider", "provider", provider)
		app.notFoundResponse(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, "Invalid payload")
		return
	}

	event, err := gateway.VerifyEvent(payload, r.Header.Get(gateway.SignatureHeader()))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			// Security relevant: either a misconfigured secret or someone
			// probing the endpoint.
			logger.Warn("webhook signature verification failed", "provider", provider, "error", err)
			app.errorResponse(w, r, http.StatusBadRequest, "Invalid signature")
			return
		}

		logger.Warn("webhook payload rejected", "provider", provider, "error", err)
		app.errorResponse(w, r, http.StatusBadRequest, "Invalid payload")
		return
	}

	reconcile, ok := app.reconcilers()[event.Kind]
	if !ok {
		logger.Info("ignoring webhook event", "provider", provider, "type", event.Type)
		app.webhookAckResponse(w, r)
		return
	}

	err = reconcile(r.Context(), logger, event)
	if err != nil {
		// Processing genuinely failed (e.g. the database is down). Signal the
		// provider to redeliver; reconciliation is idempotent by construction.
		app.serverErrorResponse(w, r, err)
		return
	}

	app.webhookAckResponse(w, r)
}

func (app *Application) reconcilePaymentSucceeded(
	ctx context.Context,
	logger *slog.Logger,
	event domain.GatewayEvent) error {

	paid, err := app.orderRepo.MarkPaid(ctx, event.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Info("payment succeeded for unknown payment id, acknowledging", "payment_id", event.PaymentID)
			return nil
		case errors.Is(err, domain.ErrOrderAlreadyFinal):
			logger.Info("payment succeeded for an already failed order, acknowledging", "payment_id", event.PaymentID)
			return nil
		default:
			return err
		}
	}

	if paid.AlreadyPaid {
		logger.Info("replayed payment_succeeded event, acknowledging", "payment_id", event.PaymentID)
		return nil
	}

	order := paid.Order

	// The order is durably paid; a failure to clear the cart must not fail
	// the reconciliation. A stale cart is an annoyance, a lost payment isn't.
	err = app.cartStore.Clear(ctx, order.UserID)
	if err != nil {
		logger.Error("failed to clear cart after payment", "user_id", order.UserID, "error", err)
	}

	logger.Info("order paid",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"amount", order.TotalAmount,
		"granted_courses", paid.GrantedCount,
	)

	recipient := paid.CustomerEmail
	app.background(func() {
		data := map[string]any{
			"orderNumber": order.OrderNumber,
			"totalAmount": order.TotalAmount.String(),
		}

		err := app.mailer.Send(recipient, "order_receipt.tmpl", data)
		if err != nil {
			app.logger.Error("failed to send order receipt", "order_id", order.ID, "error", err)
		}
	})

	return nil
}

func (app *Application) reconcilePaymentFailed(
	ctx context.Context,
	logger *slog.Logger,
	event domain.GatewayEvent) error {

	order, err := app.orderRepo.MarkFailed(ctx, event.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Info("payment failed for unknown payment id, acknowledging", "payment_id", event.PaymentID)
			return nil
		case errors.Is(err, domain.ErrOrderAlreadyFinal):
			logger.Info("replayed payment_failed event, acknowledging", "payment_id", event.PaymentID)
			return nil
		default:
			return err
		}
	}

	logger.Info("order failed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"payment_id", event.PaymentID,
	)

	return nil
}

func (app *Application) webhookAckResponse(w http.ResponseWriter, r *http.Request) {
	resp := api.WebhookResponse{
		Status: "success",
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
