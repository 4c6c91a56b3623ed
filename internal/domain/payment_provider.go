package domain

import "context"

// PaymentIntent is the gateway's handle for a single charge attempt.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type EventKind int

const (
	// EventIgnored covers every event type this system does not act on. The
	// reconciler acknowledges these without touching any state.
	EventIgnored EventKind = iota
	EventPaymentSucceeded
	EventPaymentFailed
)

// GatewayEvent is a verified, provider-neutral webhook event.
type GatewayEvent struct {
	Kind      EventKind
	PaymentID string
	Type      string
}

type PaymentGateway interface {
	Name() string

	// SignatureHeader is the HTTP header the provider signs its webhook
	// deliveries with.
	SignatureHeader() string

	CreateIntent(ctx context.Context, order *Order, user *User) (*PaymentIntent, error)

	// UpdateIntent rewrites the amount and metadata of an existing intent in
	// place. Callers fall back to creating a fresh intent when this fails.
	UpdateIntent(ctx context.Context, paymentID string, order *Order) error

	// VerifyEvent authenticates the raw webhook payload against the shared
	// secret. Returns ErrInvalidSignature on authentication failure.
	VerifyEvent(payload []byte, signature string) (GatewayEvent, error)
}
