package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

// Webhook event types handled by the adapter.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// WebhookEvent is the gateway-agnostic view of a delivered event.
type WebhookEvent struct {
	Type                string
	ProviderReferenceID string
}

// WebhookParser verifies and decodes a raw webhook delivery. The Stripe
// implementation checks the signature against the configured secret;
// anything unverifiable is rejected before any state is touched.
type WebhookParser interface {
	Parse(payload []byte, signature string) (*WebhookEvent, error)
}

type stripeWebhookParser struct {
	webhookSecret string
}

func NewStripeWebhookParser(webhookSecret string) WebhookParser {
	return &stripeWebhookParser{webhookSecret: webhookSecret}
}

func (p *stripeWebhookParser) Parse(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}

	return &WebhookEvent{
		Type:                event.Type,
		ProviderReferenceID: intent.ID,
	}, nil
}
