package client

import (
	"context"
	"encoding/json"
	"fmt"

	"digital-downloads-store/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
)

type CheckoutLine struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

type CheckoutParams struct {
	OrderID       uint
	UserID        uint
	CustomerEmail string
	Lines         []CheckoutLine
}

type CheckoutSession struct {
	ID              string
	URL             string
	OrderID         string
	PaymentIntentID string
	PaymentStatus   string
}

// WebhookEvent is the gateway event normalized down to what the order
// lifecycle needs.
type WebhookEvent struct {
	ID              string
	Type            string
	OrderID         string
	PaymentIntentID string
	SessionID       string
}

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type stripeClientImpl struct {
	webhookSecret string
	frontendURL   string
}

func NewStripeClient(stripeCfg *config.Stripe, frontendURL string) StripeClient {
	stripe.Key = stripeCfg.SecretKey

	return &stripeClientImpl{
		webhookSecret: stripeCfg.WebhookSecret,
		frontendURL:   frontendURL,
	}
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(params.Lines))
	for i, line := range params.Lines {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(amountInCents(line.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		}
	}

	metadata := map[string]string{
		"order_id": fmt.Sprint(params.OrderID),
		"user_id":  fmt.Sprint(params.UserID),
	}

	sessionParams := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		CustomerEmail:      stripe.String(params.CustomerEmail),
		SuccessURL:         stripe.String(c.frontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(c.frontendURL + "/cart"),
		// Mirrored onto the payment intent so failure events carry the
		// order reference too.
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	sessionParams.Context = ctx
	for k, v := range metadata {
		sessionParams.AddMetadata(k, v)
	}

	s, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return mapSession(s), nil
}

func (c *stripeClientImpl) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve checkout session: %w", err)
	}

	return mapSession(s), nil
}

func (c *stripeClientImpl) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	normalized := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch event.Type {
	case "checkout.session.completed":
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session payload: %w", err)
		}
		normalized.SessionID = s.ID
		normalized.OrderID = s.Metadata["order_id"]
		if s.PaymentIntent != nil {
			normalized.PaymentIntentID = s.PaymentIntent.ID
		}

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent payload: %w", err)
		}
		normalized.PaymentIntentID = pi.ID
		normalized.OrderID = pi.Metadata["order_id"]
	}

	return normalized, nil
}

func mapSession(s *stripe.CheckoutSession) *CheckoutSession {
	mapped := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		OrderID:       s.Metadata["order_id"],
		PaymentStatus: string(s.PaymentStatus),
	}
	if s.PaymentIntent != nil {
		mapped.PaymentIntentID = s.PaymentIntent.ID
	}
	return mapped
}

func amountInCents(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
