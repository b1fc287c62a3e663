package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/markdave123-py/Uncouple/internal/core"
)

var _ core.PaymentGateway = (*StripeGateway)(nil)

// StripeGateway creates and reads hosted Checkout sessions.
type StripeGateway struct {
	sc *client.API
}

type Option func(*stripe.BackendConfig)

// WithBackendURL points the client at another API host, such as a local
// stub.
func WithBackendURL(url string) Option {
	return func(c *stripe.BackendConfig) { c.URL = stripe.String(url) }
}

func NewStripeGateway(secretKey string, opts ...Option) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe: %w", core.ErrNotConfigured)
	}
	if len(opts) == 0 {
		return &StripeGateway{sc: client.New(secretKey, nil)}, nil
	}

	cfg := &stripe.BackendConfig{}
	for _, o := range opts {
		o(cfg)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	return &StripeGateway{sc: client.New(secretKey, backends)}, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req core.CheckoutRequest) (*core.CheckoutSession, error) {
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(req.ProductName),
					Description: stripe.String(req.Description),
				},
				UnitAmount: stripe.Int64(req.UnitAmount),
			},
			Quantity: stripe.Int64(qty),
		}},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ClientReferenceID)
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", describe(err))
	}
	return toSession(s), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, id string) (*core.CheckoutSession, error) {
	s, err := g.sc.CheckoutSessions.Get(id, &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return nil, fmt.Errorf("stripe get checkout session %s: %w", id, describe(err))
	}
	return toSession(s), nil
}

func toSession(s *stripe.CheckoutSession) *core.CheckoutSession {
	return &core.CheckoutSession{
		ID:                s.ID,
		URL:               s.URL,
		PaymentStatus:     string(s.PaymentStatus),
		AmountTotal:       s.AmountTotal,
		Currency:          string(s.Currency),
		ClientReferenceID: s.ClientReferenceID,
		Metadata:          s.Metadata,
	}
}

// describe keeps Stripe's user-facing message and drops the raw payload.
func describe(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return errors.New(se.Msg)
	}
	return err
}
