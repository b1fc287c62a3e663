package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/models"
)

const (
	ProductName        = "Divorce Form Generation Service"
	ProductDescription = "Complete NY uncontested divorce form generation service with filing instructions"
)

var ErrSessionMismatch = errors.New("checkout session belongs to another user")

// PaymentService sells the form package through a hosted checkout.
type PaymentService struct {
	db             core.DbClient
	gateway        core.PaymentGateway
	price          decimal.Decimal
	currency       string
	publishableKey string
	now            func() time.Time
}

// NewPaymentService builds the service. gateway may be nil when no secret
// key is configured.
func NewPaymentService(db core.DbClient, gateway core.PaymentGateway, price decimal.Decimal, currency, publishableKey string) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		db:             db,
		gateway:        gateway,
		price:          price,
		currency:       strings.ToLower(currency),
		publishableKey: publishableKey,
		now:            time.Now,
	}
}

// Configured reports whether checkouts can be created.
func (s *PaymentService) Configured() bool { return s.gateway != nil }

// UnitAmount is the price in minor units.
func (s *PaymentService) UnitAmount() int64 {
	return s.price.Shift(2).Round(0).IntPart()
}

// PaymentConfig is what the front end needs to start a checkout.
type PaymentConfig struct {
	PublishableKey string `json:"publishableKey"`
	Price          string `json:"price"`
	Currency       string `json:"currency"`
	Product        string `json:"product"`
}

func (s *PaymentService) Config() PaymentConfig {
	return PaymentConfig{
		PublishableKey: s.publishableKey,
		Price:          s.price.StringFixed(2),
		Currency:       s.currency,
		Product:        ProductName,
	}
}

// CreateCheckout opens a checkout session for the form package and records
// it as pending. origin is the front-end base URL the user returns to.
func (s *PaymentService) CreateCheckout(ctx context.Context, userID, email, origin string, hasFormData bool) (*core.CheckoutSession, error) {
	if s.gateway == nil {
		return nil, core.ErrNotConfigured
	}
	origin = strings.TrimRight(origin, "/")
	if origin == "" {
		return nil, fmt.Errorf("origin is required")
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, core.CheckoutRequest{
		ProductName:       ProductName,
		Description:       ProductDescription,
		UnitAmount:        s.UnitAmount(),
		Currency:          s.currency,
		Quantity:          1,
		SuccessURL:        origin + "/payment-response?success=true&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         origin + "/payment-response?canceled=true",
		CustomerEmail:     email,
		ClientReferenceID: userID,
		Metadata: map[string]string{
			"hasFormData": strconv.FormatBool(hasFormData),
			"timestamp":   s.now().UTC().Format(time.RFC3339),
			"userId":      userID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	err = s.db.UpsertPayment(ctx, &models.Payment{
		SessionID:   sess.ID,
		UserID:      userID,
		Status:      models.PaymentPending,
		AmountTotal: s.UnitAmount(),
		Currency:    s.currency,
	})
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	return sess, nil
}

// Confirm checks a returned checkout session with the gateway and records
// whether it was paid.
func (s *PaymentService) Confirm(ctx context.Context, userID, sessionID string) (*models.Payment, error) {
	if s.gateway == nil {
		return nil, core.ErrNotConfigured
	}
	sess, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	if sess.ClientReferenceID != "" && sess.ClientReferenceID != userID {
		return nil, ErrSessionMismatch
	}

	status := models.PaymentPending
	if sess.PaymentStatus == "paid" {
		status = models.PaymentPaid
	}
	p := &models.Payment{
		SessionID:   sess.ID,
		UserID:      userID,
		Status:      status,
		AmountTotal: sess.AmountTotal,
		Currency:    sess.Currency,
	}
	if err := s.db.UpsertPayment(ctx, p); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	return p, nil
}

func (s *PaymentService) HasPaid(ctx context.Context, userID string) (bool, error) {
	return s.db.HasPaid(ctx, userID)
}
