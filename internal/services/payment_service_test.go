package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/markdave123-py/Uncouple/internal/core"
)

type fakeGateway struct {
	created  core.CheckoutRequest
	sessions map[string]*core.CheckoutSession
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req core.CheckoutRequest) (*core.CheckoutSession, error) {
	g.created = req
	s := &core.CheckoutSession{ID: "cs_new", URL: "https://checkout.example/cs_new", PaymentStatus: "unpaid", ClientReferenceID: req.ClientReferenceID}
	return s, nil
}

func (g *fakeGateway) GetCheckoutSession(_ context.Context, id string) (*core.CheckoutSession, error) {
	s, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("No such checkout.session")
	}
	return s, nil
}

func TestUnitAmount(t *testing.T) {
	cases := map[string]int64{"99": 9900, "99.00": 9900, "19.995": 2000, "0.5": 50}
	for price, want := range cases {
		svc := NewPaymentService(nil, nil, decimal.RequireFromString(price), "USD", "")
		if got := svc.UnitAmount(); got != want {
			t.Errorf("%s: got %d, want %d", price, got, want)
		}
	}
}

func TestCreateCheckout(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	gw := &fakeGateway{}
	svc := NewPaymentService(store, gw, decimal.NewFromInt(99), "usd", "pk_test")

	s, err := svc.CreateCheckout(ctx, "u1", "jane@example.com", "https://app.example/", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID != "cs_new" {
		t.Fatalf("unexpected session %+v", s)
	}
	req := gw.created
	if req.ProductName != ProductName || req.UnitAmount != 9900 || req.Quantity != 1 || req.Currency != "usd" {
		t.Fatalf("unexpected line item %+v", req)
	}
	if req.SuccessURL != "https://app.example/payment-response?success=true&session_id={CHECKOUT_SESSION_ID}" {
		t.Fatalf("success url %q", req.SuccessURL)
	}
	if req.CancelURL != "https://app.example/payment-response?canceled=true" {
		t.Fatalf("cancel url %q", req.CancelURL)
	}
	if req.Metadata["hasFormData"] != "true" || req.Metadata["userId"] != "u1" || req.Metadata["timestamp"] == "" {
		t.Fatalf("metadata %+v", req.Metadata)
	}
	if paid, _ := svc.HasPaid(ctx, "u1"); paid {
		t.Fatal("a new checkout is not a payment")
	}

	if cfg := svc.Config(); cfg.PublishableKey != "pk_test" || cfg.Price != "99.00" {
		t.Fatalf("config %+v", cfg)
	}
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	gw := &fakeGateway{sessions: map[string]*core.CheckoutSession{
		"cs_paid":   {ID: "cs_paid", PaymentStatus: "paid", AmountTotal: 9900, Currency: "usd", ClientReferenceID: "u1"},
		"cs_unpaid": {ID: "cs_unpaid", PaymentStatus: "unpaid", ClientReferenceID: "u2"},
	}}
	svc := NewPaymentService(store, gw, decimal.NewFromInt(99), "usd", "")

	if _, err := svc.Confirm(ctx, "u1", "cs_unpaid"); !errors.Is(err, ErrSessionMismatch) {
		t.Fatalf("expected ErrSessionMismatch, got %v", err)
	}
	p, err := svc.Confirm(ctx, "u2", "cs_unpaid")
	if err != nil || p.Status != "pending" {
		t.Fatalf("unpaid session: %+v %v", p, err)
	}
	p, err = svc.Confirm(ctx, "u1", "cs_paid")
	if err != nil || p.Status != "paid" {
		t.Fatalf("paid session: %+v %v", p, err)
	}
	if paid, _ := svc.HasPaid(ctx, "u1"); !paid {
		t.Fatal("confirmed payment should be recorded")
	}
	if _, err := svc.Confirm(ctx, "u1", "cs_missing"); err == nil || !strings.Contains(err.Error(), "No such") {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestPaymentNotConfigured(t *testing.T) {
	svc := NewPaymentService(newStore(t), nil, decimal.NewFromInt(99), "", "")
	if svc.Configured() {
		t.Fatal("no gateway means not configured")
	}
	if _, err := svc.CreateCheckout(context.Background(), "u1", "", "http://localhost", false); !errors.Is(err, core.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
