package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secondhand-backend/internal/checkout"
	"secondhand-backend/internal/gateway"
)

const testWebhookSecret = "whsec_test"

type stubIntentCreator struct {
	intent *gateway.Intent
	err    error

	amount   int64
	currency string
	buyerID  string
}

func (s *stubIntentCreator) CreateIntent(ctx context.Context, amountCents int64, currency, buyerID string) (*gateway.Intent, error) {
	s.amount = amountCents
	s.currency = currency
	s.buyerID = buyerID
	return s.intent, s.err
}

func signedWebhookRequest(t *testing.T, payload string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Gateway-Signature", gateway.Sign([]byte(payload), testWebhookSecret, time.Now()))
	return req
}

func TestCreateIntent_OK(t *testing.T) {
	t.Parallel()

	gw := &stubIntentCreator{intent: &gateway.Intent{ID: "pi_123", ClientSecret: "pi_123_secret", Status: "requires_payment_method"}}
	r := gin.New()
	r.POST("/payments/intent", createIntentHandler(gw))

	buyer := uuid.NewString()
	body := fmt.Sprintf(`{"amount":6500,"user_id":%q}`, buyer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/intent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if gw.amount != 6500 || gw.buyerID != buyer {
		t.Fatalf("gateway called with amount=%d buyer=%s", gw.amount, gw.buyerID)
	}
	// default currency
	if gw.currency != "myr" {
		t.Fatalf("currency=%s, want myr", gw.currency)
	}
}

func TestCreateIntent_BadAmount(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.POST("/payments/intent", createIntentHandler(&stubIntentCreator{}))

	body := fmt.Sprintf(`{"amount":0,"user_id":%q}`, uuid.NewString())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/intent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestProcessPayment_OK(t *testing.T) {
	t.Parallel()

	svc := &stubCheckout{receipt: &checkout.Receipt{OrderID: uuid.NewString(), TotalAmount: "20.00"}}
	r := gin.New()
	r.POST("/payments/process", processPaymentHandler(svc))

	buyer := uuid.NewString()
	body := fmt.Sprintf(`{"user_id":%q,"payment_method":"Touch n Go"}`, buyer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/process", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.fromCartBuyer != buyer || svc.fromCartMethod != "Touch n Go" {
		t.Fatalf("service called with buyer=%s method=%s", svc.fromCartBuyer, svc.fromCartMethod)
	}
	// direct settlement carries no gateway reference
	if svc.fromCartRef != "" {
		t.Fatalf("gateway ref=%q, want empty", svc.fromCartRef)
	}
}

func TestProcessPayment_EmptyCart(t *testing.T) {
	t.Parallel()

	svc := &stubCheckout{err: checkout.ErrEmptyCart}
	r := gin.New()
	r.POST("/payments/process", processPaymentHandler(svc))

	body := fmt.Sprintf(`{"user_id":%q,"payment_method":"Cash"}`, uuid.NewString())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/process", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestWebhook_Succeeded_MaterializesOrder(t *testing.T) {
	t.Parallel()

	svc := &stubCheckout{receipt: &checkout.Receipt{OrderID: uuid.NewString(), TotalAmount: "65.00"}}
	r := gin.New()
	r.POST("/payments/webhook", webhookHandler(svc, testWebhookSecret))

	buyer := uuid.NewString()
	payload := fmt.Sprintf(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_777", "amount": 6500, "metadata": {"userId": %q}}}
	}`, buyer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhookRequest(t, payload))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.fromCartCalls != 1 {
		t.Fatalf("checkout calls=%d, want 1", svc.fromCartCalls)
	}
	if svc.fromCartBuyer != buyer || svc.fromCartRef != "pi_777" {
		t.Fatalf("service called with buyer=%s ref=%s", svc.fromCartBuyer, svc.fromCartRef)
	}
	if svc.fromCartMethod != gatewayStripeMethod {
		t.Fatalf("method=%s, want %s", svc.fromCartMethod, gatewayStripeMethod)
	}
}

func TestWebhook_BadSignature(t *testing.T) {
	t.Parallel()

	svc := &stubCheckout{}
	r := gin.New()
	r.POST("/payments/webhook", webhookHandler(svc, testWebhookSecret))

	payload := `{"id":"evt_2","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBufferString(payload))
	req.Header.Set("Gateway-Signature", gateway.Sign([]byte(payload), "whsec_other", time.Now()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
	if svc.fromCartCalls != 0 {
		t.Fatalf("checkout was called on an unverified event")
	}
}

// A replayed confirmation answers 200 without creating anything; the gateway
// must stop retrying.
func TestWebhook_Replay_NoOp(t *testing.T) {
	t.Parallel()

	svc := &stubCheckout{receipt: &checkout.Receipt{OrderID: uuid.NewString(), Replayed: true}}
	r := gin.New()
	r.POST("/payments/webhook", webhookHandler(svc, testWebhookSecret))

	payload := fmt.Sprintf(`{
		"id": "evt_3",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_777", "metadata": {"userId": %q}}}
	}`, uuid.NewString())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhookRequest(t, payload))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

// Materialization failures stay internal; the gateway still gets a 200 so it
// does not retry a payment an operator has to reconcile anyway.
func TestWebhook_MaterializationFailure_Still200(t *testing.T) {
	t.Parallel()

	svc := &stubCheckout{err: checkout.ErrEmptyCart}
	r := gin.New()
	r.POST("/payments/webhook", webhookHandler(svc, testWebhookSecret))

	payload := fmt.Sprintf(`{
		"id": "evt_4",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_9", "metadata": {"userId": %q}}}
	}`, uuid.NewString())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhookRequest(t, payload))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestWebhook_PaymentFailed_NoCheckout(t *testing.T) {
	t.Parallel()

	svc := &stubCheckout{}
	r := gin.New()
	r.POST("/payments/webhook", webhookHandler(svc, testWebhookSecret))

	payload := `{
		"id": "evt_5",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": "pi_2", "amount": 1500, "last_payment_error": "card_declined"}}
	}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhookRequest(t, payload))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.fromCartCalls != 0 {
		t.Fatalf("checkout must not run for failed payments")
	}
}
