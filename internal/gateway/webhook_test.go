package gateway

import (
	"errors"
	"testing"
	"time"
)

const secret = "whsec_test"

func validPayload() []byte {
	return []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_123", "amount": 6500, "currency": "myr",
			"status": "succeeded", "metadata": {"userId": "u-1"}
		}}
	}`)
}

func TestParseEvent_RoundTrip(t *testing.T) {
	now := time.Now()
	payload := validPayload()
	header := Sign(payload, secret, now)

	ev, err := parseEventAt(payload, header, secret, now)
	if err != nil {
		t.Fatalf("parseEventAt: %v", err)
	}
	if ev.Type != EventPaymentSucceeded {
		t.Fatalf("type=%q", ev.Type)
	}
	if ev.Data.Object.ID != "pi_123" || ev.Data.Object.Metadata["userId"] != "u-1" {
		t.Fatalf("object=%+v", ev.Data.Object)
	}
}

func TestParseEvent_WrongSecret(t *testing.T) {
	now := time.Now()
	payload := validPayload()
	header := Sign(payload, "other-secret", now)

	if _, err := parseEventAt(payload, header, secret, now); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err=%v, expected ErrBadSignature", err)
	}
}

func TestParseEvent_TamperedPayload(t *testing.T) {
	now := time.Now()
	payload := validPayload()
	header := Sign(payload, secret, now)
	payload[20]++ // flip a byte after signing

	if _, err := parseEventAt(payload, header, secret, now); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err=%v, expected ErrBadSignature", err)
	}
}

func TestParseEvent_StaleTimestamp(t *testing.T) {
	signed := time.Now().Add(-time.Hour)
	payload := validPayload()
	header := Sign(payload, secret, signed)

	if _, err := parseEventAt(payload, header, secret, time.Now()); !errors.Is(err, ErrStaleEvent) {
		t.Fatalf("err=%v, expected ErrStaleEvent", err)
	}
}

func TestParseEvent_MalformedHeader(t *testing.T) {
	for _, header := range []string{"", "t=abc,v1=00", "v1=00", "t=123"} {
		if _, err := parseEventAt(validPayload(), header, secret, time.Now()); err == nil {
			t.Fatalf("header %q accepted", header)
		}
	}
}
