package main

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"secondhand-backend/internal/checkout"
	"secondhand-backend/internal/gateway"
)

// gatewayStripeMethod is the payment method label recorded for card orders
// materialized through the webhook.
const gatewayStripeMethod = "Credit Card (Stripe)"

type intentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency, buyerID string) (*gateway.Intent, error)
}

// CreateIntentRequest payload.
// swagger:model CreateIntentRequest
type CreateIntentRequest struct {
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	UserID      string `json:"user_id"`
}

// DirectPaymentRequest payload for non-card settlement.
// swagger:model DirectPaymentRequest
type DirectPaymentRequest struct {
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
}

func paymentConfigHandler(publishableKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"publishable_key": publishableKey})
	}
}

// createIntentHandler registers the card payment with the gateway; the order
// itself materializes later, when the gateway confirms via webhook.
func createIntentHandler(gw intentCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.AmountCents <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than 0"})
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid user id is required"})
			return
		}
		if req.Currency == "" {
			req.Currency = "myr"
		}
		intent, err := gw.CreateIntent(c.Request.Context(), req.AmountCents, req.Currency, req.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"client_secret": intent.ClientSecret})
	}
}

// processPaymentHandler settles the whole cart with a direct (non-card)
// payment method.
func processPaymentHandler(svc checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DirectPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a valid user id is required"})
			return
		}
		if req.PaymentMethod == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a payment method is required"})
			return
		}
		receipt, err := svc.PlaceOrderFromCart(c.Request.Context(), req.UserID, req.PaymentMethod, "")
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":      "Payment processed successfully!",
			"order_id":     receipt.OrderID,
			"total_amount": receipt.TotalAmount,
		})
	}
}

// webhookHandler consumes gateway confirmations. Per webhook convention it
// answers 200 for every verified event; real processing failures are logged
// for reconciliation, never surfaced to the gateway.
func webhookHandler(svc checkout.Service, webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		ev, err := gateway.ParseEvent(payload, c.GetHeader("Gateway-Signature"), webhookSecret)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		switch ev.Type {
		case gateway.EventPaymentSucceeded:
			intent := ev.Data.Object
			buyerID := intent.Metadata["userId"]
			if buyerID == "" {
				log.Printf("[webhook] intent %s has no userId metadata, skipping", intent.ID)
				break
			}
			receipt, err := svc.PlaceOrderFromCart(c.Request.Context(), buyerID, gatewayStripeMethod, intent.ID)
			if err != nil {
				// funds are already captured; an operator reconciles
				log.Printf("[webhook] intent %s: order materialization failed: %v", intent.ID, err)
				break
			}
			if receipt.Replayed {
				log.Printf("[webhook] intent %s already processed as order %s", intent.ID, receipt.OrderID)
			} else {
				log.Printf("[webhook] intent %s: created order %s total=%s", intent.ID, receipt.OrderID, receipt.TotalAmount)
			}
		case gateway.EventPaymentFailed:
			intent := ev.Data.Object
			log.Printf("[webhook] payment failed: intent=%s amount=%d err=%s", intent.ID, intent.Amount, intent.LastErr)
		default:
			log.Printf("[webhook] ignoring event type %s", ev.Type)
		}

		c.Status(http.StatusOK)
	}
}
