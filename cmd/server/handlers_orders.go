package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"secondhand-backend/internal/checkout"
	"secondhand-backend/internal/order"
)

// PlaceOrderRequest payload.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	UserID        string   `json:"user_id"`
	CartIDs       []string `json:"cart_ids"`
	PaymentMethod string   `json:"payment_method"`
}

// placeOrderHandler godoc
// @Summary      Place an order from selected cart entries
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body PlaceOrderRequest true "order request"
// @Success      200 {object} checkout.Receipt
// @Failure      400 {object} product.HTTPError
// @Router       /api/orders [post]
func placeOrderHandler(svc checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.UserID == "" || len(req.CartIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and cart_ids are required"})
			return
		}
		receipt, err := svc.PlaceOrder(c.Request.Context(), req.UserID, req.CartIDs, req.PaymentMethod)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":      "Order placed successfully!",
			"order_id":     receipt.OrderID,
			"total_amount": receipt.TotalAmount,
		})
	}
}

// cancelOrderHandler godoc
// @Summary      Cancel a processing order
// @Tags         orders
// @Produce      json
// @Param        id path string true "order id"
// @Success      200 {object} map[string]string
// @Router       /api/orders/{id} [delete]
func cancelOrderHandler(svc checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.CancelOrder(c.Request.Context(), c.Param("id")); err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order canceled successfully!"})
	}
}

// receiveOrderHandler marks an order Completed once the buyer confirms the
// product arrived.
func receiveOrderHandler(svc checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ReceiveProduct(c.Request.Context(), c.Param("id")); err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated to Completed."})
	}
}

func userOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := repo.ListByBuyer(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving orders"})
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func sellerOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := repo.ListBySeller(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving orders"})
			return
		}
		if len(views) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no sales orders found for this seller"})
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// writeCheckoutError maps engine errors onto HTTP statuses: validation
// failures are the caller's to fix, everything else is a 500.
func writeCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrAlreadyCompleted),
		errors.Is(err, checkout.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case checkout.IsValidation(err):
		// already ordered / already sold / rejected / product missing
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error placing order"})
	}
}
