package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secondhand-backend/internal/cart"
	"secondhand-backend/internal/product"
	"secondhand-backend/internal/user"
)

func getCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := carts.ListByUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving cart"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// addToCartHandler godoc
// @Summary      Add a product to the buyer's cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cart.AddRequest true "cart entry"
// @Success      200 {object} map[string]string
// @Failure      400 {object} product.HTTPError
// @Router       /api/cart [post]
func addToCartHandler(carts cart.Repository, users user.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.AddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.UserID == "" || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and product_id are required"})
			return
		}

		exists, err := users.Exists(c.Request.Context(), req.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error adding product to cart"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		p, err := products.GetByID(c.Request.Context(), req.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		price, err := p.EffectivePrice()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error adding product to cart"})
			return
		}

		entry := &cart.Entry{
			ID:         uuid.NewString(),
			UserID:     req.UserID,
			ProductID:  req.ProductID,
			TotalPrice: price.StringFixed(2),
		}
		if err := carts.Add(c.Request.Context(), entry); err != nil {
			if errors.Is(err, cart.ErrDuplicate) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "product is already in the cart"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error adding product to cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product added to cart!", "cart_id": entry.ID})
	}
}

func removeFromCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := carts.Remove(c.Request.Context(), c.Param("userId"), c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error removing product from cart"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart!"})
	}
}
