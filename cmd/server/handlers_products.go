package main

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"secondhand-backend/internal/httpx"
	"secondhand-backend/internal/product"
)

// listProductsHandler godoc
// @Summary      List all products with their effective price
// @Tags         products
// @Produce      json
// @Success      200 {array} product.ListedProduct
// @Router       /api/products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving products"})
			return
		}
		shaped := make([]product.ListedProduct, 0, len(all))
		for _, p := range all {
			price, err := p.EffectivePrice()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving products"})
				return
			}
			lp := product.ListedProduct{
				ID:     p.ID,
				Name:   p.Name,
				Price:  price.StringFixed(2),
				Status: p.Status,
			}
			if len(p.Image) > 0 {
				lp.ImageBase64 = base64.StdEncoding.EncodeToString(p.Image)
			}
			shaped = append(shaped, lp)
		}
		c.JSON(http.StatusOK, shaped)
	}
}

func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func getProductImageHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || len(p.Image) == 0 {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/jpeg", p.Image)
	}
}

func userProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.ListBySeller(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// createProductHandler godoc
// @Summary      List a product for sale (enters verification queue)
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body product.CreateProductRequest true "product"
// @Success      200 {object} map[string]string
// @Router       /api/products [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product data"})
			return
		}
		if req.Name == "" || req.Price == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}
		if _, err := decimal.NewFromString(req.Price); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		image, err := decodeImage(req.ImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image encoding"})
			return
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			SellerID:    c.GetString(httpx.CtxUserID),
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Condition:   req.Condition,
			Price:       req.Price,
			Image:       image,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Product added successfully and is pending verification!",
			"product_id": p.ID,
		})
	}
}

// updateProductHandler rewrites the listing and sends it back through
// verification.
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product data"})
			return
		}
		if req.Price != "" {
			if _, err := decimal.NewFromString(req.Price); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
				return
			}
		}
		image, err := decodeImage(req.ImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image encoding"})
			return
		}
		p := &product.Product{
			ID:          c.Param("id"),
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Condition:   req.Condition,
			Price:       req.Price,
			Image:       image,
		}
		if err := repo.Update(c.Request.Context(), p); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully!"})
	}
}

func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting product"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully!"})
	}
}

// VerifyProductRequest payload. The verified price overrides the seller's
// base price once the product is Verified.
// swagger:model VerifyProductRequest
type VerifyProductRequest struct {
	VerifiedPrice string `json:"verified_price"`
}

func verifyProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyProductRequest
		_ = c.ShouldBindJSON(&req) // body optional
		var vp *string
		if req.VerifiedPrice != "" {
			if _, err := decimal.NewFromString(req.VerifiedPrice); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verified price"})
				return
			}
			vp = &req.VerifiedPrice
		}
		if err := repo.SetVerification(c.Request.Context(), c.Param("id"), product.StatusVerified, vp); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error verifying product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product verified successfully!"})
	}
}

func rejectProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.SetVerification(c.Request.Context(), c.Param("id"), product.StatusRejected, nil); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error rejecting product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product rejected successfully!"})
	}
}

func decodeImage(b64 string) ([]byte, error) {
	if b64 == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(b64)
}
