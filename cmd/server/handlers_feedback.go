package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secondhand-backend/internal/feedback"
)

// submitFeedbackHandler accepts a review from a verified buyer.
func submitFeedbackHandler(repo feedback.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req feedback.SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.UserID == "" || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and product_id are required"})
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
			return
		}
		f := &feedback.Feedback{
			ID:        uuid.NewString(),
			ProductID: req.ProductID,
			UserID:    req.UserID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := repo.Submit(c.Request.Context(), f); err != nil {
			if errors.Is(err, feedback.ErrNotPurchased) || errors.Is(err, feedback.ErrAlreadyReviewed) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting feedback"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Thank you for your feedback! Your review helps our community."})
	}
}

func productFeedbackHandler(repo feedback.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.ListByProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving feedback"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func userFeedbackHandler(repo feedback.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.ListByUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving feedback"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
