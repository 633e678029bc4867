package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"secondhand-backend/internal/report"
)

// categorySummaryHandler godoc
// @Summary      Per-category product counts and average prices
// @Tags         reports
// @Produce      json
// @Success      200 {array} report.CategorySummary
// @Security     BearerAuth
// @Router       /api/admin/reports/categories [get]
func categorySummaryHandler(repo report.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.CategorySummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error building report"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// pricingPatternsHandler godoc
// @Summary      Min/max/average pricing across all products
// @Tags         reports
// @Produce      json
// @Success      200 {object} report.PricingPatterns
// @Security     BearerAuth
// @Router       /api/admin/reports/pricing [get]
func pricingPatternsHandler(repo report.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.PricingPatterns(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error building report"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
