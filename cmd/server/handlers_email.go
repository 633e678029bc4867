package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"secondhand-backend/internal/mailer"
)

type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// sendEmailHandler relays a notification mail, used by admins to contact
// sellers about verification outcomes.
func sendEmailHandler(m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.To == "" || req.Subject == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to and subject are required"})
			return
		}
		if err := m.Send(req.To, req.Subject, req.Body); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error sending email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "email sent"})
	}
}
