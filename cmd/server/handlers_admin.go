package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secondhand-backend/internal/admin"
	"secondhand-backend/internal/httpx"
	"secondhand-backend/internal/user"
)

// adminLoginHandler issues an admin token. Admin tokens carry an is_admin
// claim so RequireAdmin can gate the management routes.
func adminLoginHandler(repo admin.Repository, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req admin.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		a, err := repo.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !user.CheckPassword(a.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		token, err := httpx.SignToken(secret, a.ID, true, tokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error signing token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":       token,
			"admin_id":    a.ID,
			"admin_name":  a.Name,
			"admin_email": a.Email,
		})
	}
}

func listAdminsHandler(repo admin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving admins"})
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}

func getAdminHandler(repo admin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func createAdminHandler(repo admin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req admin.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "admin_name, admin_email and password are required"})
			return
		}
		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error hashing password"})
			return
		}
		a := &admin.Admin{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
		}
		if err := repo.Create(c.Request.Context(), a); err != nil {
			if errors.Is(err, admin.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "admin email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating admin"})
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func updateAdminHandler(repo admin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req admin.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		a := &admin.Admin{
			ID:    c.Param("id"),
			Name:  req.Name,
			Email: req.Email,
		}
		updatePassword := req.Password != ""
		if updatePassword {
			hash, err := user.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error hashing password"})
				return
			}
			a.PasswordHash = hash
		}
		if err := repo.Update(c.Request.Context(), a, updatePassword); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating admin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "admin updated"})
	}
}

func deleteAdminHandler(repo admin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting admin"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "admin deleted"})
	}
}
