package main

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secondhand-backend/internal/facerec"
	"secondhand-backend/internal/httpx"
	"secondhand-backend/internal/user"
)

const tokenTTL = 7 * 24 * time.Hour

// tempUploadHandler is step 1 of registration: the applicant uploads the
// student card and their details; everything waits in the pending store
// until the face check passes.
func tempUploadHandler(pending *user.PendingStore, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		firstName := c.PostForm("first_name")
		lastName := c.PostForm("last_name")
		email := c.PostForm("email")
		password := c.PostForm("password")
		if firstName == "" || lastName == "" || email == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "first_name, last_name, email and password are required"})
			return
		}
		if !user.ValidEmailDomain(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email domain; must be @gmail.com or @student.tarc.edu.my"})
			return
		}

		file, err := c.FormFile("student_card")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "student_card image is required"})
			return
		}

		tempID := uuid.NewString()
		fileName := tempID + "_" + filepath.Base(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(uploadsDir, fileName)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error storing upload"})
			return
		}

		pending.Put(&user.Pending{
			TempID:    tempID,
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Password:  password,
			CardFile:  fileName,
		})
		c.JSON(http.StatusOK, gin.H{"temp_id": tempID, "message": "Temp upload success."})
	}
}

// faceVerifyHandler is step 2: the live webcam image is compared against the
// uploaded card; a match creates the account, anything else discards the
// pending registration.
func faceVerifyHandler(users user.Repository, pending *user.PendingStore, fc *facerec.Client, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tempID := c.PostForm("temp_id")
		live, err := c.FormFile("live_image")
		if tempID == "" || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "temp_id and live_image are required"})
			return
		}

		// one shot per pending registration, expired entries included
		info, ok := pending.Take(tempID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired temp_id"})
			return
		}
		cardPath := filepath.Join(uploadsDir, info.CardFile)
		defer os.Remove(cardPath)

		cardBytes, err := os.ReadFile(cardPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stored card image unavailable"})
			return
		}
		liveBytes, err := readUpload(live)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable live image"})
			return
		}

		res, err := fc.Compare(c.Request.Context(), info.Email, tempID, cardBytes, liveBytes)
		if err != nil {
			log.Printf("[register] face compare call failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "error calling face comparison service"})
			return
		}
		if !res.Success {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Face mismatch. Registration aborted.", "detail": res.Reason()})
			return
		}

		hash, err := user.HashPassword(info.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating account"})
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			FirstName:    info.FirstName,
			LastName:     info.LastName,
			Email:        info.Email,
			PasswordHash: hash,
			StudentCard:  cardBytes,
			Status:       "Active",
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Registration complete!", "user_id": u.ID})
	}
}

// loginHandler godoc
// @Summary      Authenticate and receive a bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body user.LoginRequest true "credentials"
// @Success      200 {object} map[string]any
// @Failure      401 {object} product.HTTPError
// @Router       /api/users/login [post]
func loginHandler(users user.Repository, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !user.CheckPassword(u.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		token, err := httpx.SignToken(jwtSecret, u.ID, false, tokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error issuing token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	}
}

func getProfileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func updateProfileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		id := c.Param("id")
		current, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		updatePassword := false
		var newHash string
		if req.NewPassword != "" {
			if req.OldPassword == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "current password is required to set a new password"})
				return
			}
			if !user.CheckPassword(current.PasswordHash, req.OldPassword) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "current password is incorrect"})
				return
			}
			newHash, err = user.HashPassword(req.NewPassword)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating user"})
				return
			}
			updatePassword = true
		}

		u := &user.User{
			ID:           id,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PasswordHash: newHash,
		}
		if err := users.Update(c.Request.Context(), u, updatePassword); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully!"})
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
