package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coinsim/internal/models"
	"coinsim/internal/store"
	"coinsim/internal/verify"
)

// SendOTP handles POST /api/auth/otp/send
func (a *API) SendOTP(c *gin.Context) {
	var req models.OTPSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Verify.IssueCode(req.Email); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification code sent to " + req.Email + ". Check your inbox.",
	})
}

// VerifyOTP handles POST /api/auth/otp/verify
func (a *API) VerifyOTP(c *gin.Context) {
	var req models.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch err := a.Verify.VerifyCode(req.Email, req.Code); {
	case errors.Is(err, verify.ErrNoCodeIssued):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No code found for this email. Please request a new one."})
	case errors.Is(err, verify.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code has expired. Please request a new one."})
	case errors.Is(err, verify.ErrCodeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code. Please check and try again."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
	}
}

// Signup handles POST /api/auth/signup. Refused unless the email passed
// verification; the OTP record is cleared once the account exists.
func (a *API) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !a.Verify.IsVerified(req.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email address first"})
		return
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		CreatedAt: time.Now(),
	}

	if err := a.Users.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	// Seed the account document now so the first portfolio view is instant.
	if _, err := a.Ledgers.Get(user.ID); err != nil {
		log.Printf("signup: initializing account for %s: %v", user.ID, err)
	}

	a.Verify.Clear(req.Email)

	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"balance": models.StartingBalance,
	})
}
