package handler

import (
	"errors"
	"net/http"

	"invoice_generator/internal/middleware"
	"invoice_generator/internal/model"
	"invoice_generator/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Signup accepts the form as multipart, urlencoded or JSON
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if _, err := h.service.Signup(c.Request.Context(), req); err != nil {
		if service.IsSignupValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		middleware.RequestLog(c).WithError(err).Error("Error during signup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		UsernameOrEmail string `form:"username_or_email" json:"username_or_email"`
		Password        string `form:"password" json:"password"`
	}

	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields),
			errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrInvalidPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			middleware.RequestLog(c).WithError(err).Error("Error during login")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
		"user":         user.Profile(),
	})
}

// RegisterAuthRoutes registers auth routes behind the given rate limiter
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, limitMW gin.HandlerFunc) {
	rg.POST("/signup", limitMW, h.Signup)
	rg.POST("/login", limitMW, h.Login)
}
