package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwpark-dev/tripnote/internal/services"
	"github.com/jwpark-dev/tripnote/pkg/errors"
	"github.com/jwpark-dev/tripnote/pkg/response"
)

// AuthHandler manages registration, activation and password login.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Name            string `json:"name" validate:"required,max=100"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Password != req.ConfirmPassword {
		response.Error(c, errors.NewBadRequest("passwords do not match"))
		return
	}

	err := h.auth.Register(requestContext(c), services.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "verification code sent"})
}

// POST /api/auth/verify
//
// Email and code arrive as query or form parameters so the frontend can post
// the values straight from the activation screen.
func (h *AuthHandler) Verify(c *gin.Context) {
	email, code := paramOrForm(c, "email"), paramOrForm(c, "code")
	if email == "" || code == "" {
		response.Error(c, errors.NewBadRequest("email and code are required"))
		return
	}

	if err := h.auth.VerifyCode(requestContext(c), email, code); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "account activated"})
}

// POST /api/auth/resend-code
func (h *AuthHandler) ResendCode(c *gin.Context) {
	email := paramOrForm(c, "email")
	if email == "" {
		response.Error(c, errors.NewBadRequest("email is required"))
		return
	}

	if err := h.auth.ResendCode(requestContext(c), email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "verification code sent"})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.auth.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":  result.Token,
		"type":   "Bearer",
		"userId": result.AccountID,
	})
}

func paramOrForm(c *gin.Context, key string) string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		value = strings.TrimSpace(c.PostForm(key))
	}
	return value
}
