package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
	"github.com/lattice-hq/sentinel/pkg/response"
)

// Handler handles authentication HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SignUp registers a new account
// POST /api/auth/sign-up
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.SignUp(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// SignIn authenticates email/password credentials
// POST /api/auth/sign-in
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.SignIn(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Refresh exchanges a refresh token for a new session
// POST /api/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SendResetCode starts the password recovery flow
// POST /api/auth/password/send-code
func (h *Handler) SendResetCode(c *gin.Context) {
	var req SendResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.service.SendResetCode(c.Request.Context(), req.EmailAddress); err != nil {
		h.respondError(c, err)
		return
	}

	// Always report success so the endpoint cannot be used to probe for
	// registered addresses.
	response.Success(c, http.StatusOK, gin.H{
		"message": "If the address is registered, a code has been sent",
	})
}

// VerifyResetCode exchanges a recovery code for a reset token
// POST /api/auth/password/verify-code
func (h *Handler) VerifyResetCode(c *gin.Context) {
	var req VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	refresh, err := h.service.VerifyResetCode(c.Request.Context(), req.EmailAddress, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"refresh_token": refresh,
	})
}

// ResetPassword completes the password recovery flow
// POST /api/auth/password/reset
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Password updated",
	})
}

// WebToken issues a short-lived web access token for the session principal
// POST /api/auth/web-token
func (h *Handler) WebToken(c *gin.Context) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	principal, ok := value.(Principal)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	web, err := h.service.IssueWebToken(principal)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"web_token": web,
	})
}

// respondError maps validation errors to 400 and delegates everything else
// to the shared error envelope.
func (h *Handler) respondError(c *gin.Context, err error) {
	if verr, ok := err.(*validationErrors); ok {
		response.ValidationError(c, verr.Error())
		return
	}
	response.Error(c, err)
}
