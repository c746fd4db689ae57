package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lattice-hq/sentinel/pkg/response"
)

// Handler handles admin HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SignInRequest represents an admin sign-in request
type SignInRequest struct {
	EmailAddress string `json:"email_address" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// SignIn authenticates an admin
// POST /api/admin/sign-in
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.SignIn(c.Request.Context(), req.EmailAddress, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// BanUser flags a user account as banned
// PUT /api/admin/users/:id/ban
func (h *Handler) BanUser(c *gin.Context) {
	h.setBan(c, true)
}

// UnbanUser clears the banned flag on a user account
// DELETE /api/admin/users/:id/ban
func (h *Handler) UnbanUser(c *gin.Context) {
	h.setBan(c, false)
}

func (h *Handler) setBan(c *gin.Context, banned bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ValidationError(c, "id must be a valid UUID")
		return
	}

	updated, err := h.service.SetUserBan(c.Request.Context(), id, banned)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": updated.Secure(),
	})
}
