package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lattice-hq/sentinel/internal/auth"
	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
	"github.com/lattice-hq/sentinel/pkg/response"
)

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the authenticated user's profile
// GET /api/profile
func (h *Handler) Get(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	result, err := h.service.Get(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Update modifies the authenticated user's profile
// PUT /api/profile
func (h *Handler) Update(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.Update(c.Request.Context(), principal.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func currentPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(auth.PrincipalKey)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}
