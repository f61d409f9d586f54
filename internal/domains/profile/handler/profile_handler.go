package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/domains/profile"
	"confession-backend/internal/shared/middleware"
	"confession-backend/internal/shared/response"
)

// ProfileHandler xử lý setup / xem / sửa profile và trang public của recipient
type ProfileHandler struct {
	service profile.Service
}

func NewProfileHandler(service profile.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Setup xử lý POST /auth/setup
func (h *ProfileHandler) Setup(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	var req profile.SetupRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	p, err := h.service.EnsureProfile(c.Request.Context(), accountID, c.GetString(middleware.ContextEmail), req.DisplayName)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p.ToDTO(h.service.ShareLink(p.Slug)))
}

// GetMe xử lý GET /profiles/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p.ToDTO(h.service.ShareLink(p.Slug)))
}

// UpdateMe xử lý PATCH /profiles/me
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	var req profile.UpdateProfileRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	p, err := h.service.UpdateDisplayName(c.Request.Context(), accountID, req.DisplayName)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p.ToDTO(h.service.ShareLink(p.Slug)))
}

// GetPublic xử lý GET /confess/:slug
func (h *ProfileHandler) GetPublic(c *gin.Context) {
	p, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p.ToPublicDTO())
}

func (h *ProfileHandler) bindAndValidate(c *gin.Context, req *profile.SetupRequest) bool {
	if err := c.ShouldBind(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return false
	}
	return true
}

func (h *ProfileHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		response.NotFound(c, "Profile not found")

	case errors.Is(err, profile.ErrConflict):
		response.Conflict(c, "Username or slug already taken")

	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Profile request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
