package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/domains/account"
	"confession-backend/internal/shared/response"
	"confession-backend/internal/shared/session"
)

// AccountHandler xử lý HTTP requests cho sign up / sign out
type AccountHandler struct {
	service account.Service
}

func NewAccountHandler(service account.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

// SignUp xử lý POST /auth/signup
func (h *AccountHandler) SignUp(c *gin.Context) {
	var req account.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	resp, err := h.service.RequestLink(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, resp)
}

// Logout xử lý POST /auth/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), session.NewGinCookieJar(c)); err != nil {
		// Cookie đã bị xóa, chỉ revoke thất bại
		log.Error().Err(err).Msg("Failed to revoke session")
	}
	c.Status(http.StatusNoContent)
}

// Me xử lý GET /auth/me
func (h *AccountHandler) Me(c *gin.Context) {
	acc, err := h.service.CurrentAccount(c.Request.Context(), session.NewGinCookieJar(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, acc.ToDTO())
}

func (h *AccountHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidEmail):
		response.BadRequest(c, account.ErrInvalidEmail.Error())

	case errors.Is(err, account.ErrNoSession),
		errors.Is(err, account.ErrInvalidToken):
		response.Unauthorized(c, err.Error())

	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Account request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
