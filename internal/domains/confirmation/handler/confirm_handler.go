package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"confession-backend/internal/domains/confirmation"
	"confession-backend/internal/observability/metrics"
	"confession-backend/internal/shared/session"
)

type ConfirmHandler struct {
	service confirmation.Service
}

func NewConfirmHandler(service confirmation.Service) *ConfirmHandler {
	return &ConfirmHandler{service: service}
}

// Confirm xử lý GET /auth/confirm?token_hash=&type=&next=
// Mọi kết quả đều là redirect, kể cả lỗi.
func (h *ConfirmHandler) Confirm(c *gin.Context) {
	var req confirmation.Request
	// Query sai format vẫn đi tiếp với các field rỗng → invalid_link
	_ = c.ShouldBindQuery(&req)

	outcome := h.service.Confirm(c.Request.Context(), req, session.NewGinCookieJar(c))

	label := string(outcome.State)
	if outcome.Reason != "" {
		label = string(outcome.Reason)
	}
	metrics.ConfirmationsTotal.WithLabelValues(label).Inc()

	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusSeeOther, outcome.Destination)
}
