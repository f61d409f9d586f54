package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/domains/confession"
	"confession-backend/internal/domains/readstate"
	"confession-backend/internal/observability/metrics"
	"confession-backend/internal/shared/middleware"
	"confession-backend/internal/shared/response"
)

// ReadState là phần của readstate.Reconciler mà handler dùng
type ReadState interface {
	Bootstrap(ctx context.Context, profileID uuid.UUID, counter *readstate.Counter) (readstate.Snapshot, error)
	Watch(ctx context.Context, profileID uuid.UUID, counter *readstate.Counter, onChange func(readstate.Snapshot)) error
	Drain(ctx context.Context, profileID uuid.UUID, counter *readstate.Counter) error
}

type ConfessionHandler struct {
	service   confession.Service
	readState ReadState
	// confessBase = SITE_URL + ConfessPath, ví dụ https://site/confess
	confessBase string
}

func NewConfessionHandler(service confession.Service, readState ReadState, confessBase string) *ConfessionHandler {
	return &ConfessionHandler{
		service:     service,
		readState:   readState,
		confessBase: confessBase,
	}
}

// ========================================
// PUBLIC
// ========================================

// Submit xử lý POST /confess/:slug (form field "message").
// Slug lạ → 404, còn lại redirect về trang confess với status hoặc error.
func (h *ConfessionHandler) Submit(c *gin.Context) {
	slug := c.Param("slug")

	var req confession.SubmitRequest
	// Body sai format coi như message rỗng
	_ = c.ShouldBind(&req)

	err := h.service.Submit(c.Request.Context(), slug, req.Message)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, h.confessURL(slug, "status", "success"))

	case errors.Is(err, confession.ErrRecipientNotFound):
		response.NotFound(c, "Recipient not found")

	case errors.Is(err, confession.ErrInvalidLength):
		c.Redirect(http.StatusSeeOther, h.confessURL(slug, "error", confession.MsgInvalidLength))

	default:
		c.Redirect(http.StatusSeeOther, h.confessURL(slug, "error", confession.MsgPersistFailed))
	}
}

func (h *ConfessionHandler) confessURL(slug, key, value string) string {
	return h.confessBase + "/" + url.PathEscape(slug) + "?" + key + "=" + url.QueryEscape(value)
}

// ========================================
// INBOX (authenticated)
// ========================================

// Inbox xử lý GET /inbox. Response giữ read flags trước khi drain.
func (h *ConfessionHandler) Inbox(c *gin.Context) {
	profileID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	messages, err := h.service.ListInbox(c.Request.Context(), profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to list inbox")
		response.InternalServerError(c, "Failed to load inbox")
		return
	}

	resp := confession.NewInboxResponse(messages)
	if resp.Unread > 0 {
		// Drain lỗi đã được schedule retry trong reconciler
		if err := h.readState.Drain(c.Request.Context(), profileID, nil); err != nil {
			log.Warn().Err(err).Str("profile_id", profileID.String()).Msg("Inbox drain deferred to worker")
		}
	}

	response.Success(c, http.StatusOK, resp)
}

// UnreadCount xử lý GET /inbox/unread-count
func (h *ConfessionHandler) UnreadCount(c *gin.Context) {
	profileID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	snap, err := h.readState.Bootstrap(c.Request.Context(), profileID, readstate.NewCounter())
	if err != nil {
		response.InternalServerError(c, "Failed to load unread count")
		return
	}

	response.Success(c, http.StatusOK, snap)
}

// Stream xử lý GET /inbox/stream (SSE, event "unread").
// Stream kết thúc khi feed rớt; client reconnect sẽ bootstrap lại.
func (h *ConfessionHandler) Stream(c *gin.Context) {
	profileID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	metrics.UnreadStreams.Inc()
	defer metrics.UnreadStreams.Dec()

	started := false
	err := h.readState.Watch(c.Request.Context(), profileID, readstate.NewCounter(), func(snap readstate.Snapshot) {
		if !started {
			c.Header("Content-Type", "text/event-stream")
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
			started = true
		}
		c.SSEvent("unread", snap)
		c.Writer.Flush()
	})

	if err != nil && !started {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Unread stream failed to start")
		response.ErrorResponse(c, http.StatusServiceUnavailable, "STREAM_UNAVAILABLE", "Unread stream unavailable")
	}
}
