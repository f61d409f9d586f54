package confession

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// SubmitRequest là form POST /confess/:slug
type SubmitRequest struct {
	Message string `form:"message" json:"message"`
}

// NormalizeBody trim whitespace hai đầu
func NormalizeBody(raw string) string {
	return strings.TrimSpace(raw)
}

// ValidateBody kiểm tra độ dài theo rune, không theo byte
func ValidateBody(body string) error {
	return validation.Validate(body,
		validation.Required.Error(MsgInvalidLength),
		validation.RuneLength(MinBodyLength, MaxBodyLength).Error(MsgInvalidLength),
	)
}

type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt string    `json:"created_at"`
}

type InboxResponse struct {
	Messages []MessageDTO `json:"messages"`
	Total    int          `json:"total"`
	Unread   int          `json:"unread"`
}

func (m Message) ToDTO() MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		Message:   m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func NewInboxResponse(messages []Message) InboxResponse {
	resp := InboxResponse{Messages: make([]MessageDTO, 0, len(messages)), Total: len(messages)}
	for _, m := range messages {
		if !m.IsRead {
			resp.Unread++
		}
		resp.Messages = append(resp.Messages, m.ToDTO())
	}
	return resp
}
