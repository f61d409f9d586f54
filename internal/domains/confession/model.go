package confession

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinBodyLength = 1
	MaxBodyLength = 1000
)

// Message là một confession ẩn danh. Không có field nào về người gửi;
// chỉ IsRead được phép thay đổi sau khi tạo.
type Message struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Body      string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
