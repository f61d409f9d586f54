package account

import (
	"time"

	"github.com/google/uuid"
)

// Account là identity đã chứng minh sở hữu email.
// Tạo lần đầu khi token exchange thành công, không bao giờ tạo 2 lần cho 1 email.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LinkType là loại one-time link đi kèm token_hash
type LinkType string

const (
	LinkTypeSignup    LinkType = "signup"
	LinkTypeMagicLink LinkType = "magiclink"
	// LinkTypeEmail chấp nhận cả signup lẫn magiclink
	LinkTypeEmail LinkType = "email"
)

// ParseLinkType trả về false với type không hỗ trợ
func ParseLinkType(raw string) (LinkType, bool) {
	switch t := LinkType(raw); t {
	case LinkTypeSignup, LinkTypeMagicLink, LinkTypeEmail:
		return t, true
	default:
		return "", false
	}
}

// Accepts kiểm tra type trên link có khớp với token đã phát hành không
func (t LinkType) Accepts(issued LinkType) bool {
	return t == issued || t == LinkTypeEmail
}

// OneTimeToken là bản ghi lưu trong token store cho tới khi bị consume
type OneTimeToken struct {
	Email    string    `json:"email"`
	Type     LinkType  `json:"type"`
	IssuedAt time.Time `json:"issued_at"`
}

// Session là kết quả verify session cookie
type Session struct {
	AccountID uuid.UUID
	Email     string
	JTI       string
	ExpiresAt time.Time
}
