package confirmation

import (
	"context"

	"github.com/google/uuid"

	"confession-backend/internal/domains/account"
	"confession-backend/internal/domains/profile"
)

// IdentityProvider là phần account.Service mà confirmation dùng
type IdentityProvider interface {
	VerifyOneTimeToken(ctx context.Context, tokenHash string, linkType account.LinkType) (*account.Account, error)
	IssueSession(ctx context.Context, acc *account.Account, jar account.CookieJar) error
}

// ProfileLookup returns profile.ErrProfileNotFound khi account chưa setup
type ProfileLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

type Service interface {
	// Confirm luôn trả về Outcome ở terminal state, không bao giờ trả lỗi
	Confirm(ctx context.Context, req Request, jar account.CookieJar) Outcome
}
