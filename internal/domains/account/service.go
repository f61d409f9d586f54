package account

import (
	"context"
	"net/http"
)

// CookieJar là cổng đọc/ghi cookie của request hiện tại
type CookieJar interface {
	Get(name string) (string, bool)
	Set(cookie *http.Cookie)
}

// Service là identity provider của hệ thống: one-time link + session cookie
type Service interface {
	// RequestLink tạo one-time token và enqueue email chứa link xác nhận
	RequestLink(ctx context.Context, req SignUpRequest) (*SignUpResponse, error)

	// VerifyOneTimeToken exchange token_hash lấy Account. Mọi lỗi về token đều là ErrInvalidToken.
	VerifyOneTimeToken(ctx context.Context, tokenHash string, linkType LinkType) (*Account, error)

	// IssueSession ghi session cookie cho account
	IssueSession(ctx context.Context, acc *Account, jar CookieJar) error

	// CurrentAccount đọc session cookie; không có hoặc revoked → ErrNoSession
	CurrentAccount(ctx context.Context, jar CookieJar) (*Account, error)

	// ResolveSession verify raw session token (dùng bởi auth middleware)
	ResolveSession(ctx context.Context, token string) (*Session, error)

	// SignOut revoke session hiện tại và xóa cookie
	SignOut(ctx context.Context, jar CookieJar) error
}
