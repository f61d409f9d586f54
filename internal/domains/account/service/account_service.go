package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/domains/account"
	"confession-backend/internal/infrastructure/queue"
	"confession-backend/internal/shared"
	"confession-backend/pkg/jwt"
)

// Config chứa các tham số account service cần từ config.Config
type Config struct {
	LinkTTL      time.Duration
	SiteURL      string
	ConfirmPath  string
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

type accountService struct {
	repo       account.Repository
	tokens     account.TokenStore
	sessions   account.SessionStore
	jwtManager *jwt.Manager
	queue      queue.TaskEnqueuer
	cfg        Config
}

func NewAccountService(
	repo account.Repository,
	tokens account.TokenStore,
	sessions account.SessionStore,
	jwtManager *jwt.Manager,
	enqueuer queue.TaskEnqueuer,
	cfg Config,
) account.Service {
	if cfg.ConfirmPath == "" {
		cfg.ConfirmPath = "/auth/confirm"
	}
	return &accountService{
		repo:       repo,
		tokens:     tokens,
		sessions:   sessions,
		jwtManager: jwtManager,
		queue:      enqueuer,
		cfg:        cfg,
	}
}

// ========================================
// ONE-TIME LINK
// ========================================

func (s *accountService) RequestLink(ctx context.Context, req account.SignUpRequest) (*account.SignUpResponse, error) {
	// STEP 1: normalize + validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", account.ErrInvalidEmail, err)
	}

	// STEP 2: signup cho email mới, magiclink cho email đã có account
	linkType := account.LinkTypeMagicLink
	if _, err := s.repo.FindByEmail(ctx, req.Email); err != nil {
		if !errors.Is(err, account.ErrAccountNotFound) {
			return nil, fmt.Errorf("lookup account: %w", err)
		}
		linkType = account.LinkTypeSignup
	}

	// STEP 3: generate + store token
	tokenHash, err := newTokenHash()
	if err != nil {
		return nil, err
	}

	err = s.tokens.Save(ctx, tokenHash, account.OneTimeToken{
		Email:    req.Email,
		Type:     linkType,
		IssuedAt: time.Now().UTC(),
	}, s.cfg.LinkTTL)
	if err != nil {
		return nil, fmt.Errorf("store one-time token: %w", err)
	}

	// STEP 4: enqueue email
	payload, err := json.Marshal(shared.MagicLinkEmailPayload{
		Email:     req.Email,
		Link:      s.confirmLink(tokenHash, linkType),
		LinkType:  string(linkType),
		ExpiresIn: s.cfg.LinkTTL.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeSendMagicLinkEmail, payload)
	if _, err := s.queue.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueCritical),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	); err != nil {
		return nil, fmt.Errorf("enqueue magic link email: %w", err)
	}

	log.Info().
		Str("email", req.Email).
		Str("link_type", string(linkType)).
		Msg("One-time link issued")

	return &account.SignUpResponse{
		Email:   req.Email,
		Message: "Check your email for the confirmation link.",
	}, nil
}

func (s *accountService) VerifyOneTimeToken(ctx context.Context, tokenHash string, linkType account.LinkType) (*account.Account, error) {
	if tokenHash == "" {
		return nil, account.ErrInvalidToken
	}
	if _, ok := account.ParseLinkType(string(linkType)); !ok {
		return nil, account.ErrInvalidToken
	}

	token, err := s.tokens.Consume(ctx, tokenHash, linkType)
	if err != nil {
		if errors.Is(err, account.ErrInvalidToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", account.ErrInvalidToken, err)
	}

	acc, err := s.repo.FindOrCreateByEmail(ctx, token.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", account.ErrInvalidToken, err)
	}

	return acc, nil
}

// ========================================
// SESSION
// ========================================

func (s *accountService) IssueSession(ctx context.Context, acc *account.Account, jar account.CookieJar) error {
	token, _, err := s.jwtManager.GenerateSessionToken(acc.ID.String(), acc.Email)
	if err != nil {
		return err
	}

	jar.Set(s.sessionCookie(token, int(s.jwtManager.TTL().Seconds())))
	return nil
}

func (s *accountService) CurrentAccount(ctx context.Context, jar account.CookieJar) (*account.Account, error) {
	token, ok := jar.Get(s.cfg.CookieName)
	if !ok {
		return nil, account.ErrNoSession
	}

	sess, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	return &account.Account{ID: sess.AccountID, Email: sess.Email}, nil
}

func (s *accountService) ResolveSession(ctx context.Context, token string) (*account.Session, error) {
	claims, err := s.jwtManager.ValidateSessionToken(token)
	if err != nil {
		return nil, account.ErrNoSession
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, account.ErrNoSession
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, account.ErrNoSession
	}

	sess := &account.Session{
		AccountID: accountID,
		Email:     claims.Email,
		JTI:       claims.ID,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

func (s *accountService) SignOut(ctx context.Context, jar account.CookieJar) error {
	token, ok := jar.Get(s.cfg.CookieName)

	// Cookie luôn bị xóa, kể cả khi revoke thất bại
	jar.Set(s.sessionCookie("", -1))

	if !ok {
		return nil
	}

	claims, err := s.jwtManager.ValidateSessionToken(token)
	if err != nil {
		return nil
	}

	// Token không có exp: giữ revoke trong một session TTL
	ttl := s.jwtManager.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// ========================================
// HELPERS
// ========================================

func (s *accountService) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   s.cfg.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *accountService) confirmLink(tokenHash string, linkType account.LinkType) string {
	q := url.Values{}
	q.Set("token_hash", tokenHash)
	q.Set("type", string(linkType))
	return s.cfg.SiteURL + s.cfg.ConfirmPath + "?" + q.Encode()
}

// newTokenHash sinh 32 random bytes và trả về sha256 dạng hex; raw bytes không được lưu
func newTokenHash() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
