package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"confession-backend/internal/domains/account"
	"confession-backend/internal/domains/confirmation"
	"confession-backend/internal/domains/profile"
)

type confirmService struct {
	provider     confirmation.IdentityProvider
	profiles     confirmation.ProfileLookup
	destinations confirmation.Destinations
}

func NewConfirmService(
	provider confirmation.IdentityProvider,
	profiles confirmation.ProfileLookup,
	destinations confirmation.Destinations,
) confirmation.Service {
	return &confirmService{
		provider:     provider,
		profiles:     profiles,
		destinations: destinations,
	}
}

// machine ghi lại các transitions của một lần Confirm
type machine struct {
	outcome confirmation.Outcome
}

func (m *machine) to(s confirmation.State) {
	m.outcome.State = s
	m.outcome.Transitions = append(m.outcome.Transitions, s)
}

func (s *confirmService) Confirm(ctx context.Context, req confirmation.Request, jar account.CookieJar) confirmation.Outcome {
	m := &machine{}
	m.to(confirmation.StateAwaitingToken)

	// STEP 1: thiếu param → reject, không gọi provider
	if req.TokenHash == "" || req.Type == "" {
		return s.reject(m, confirmation.ReasonInvalidLink)
	}
	m.to(confirmation.StateTokenPresented)

	// STEP 2: exchange token
	acc, err := s.provider.VerifyOneTimeToken(ctx, req.TokenHash, account.LinkType(req.Type))
	if err != nil {
		log.Warn().Err(err).Str("type", req.Type).Msg("One-time token exchange failed")
		return s.reject(m, confirmation.ReasonAuthFailed)
	}

	// STEP 3: session cookie phải được ghi trước profile lookup
	if err := s.provider.IssueSession(ctx, acc, jar); err != nil {
		log.Error().Err(err).Str("account_id", acc.ID.String()).Msg("Failed to issue session")
		return s.reject(m, confirmation.ReasonAuthFailed)
	}
	m.to(confirmation.StateVerified)
	m.outcome.AccountID = acc.ID

	// STEP 4: route theo việc profile đã tồn tại chưa.
	// Lookup lỗi được xử lý như chưa có profile; setup là idempotent.
	_, err = s.profiles.GetByID(ctx, acc.ID)
	switch {
	case err == nil:
		m.to(confirmation.StateRoutedDashboard)
		m.outcome.Destination = s.destinations.DashboardURL(req.Next)

	case errors.Is(err, profile.ErrProfileNotFound):
		m.to(confirmation.StateRoutedSetup)
		m.outcome.Destination = s.destinations.SetupURL()

	default:
		log.Error().Err(err).Str("account_id", acc.ID.String()).Msg("Profile lookup failed, routing to setup")
		m.to(confirmation.StateRoutedSetup)
		m.outcome.Destination = s.destinations.SetupURL()
	}

	return m.outcome
}

func (s *confirmService) reject(m *machine, reason confirmation.Reason) confirmation.Outcome {
	m.to(confirmation.StateRejected)
	m.outcome.Reason = reason
	m.outcome.Destination = s.destinations.LoginWithError(reason)
	return m.outcome
}
