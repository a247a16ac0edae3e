// Package auth wraps the identity provider and converts every error it can
// raise into exactly one typed failure. No provider error escapes unmapped.
package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/medease/appointment-backend/internal/failure"
	"github.com/medease/appointment-backend/internal/identity"
)

type Service struct {
	provider identity.Provider
	log      zerolog.Logger
}

func NewService(provider identity.Provider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

func (s *Service) SignUp(ctx context.Context, kind identity.SubjectKind, email, password string) (string, *failure.SignUp) {
	subjectID, err := s.provider.SignUp(ctx, kind, email, password)
	if err == nil {
		return subjectID, nil
	}

	switch {
	case errors.Is(err, identity.ErrInvalidEmail):
		return "", failure.NewSignUp(failure.SignUpInvalidEmail, err)
	case errors.Is(err, identity.ErrWeakPassword):
		return "", failure.NewSignUp(failure.SignUpWeakPassword, err)
	case errors.Is(err, identity.ErrAccountExists):
		return "", failure.NewSignUp(failure.SignUpAccountExists, err)
	default:
		s.log.Error().Err(err).Str("email", email).Msg("sign up failed")
		return "", failure.NewSignUp(failure.SignUpUnknown, err)
	}
}

func (s *Service) SignIn(ctx context.Context, kind identity.SubjectKind, email, password string) (string, *failure.SignIn) {
	subjectID, err := s.provider.SignIn(ctx, kind, email, password)
	if err == nil {
		return subjectID, nil
	}

	if errors.Is(err, identity.ErrInvalidCredentials) {
		return "", failure.NewSignIn(failure.SignInInvalidCredentials, err)
	}
	s.log.Error().Err(err).Str("email", email).Msg("sign in failed")
	return "", failure.NewSignIn(failure.SignInUnknown, err)
}

func (s *Service) SignOut(ctx context.Context, subjectID string) *failure.Logout {
	if err := s.provider.SignOut(ctx, subjectID); err != nil {
		s.log.Error().Err(err).Str("subject_id", subjectID).Msg("sign out failed")
		return failure.NewLogout(err)
	}
	return nil
}
