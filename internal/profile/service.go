package profile

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/medease/appointment-backend/internal/failure"
)

// Service fetches profile documents and classifies every store error into
// the profile failure family. Fetched documents are cached read-only for the
// lifetime of the session; InvalidateAll drops the cache on logout.
type Service struct {
	store DocumentStore
	log   zerolog.Logger

	mu        sync.RWMutex
	patients  map[string]*Profile
	hospitals map[string]*ClientProfile
}

func NewService(store DocumentStore, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		log:       log.With().Str("component", "profile").Logger(),
		patients:  map[string]*Profile{},
		hospitals: map[string]*ClientProfile{},
	}
}

func (s *Service) FetchPatient(ctx context.Context, id string) (*Profile, *failure.Profile) {
	s.mu.RLock()
	cached, ok := s.patients[id]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	p, err := s.store.GetPatient(ctx, id)
	if err != nil {
		return nil, s.classify(err, id)
	}

	s.mu.Lock()
	s.patients[id] = p
	s.mu.Unlock()
	return p, nil
}

func (s *Service) FetchHospital(ctx context.Context, id string) (*ClientProfile, *failure.Profile) {
	s.mu.RLock()
	cached, ok := s.hospitals[id]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	p, err := s.store.GetHospital(ctx, id)
	if err != nil {
		return nil, s.classify(err, id)
	}

	s.mu.Lock()
	s.hospitals[id] = p
	s.mu.Unlock()
	return p, nil
}

// InvalidateAll drops every cached document.
func (s *Service) InvalidateAll() {
	s.mu.Lock()
	s.patients = map[string]*Profile{}
	s.hospitals = map[string]*ClientProfile{}
	s.mu.Unlock()
}

// classify maps a store error onto exactly one profile failure kind:
// absent document, transport-layer error, store-reported error, or unknown.
func (s *Service) classify(err error, id string) *failure.Profile {
	switch {
	case errors.Is(err, ErrNotFound):
		return failure.NewProfile(failure.ProfileNotFound, err)
	case isNetworkError(err):
		s.log.Warn().Err(err).Str("id", id).Msg("profile fetch hit a network error")
		return failure.NewProfile(failure.ProfileNetworkError, err)
	case isStoreError(err):
		s.log.Error().Err(err).Str("id", id).Msg("profile fetch hit a store error")
		return failure.NewProfile(failure.ProfileDatabaseError, err)
	default:
		s.log.Error().Err(err).Str("id", id).Msg("profile fetch failed")
		return failure.NewProfile(failure.ProfileUnknown, err)
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isStoreError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}
