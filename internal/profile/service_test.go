package profile

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medease/appointment-backend/internal/failure"
)

type fakeDocStore struct {
	patient      *Profile
	hospital     *ClientProfile
	err          error
	patientCalls int
}

func (s *fakeDocStore) GetPatient(context.Context, string) (*Profile, error) {
	s.patientCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.patient, nil
}

func (s *fakeDocStore) GetHospital(context.Context, string) (*ClientProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.hospital, nil
}

// timeoutError satisfies net.Error the way a dial timeout does.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func strPtr(s string) *string { return &s }

func TestFetchPatient_Success(t *testing.T) {
	store := &fakeDocStore{patient: &Profile{UserID: "u1", Name: strPtr("Asha Rao")}}
	svc := NewService(store, zerolog.Nop())

	p, f := svc.FetchPatient(context.Background(), "u1")

	require.Nil(t, f)
	require.NotNil(t, p.Name)
	assert.Equal(t, "Asha Rao", *p.Name)
}

func TestFetchPatient_CachesPerSession(t *testing.T) {
	store := &fakeDocStore{patient: &Profile{UserID: "u1"}}
	svc := NewService(store, zerolog.Nop())

	_, f := svc.FetchPatient(context.Background(), "u1")
	require.Nil(t, f)
	_, f = svc.FetchPatient(context.Background(), "u1")
	require.Nil(t, f)

	assert.Equal(t, 1, store.patientCalls)

	svc.InvalidateAll()
	_, f = svc.FetchPatient(context.Background(), "u1")
	require.Nil(t, f)
	assert.Equal(t, 2, store.patientCalls)
}

func TestFetchPatient_Classification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want failure.ProfileKind
	}{
		{"absent document", ErrNotFound, failure.ProfileNotFound},
		{"dial timeout", timeoutError{}, failure.ProfileNetworkError},
		{"context deadline", context.DeadlineExceeded, failure.ProfileNetworkError},
		{"postgres error", &pgconn.PgError{Code: "57P01", Message: "terminating connection"}, failure.ProfileDatabaseError},
		{"anything else", assert.AnError, failure.ProfileUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeDocStore{err: tc.err}
			svc := NewService(store, zerolog.Nop())

			_, f := svc.FetchPatient(context.Background(), "u1")

			require.NotNil(t, f)
			assert.Equal(t, tc.want, f.Kind)
		})
	}
}

func TestFetchPatient_FailureIsNotCached(t *testing.T) {
	store := &fakeDocStore{err: ErrNotFound}
	svc := NewService(store, zerolog.Nop())

	_, f := svc.FetchPatient(context.Background(), "u1")
	require.NotNil(t, f)

	// the document shows up later; the next fetch must hit the store again
	store.err = nil
	store.patient = &Profile{UserID: "u1"}
	p, f := svc.FetchPatient(context.Background(), "u1")
	require.Nil(t, f)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 2, store.patientCalls)
}

func TestFetchHospital_Success(t *testing.T) {
	store := &fakeDocStore{hospital: &ClientProfile{HospitalID: "h1", HospitalCity: strPtr("Pune")}}
	svc := NewService(store, zerolog.Nop())

	p, f := svc.FetchHospital(context.Background(), "h1")

	require.Nil(t, f)
	require.NotNil(t, p.HospitalCity)
	assert.Equal(t, "Pune", *p.HospitalCity)
}

func TestFetchHospital_NotFound(t *testing.T) {
	store := &fakeDocStore{err: ErrNotFound}
	svc := NewService(store, zerolog.Nop())

	_, f := svc.FetchHospital(context.Background(), "h1")

	require.NotNil(t, f)
	assert.Equal(t, failure.ProfileNotFound, f.Kind)
}
