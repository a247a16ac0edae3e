package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medease/appointment-backend/internal/auth"
	"github.com/medease/appointment-backend/internal/failure"
	"github.com/medease/appointment-backend/internal/identity"
)

// fakeProvider plays the identity provider with canned results.
type fakeProvider struct {
	subjectID  string
	signInErr  error
	signUpErr  error
	signOutErr error
}

func (p *fakeProvider) SignUp(context.Context, identity.SubjectKind, string, string) (string, error) {
	if p.signUpErr != nil {
		return "", p.signUpErr
	}
	return p.subjectID, nil
}

func (p *fakeProvider) SignIn(context.Context, identity.SubjectKind, string, string) (string, error) {
	if p.signInErr != nil {
		return "", p.signInErr
	}
	return p.subjectID, nil
}

func (p *fakeProvider) SignOut(context.Context, string) error {
	return p.signOutErr
}

// memStore is an in-memory Store with injectable read/write errors.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	readErr  error
	writeErr error
	writes   int
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]Session{}}
}

func (s *memStore) Read(_ context.Context, deviceID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return Session{}, s.readErr
	}
	return s.sessions[deviceID], nil
}

func (s *memStore) Write(_ context.Context, deviceID string, update Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes++
	sess := s.sessions[deviceID]
	sess.RememberMe = update.RememberMe
	if update.SubjectID != nil {
		sess.SubjectID = *update.SubjectID
	}
	s.sessions[deviceID] = sess
	return nil
}

func newTestController(provider identity.Provider, store Store, strict bool) *Controller {
	svc := auth.NewService(provider, zerolog.Nop())
	return NewController(svc, store, zerolog.Nop(), strict)
}

const device = "device-1"

func TestDetermineInitialDestination_NoSession(t *testing.T) {
	c := newTestController(&fakeProvider{}, newMemStore(), false)

	dest, subject := c.DetermineInitialDestination(context.Background(), device)

	assert.Equal(t, DestinationSignIn, dest)
	assert.Empty(t, subject)
	assert.Equal(t, StateNotRemembered, c.State(device))
}

func TestDetermineInitialDestination_Remembered(t *testing.T) {
	store := newMemStore()
	store.sessions[device] = Session{RememberMe: true, SubjectID: "subject-42"}
	c := newTestController(&fakeProvider{}, store, false)

	dest, subject := c.DetermineInitialDestination(context.Background(), device)

	assert.Equal(t, DestinationHome, dest)
	assert.Equal(t, "subject-42", subject)
	assert.Equal(t, StateRemembered, c.State(device))
}

func TestDetermineInitialDestination_ReadFailureFailsClosed(t *testing.T) {
	store := newMemStore()
	store.sessions[device] = Session{RememberMe: true, SubjectID: "subject-42"}
	store.readErr = errors.New("redis down")
	c := newTestController(&fakeProvider{}, store, false)

	dest, subject := c.DetermineInitialDestination(context.Background(), device)

	assert.Equal(t, DestinationSignIn, dest)
	assert.Empty(t, subject)
	assert.Equal(t, StateNotRemembered, c.State(device))
}

func TestSignIn_RememberMeWritesSession(t *testing.T) {
	store := newMemStore()
	c := newTestController(&fakeProvider{subjectID: "subject-42"}, store, false)

	subject, f := c.SignIn(context.Background(), device, identity.KindPatient, "a@example.com", "Str0ng!Pass", true)

	require.Nil(t, f)
	assert.Equal(t, "subject-42", subject)
	assert.Equal(t, StateAuthenticated, c.State(device))
	assert.Equal(t, Session{RememberMe: true, SubjectID: "subject-42"}, store.sessions[device])
}

func TestSignIn_WithoutRememberMeWritesNothing(t *testing.T) {
	store := newMemStore()
	c := newTestController(&fakeProvider{subjectID: "subject-42"}, store, false)

	_, f := c.SignIn(context.Background(), device, identity.KindPatient, "a@example.com", "Str0ng!Pass", false)

	require.Nil(t, f)
	assert.Zero(t, store.writes)
	assert.Equal(t, Session{}, store.sessions[device])
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	store := newMemStore()
	c := newTestController(&fakeProvider{signInErr: identity.ErrInvalidCredentials}, store, false)

	_, f := c.SignIn(context.Background(), device, identity.KindPatient, "a@example.com", "wrong", true)

	require.NotNil(t, f)
	assert.Equal(t, failure.SignInInvalidCredentials, f.Kind)
	assert.Equal(t, StateNotRemembered, c.State(device))
	assert.Zero(t, store.writes)
}

func TestSignIn_WriteFailureIsBestEffortByDefault(t *testing.T) {
	store := newMemStore()
	store.writeErr = errors.New("redis down")
	c := newTestController(&fakeProvider{subjectID: "subject-42"}, store, false)

	subject, f := c.SignIn(context.Background(), device, identity.KindPatient, "a@example.com", "Str0ng!Pass", true)

	// authentication succeeded, the lost write only costs restart survival
	require.Nil(t, f)
	assert.Equal(t, "subject-42", subject)
	assert.Equal(t, StateAuthenticated, c.State(device))
}

func TestSignIn_WriteFailureSurfacesUnderStrictPersist(t *testing.T) {
	store := newMemStore()
	store.writeErr = errors.New("redis down")
	c := newTestController(&fakeProvider{subjectID: "subject-42"}, store, true)

	_, f := c.SignIn(context.Background(), device, identity.KindPatient, "a@example.com", "Str0ng!Pass", true)

	require.NotNil(t, f)
	assert.Equal(t, failure.SignInUnknown, f.Kind)
	assert.Equal(t, StateNotRemembered, c.State(device))
}

func TestSignUp_RememberMeWritesSession(t *testing.T) {
	store := newMemStore()
	c := newTestController(&fakeProvider{subjectID: "subject-7"}, store, false)

	subject, f := c.SignUp(context.Background(), device, identity.KindHospital, "h@example.com", "Str0ng!Pass", true)

	require.Nil(t, f)
	assert.Equal(t, "subject-7", subject)
	assert.Equal(t, Session{RememberMe: true, SubjectID: "subject-7"}, store.sessions[device])
}

func TestSignUp_AccountExists(t *testing.T) {
	c := newTestController(&fakeProvider{signUpErr: identity.ErrAccountExists}, newMemStore(), false)

	_, f := c.SignUp(context.Background(), device, identity.KindPatient, "a@example.com", "Str0ng!Pass", false)

	require.NotNil(t, f)
	assert.Equal(t, failure.SignUpAccountExists, f.Kind)
	assert.Equal(t, StateNotRemembered, c.State(device))
}

func TestLogout_ClearsSession(t *testing.T) {
	store := newMemStore()
	store.sessions[device] = Session{RememberMe: true, SubjectID: "subject-42"}
	c := newTestController(&fakeProvider{}, store, false)

	f := c.Logout(context.Background(), device, "subject-42")

	require.Nil(t, f)
	assert.Equal(t, StateLoggedOut, c.State(device))
	assert.Equal(t, Session{}, store.sessions[device])
}

func TestLogout_ProviderFailureLeavesSessionUntouched(t *testing.T) {
	store := newMemStore()
	store.sessions[device] = Session{RememberMe: true, SubjectID: "subject-42"}
	c := newTestController(&fakeProvider{signOutErr: errors.New("provider down")}, store, false)

	f := c.Logout(context.Background(), device, "subject-42")

	require.NotNil(t, f)
	assert.Equal(t, StateAuthenticated, c.State(device))
	assert.Equal(t, Session{RememberMe: true, SubjectID: "subject-42"}, store.sessions[device])
}

func TestLogout_ClearWriteFailureStillReported(t *testing.T) {
	store := newMemStore()
	store.sessions[device] = Session{RememberMe: true, SubjectID: "subject-42"}
	store.writeErr = errors.New("redis down")
	c := newTestController(&fakeProvider{}, store, false)

	f := c.Logout(context.Background(), device, "subject-42")

	// signed out upstream, but the stale remembered session survives
	require.NotNil(t, f)
	assert.Equal(t, StateLoggedOut, c.State(device))
	assert.Equal(t, Session{RememberMe: true, SubjectID: "subject-42"}, store.sessions[device])
}

func TestUpdateHelpers(t *testing.T) {
	u := RememberSubject("subject-42")
	assert.True(t, u.RememberMe)
	require.NotNil(t, u.SubjectID)
	assert.Equal(t, "subject-42", *u.SubjectID)

	u = ClearSubject()
	assert.False(t, u.RememberMe)
	require.NotNil(t, u.SubjectID)
	assert.Empty(t, *u.SubjectID)
}
