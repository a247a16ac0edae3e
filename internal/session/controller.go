package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medease/appointment-backend/internal/auth"
	"github.com/medease/appointment-backend/internal/failure"
	"github.com/medease/appointment-backend/internal/identity"
)

type State int

const (
	StateUnknown State = iota
	StateRemembered
	StateNotRemembered
	StateAuthenticating
	StateAuthenticated
	StateLoggingOut
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateRemembered:
		return "remembered"
	case StateNotRemembered:
		return "not_remembered"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggingOut:
		return "logging_out"
	case StateLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Destination is the initial-screen decision consumed at app start.
type Destination int

const (
	DestinationSignIn Destination = iota
	DestinationHome
)

func (d Destination) String() string {
	if d == DestinationHome {
		return "home"
	}
	return "sign_in"
}

// Controller orchestrates the auth service and the session store. It is the
// single source of truth for "is there a valid remembered session, and for
// whom". One mutex serializes every session-store mutation so writes land in
// the order the calls were issued.
type Controller struct {
	auth          *auth.Service
	store         Store
	log           zerolog.Logger
	strictPersist bool

	mu     sync.Mutex
	states map[string]State
}

func NewController(authSvc *auth.Service, store Store, log zerolog.Logger, strictPersist bool) *Controller {
	return &Controller{
		auth:          authSvc,
		store:         store,
		log:           log.With().Str("component", "session").Logger(),
		strictPersist: strictPersist,
		states:        map[string]State{},
	}
}

// State reports the controller state for a device, StateUnknown before any
// operation has touched it.
func (c *Controller) State(deviceID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[deviceID]
}

func (c *Controller) setState(deviceID string, s State) {
	c.mu.Lock()
	c.states[deviceID] = s
	c.mu.Unlock()
}

// ReadSession reads the persisted session for a device. A store error is
// wrapped as the single session-read failure variant.
func (c *Controller) ReadSession(ctx context.Context, deviceID string) (Session, *failure.SessionRead) {
	sess, err := c.store.Read(ctx, deviceID)
	if err != nil {
		return Session{}, failure.NewSessionRead(err)
	}
	return sess, nil
}

// DetermineInitialDestination picks the first screen for a device. A store
// read failure is treated exactly like "not remembered": the one acceptable
// outcome for an unreadable session is re-authentication.
func (c *Controller) DetermineInitialDestination(ctx context.Context, deviceID string) (Destination, string) {
	sess, f := c.ReadSession(ctx, deviceID)
	if f != nil {
		c.log.Warn().Err(f).Str("device_id", deviceID).Msg("session read failed, routing to sign in")
		c.setState(deviceID, StateNotRemembered)
		return DestinationSignIn, ""
	}

	if !sess.RememberMe {
		c.setState(deviceID, StateNotRemembered)
		return DestinationSignIn, ""
	}

	c.setState(deviceID, StateRemembered)
	return DestinationHome, sess.SubjectID
}

// SignIn authenticates and, when asked to, remembers the session. The
// remember-me write is best effort unless strict persistence is configured:
// authentication already succeeded, so by default a failed write only means
// the session will not survive a restart.
func (c *Controller) SignIn(ctx context.Context, deviceID string, kind identity.SubjectKind, email, password string, rememberMe bool) (string, *failure.SignIn) {
	c.setState(deviceID, StateAuthenticating)

	subjectID, f := c.auth.SignIn(ctx, kind, email, password)
	if f != nil {
		c.setState(deviceID, StateNotRemembered)
		return "", f
	}

	if rememberMe {
		if err := c.persist(ctx, deviceID, RememberSubject(subjectID)); err != nil {
			if c.strictPersist {
				c.setState(deviceID, StateNotRemembered)
				return "", failure.NewSignIn(failure.SignInUnknown, err)
			}
			c.log.Warn().Err(err).Str("device_id", deviceID).
				Msg("remember-me write failed, session will not survive restart")
		}
	}

	c.setState(deviceID, StateAuthenticated)
	return subjectID, nil
}

// SignUp registers a new account and then behaves exactly like SignIn with
// respect to the remember-me session.
func (c *Controller) SignUp(ctx context.Context, deviceID string, kind identity.SubjectKind, email, password string, rememberMe bool) (string, *failure.SignUp) {
	c.setState(deviceID, StateAuthenticating)

	subjectID, f := c.auth.SignUp(ctx, kind, email, password)
	if f != nil {
		c.setState(deviceID, StateNotRemembered)
		return "", f
	}

	if rememberMe {
		if err := c.persist(ctx, deviceID, RememberSubject(subjectID)); err != nil {
			if c.strictPersist {
				c.setState(deviceID, StateNotRemembered)
				return "", failure.NewSignUp(failure.SignUpUnknown, err)
			}
			c.log.Warn().Err(err).Str("device_id", deviceID).
				Msg("remember-me write failed, session will not survive restart")
		}
	}

	c.setState(deviceID, StateAuthenticated)
	return subjectID, nil
}

// Logout signs the subject out and clears the persisted session. When the
// provider sign-out fails the persisted session is left untouched.
func (c *Controller) Logout(ctx context.Context, deviceID, subjectID string) *failure.Logout {
	c.setState(deviceID, StateLoggingOut)

	if f := c.auth.SignOut(ctx, subjectID); f != nil {
		c.setState(deviceID, StateAuthenticated)
		return f
	}

	if err := c.persist(ctx, deviceID, ClearSubject()); err != nil {
		// signed out upstream but the stale session could not be cleared
		c.log.Error().Err(err).Str("device_id", deviceID).Msg("session clear failed after sign out")
		c.setState(deviceID, StateLoggedOut)
		return failure.NewLogout(err)
	}

	c.setState(deviceID, StateLoggedOut)
	return nil
}

// persist funnels every store mutation through one mutex so writes are
// applied in issue order, never reordered or coalesced.
func (c *Controller) persist(ctx context.Context, deviceID string, update Update) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Write(ctx, deviceID, update)
}
