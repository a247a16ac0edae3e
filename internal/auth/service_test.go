package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medease/appointment-backend/internal/failure"
	"github.com/medease/appointment-backend/internal/identity"
)

type stubProvider struct {
	subjectID  string
	signUpErr  error
	signInErr  error
	signOutErr error
}

func (p *stubProvider) SignUp(context.Context, identity.SubjectKind, string, string) (string, error) {
	if p.signUpErr != nil {
		return "", p.signUpErr
	}
	return p.subjectID, nil
}

func (p *stubProvider) SignIn(context.Context, identity.SubjectKind, string, string) (string, error) {
	if p.signInErr != nil {
		return "", p.signInErr
	}
	return p.subjectID, nil
}

func (p *stubProvider) SignOut(context.Context, string) error {
	return p.signOutErr
}

func TestService_SignUp_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want failure.SignUpKind
	}{
		{"invalid email", identity.ErrInvalidEmail, failure.SignUpInvalidEmail},
		{"weak password", identity.ErrWeakPassword, failure.SignUpWeakPassword},
		{"account exists", identity.ErrAccountExists, failure.SignUpAccountExists},
		{"anything else", errors.New("connection refused"), failure.SignUpUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&stubProvider{signUpErr: tc.err}, zerolog.Nop())

			_, f := svc.SignUp(context.Background(), identity.KindPatient, "a@example.com", "Str0ng!Pass")

			require.NotNil(t, f)
			assert.Equal(t, tc.want, f.Kind)
			// the original cause stays reachable for errors.Is
			assert.ErrorIs(t, f, tc.err)
		})
	}
}

func TestService_SignUp_Success(t *testing.T) {
	svc := NewService(&stubProvider{subjectID: "subject-42"}, zerolog.Nop())

	subject, f := svc.SignUp(context.Background(), identity.KindHospital, "h@example.com", "Str0ng!Pass")

	require.Nil(t, f)
	assert.Equal(t, "subject-42", subject)
}

func TestService_SignIn_InvalidCredentials(t *testing.T) {
	svc := NewService(&stubProvider{signInErr: identity.ErrInvalidCredentials}, zerolog.Nop())

	_, f := svc.SignIn(context.Background(), identity.KindPatient, "a@example.com", "wrong")

	require.NotNil(t, f)
	assert.Equal(t, failure.SignInInvalidCredentials, f.Kind)
}

func TestService_SignIn_UnknownErrorIsWrapped(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	svc := NewService(&stubProvider{signInErr: cause}, zerolog.Nop())

	_, f := svc.SignIn(context.Background(), identity.KindPatient, "a@example.com", "pw")

	require.NotNil(t, f)
	assert.Equal(t, failure.SignInUnknown, f.Kind)
	assert.ErrorIs(t, f, cause)
}

func TestService_SignOut(t *testing.T) {
	svc := NewService(&stubProvider{}, zerolog.Nop())
	assert.Nil(t, svc.SignOut(context.Background(), "subject-42"))

	cause := errors.New("revocation failed")
	svc = NewService(&stubProvider{signOutErr: cause}, zerolog.Nop())
	f := svc.SignOut(context.Background(), "subject-42")
	require.NotNil(t, f)
	assert.ErrorIs(t, f, cause)
}
