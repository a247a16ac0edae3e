package identity

import (
	"context"
	"errors"
)

// SubjectKind separates the two account populations sharing one backend.
type SubjectKind string

const (
	KindPatient  SubjectKind = "patient"
	KindHospital SubjectKind = "hospital"
)

var (
	ErrInvalidEmail       = errors.New("email address is badly formatted")
	ErrWeakPassword       = errors.New("password does not meet the minimum strength")
	ErrAccountExists      = errors.New("account already exists for this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenNotFound      = errors.New("refresh token not found")
	ErrTokenRevoked       = errors.New("refresh token revoked")
	ErrTokenExpired       = errors.New("refresh token expired")
)

// Provider is the identity collaborator the auth service wraps. Every method
// either succeeds or returns an error classifiable by the sentinels above;
// anything else is treated as unclassified by the caller.
type Provider interface {
	SignUp(ctx context.Context, kind SubjectKind, email, password string) (subjectID string, err error)
	SignIn(ctx context.Context, kind SubjectKind, email, password string) (subjectID string, err error)
	SignOut(ctx context.Context, subjectID string) error
}
