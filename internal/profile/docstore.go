package profile

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile document not found")

// DocumentStore is the document collaborator profiles are fetched from.
// Implementations return ErrNotFound for an absent document and otherwise
// surface their transport or storage errors untouched; classification into
// the failure taxonomy is the service's job.
type DocumentStore interface {
	GetPatient(ctx context.Context, id string) (*Profile, error)
	GetHospital(ctx context.Context, id string) (*ClientProfile, error)
}
