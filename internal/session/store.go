// Package session owns the remembered-session lifecycle: the persisted
// remember-me record per device and the controller that is the single source
// of truth for whether a valid remembered session exists.
package session

import "context"

// Session is the persisted remember-me record. SubjectID is only meaningful
// while RememberMe is true; logout clears both.
type Session struct {
	RememberMe bool
	SubjectID  string
}

// Update is a partial write. A nil SubjectID leaves any stored subject
// untouched; a pointer to the empty string clears it.
type Update struct {
	RememberMe bool
	SubjectID  *string
}

// Store persists one Session per device installation.
type Store interface {
	Read(ctx context.Context, deviceID string) (Session, error)
	Write(ctx context.Context, deviceID string, update Update) error
}

// ClearSubject is the update written on logout.
func ClearSubject() Update {
	empty := ""
	return Update{RememberMe: false, SubjectID: &empty}
}

// RememberSubject is the update written after a successful remembered sign-in.
func RememberSubject(subjectID string) Update {
	return Update{RememberMe: true, SubjectID: &subjectID}
}
