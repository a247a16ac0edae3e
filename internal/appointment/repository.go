package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrStatusConflict is returned when a compare-and-swap update finds the
	// appointment no longer in a status the transition is legal from.
	ErrStatusConflict = errors.New("appointment status changed concurrently")
)

// Repository contains all DB interactions needed by the engine.
type Repository interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Details, error)

	// CreateScheduled inserts a fresh appointment in the scheduled status.
	CreateScheduled(ctx context.Context, patientID, doctorID, hospitalID uuid.UUID, date time.Time, slot string) (*Details, error)

	// Reschedule swaps the doctor and date/slot and moves the status to
	// rescheduled, guarded against a concurrent move into completed.
	Reschedule(ctx context.Context, id, doctorID uuid.UUID, date time.Time, slot string) (*Details, error)

	// Complete stores the health remark and marks the appointment completed,
	// guarded the same way.
	Complete(ctx context.Context, id uuid.UUID, healthRemark string) (*Details, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Details, error)

	// Reminder worker
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]Details, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
