package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusRescheduled Status = "rescheduled"
	StatusCompleted   Status = "completed"
)

// CanTransitionTo reports whether moving to the target status is legal.
// Completed is terminal; a rescheduled appointment may be rescheduled again.
func (s Status) CanTransitionTo(to Status) bool {
	switch s {
	case StatusScheduled:
		return to == StatusRescheduled || to == StatusCompleted
	case StatusRescheduled:
		return to == StatusRescheduled || to == StatusCompleted
	default:
		return false
	}
}

// Terminal reports whether no further transition may leave this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

type Doctor struct {
	ID         uuid.UUID
	HospitalID uuid.UUID
	Name       string
	Specialty  *string
	// FromDate and ToDate bound the window in which the doctor accepts
	// appointments. A chosen date outside the window is a validation
	// failure, never silently clamped.
	FromDate  time.Time
	ToDate    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available reports whether the given date falls inside the doctor's window.
func (d *Doctor) Available(date time.Time) bool {
	return !date.Before(d.FromDate) && !date.After(d.ToDate)
}

// Details is one appointment as persisted. HealthRemark is set only when the
// appointment completes.
type Details struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	HospitalID   uuid.UUID
	Date         time.Time
	Slot         string
	Status       Status
	HealthRemark *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	EventAppointmentScheduled   = "APPOINTMENT_SCHEDULED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentCompleted   = "APPOINTMENT_COMPLETED"
	EventAppointmentReminder    = "APPOINTMENT_REMINDER"
)

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
