package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medease/appointment-backend/internal/failure"
	redisclient "github.com/medease/appointment-backend/internal/redis"
)

// Draft is the staged edit accumulated before a transition is committed.
// A zero Date or empty Slot means the field has not been staged yet.
type Draft struct {
	HealthRemark string
	NewDate      time.Time
	NewSlot      string
}

type workspace struct {
	draft           Draft
	lastRescheduled *Details
	lastCompleted   *Details
}

// Engine validates and applies appointment status transitions. It owns the
// in-memory working state of an edit for as long as the transition is in
// flight; the persisted appointment stays with the repository.
type Engine struct {
	repo   Repository
	locker redisclient.Locker
	log    zerolog.Logger

	mu         sync.Mutex
	workspaces map[uuid.UUID]*workspace
}

func NewEngine(repo Repository, locker redisclient.Locker, log zerolog.Logger) *Engine {
	return &Engine{
		repo:       repo,
		locker:     locker,
		log:        log.With().Str("component", "appointment").Logger(),
		workspaces: map[uuid.UUID]*workspace{},
	}
}

// --- staged working state ---

func (e *Engine) ws(id uuid.UUID) *workspace {
	w, ok := e.workspaces[id]
	if !ok {
		w = &workspace{}
		e.workspaces[id] = w
	}
	return w
}

func (e *Engine) StageHealthRemark(id uuid.UUID, remark string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ws(id).draft.HealthRemark = remark
}

func (e *Engine) StageNewDate(id uuid.UUID, date time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ws(id).draft.NewDate = date
}

func (e *Engine) StageNewSlot(id uuid.UUID, slot string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ws(id).draft.NewSlot = slot
}

func (e *Engine) Draft(id uuid.UUID) Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.workspaces[id]; ok {
		return w.draft
	}
	return Draft{}
}

// ClearDraft resets the staged edit only; the persisted appointment is
// never touched.
func (e *Engine) ClearDraft(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.workspaces[id]; ok {
		w.draft = Draft{}
	}
}

// ClearRescheduled drops the in-memory result of the last reschedule.
func (e *Engine) ClearRescheduled(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.workspaces[id]; ok {
		w.lastRescheduled = nil
	}
}

// ClearCompleted drops the in-memory result of the last completion.
func (e *Engine) ClearCompleted(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.workspaces[id]; ok {
		w.lastCompleted = nil
	}
}

func (e *Engine) LastRescheduled(id uuid.UUID) *Details {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.workspaces[id]; ok {
		return w.lastRescheduled
	}
	return nil
}

func (e *Engine) LastCompleted(id uuid.UUID) *Details {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.workspaces[id]; ok {
		return w.lastCompleted
	}
	return nil
}

// --- transitions ---

// Schedule creates a fresh appointment after checking the doctor's window.
func (e *Engine) Schedule(ctx context.Context, patientID, doctorID, hospitalID uuid.UUID, date time.Time, slot string) (*Details, *failure.Appointment) {
	if date.IsZero() || slot == "" {
		return nil, failure.NewAppointment(failure.AppointmentMissingDetail, nil)
	}

	doctor, err := e.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, e.classify(err)
	}
	if !doctor.Available(date) {
		return nil, failure.NewAppointment(failure.AppointmentOutsideAvailability, nil)
	}

	appt, err := e.repo.CreateScheduled(ctx, patientID, doctorID, hospitalID, date, slot)
	if err != nil {
		return nil, e.classify(err)
	}

	e.logEvent(ctx, appt.ID, EventAppointmentScheduled, map[string]any{
		"patient_id": patientID.String(),
		"doctor_id":  doctorID.String(),
		"date":       date,
		"slot":       slot,
	})

	return appt, nil
}

// Reschedule moves a non-completed appointment to the rescheduled status with
// a replacement doctor and a new date and slot. The staged edit for the
// appointment is cleared on success.
func (e *Engine) Reschedule(ctx context.Context, id, newDoctorID uuid.UUID, newDate time.Time, newSlot string) (*Details, *failure.Appointment) {
	if newDate.IsZero() || newSlot == "" {
		return nil, failure.NewAppointment(failure.AppointmentMissingDetail, nil)
	}

	appt, err := e.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, e.classify(err)
	}
	if !appt.Status.CanTransitionTo(StatusRescheduled) {
		return nil, failure.NewAppointment(failure.AppointmentAlreadyCompleted, nil)
	}

	doctor, err := e.repo.GetDoctorByID(ctx, newDoctorID)
	if err != nil {
		return nil, e.classify(err)
	}
	if !doctor.Available(newDate) {
		return nil, failure.NewAppointment(failure.AppointmentOutsideAvailability, nil)
	}

	var updated *Details
	err = e.locker.WithAppointmentLock(ctx, id, func(lockCtx context.Context) error {
		u, err := e.repo.Reschedule(lockCtx, id, newDoctorID, newDate, newSlot)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, e.classify(err)
	}

	e.logEvent(ctx, id, EventAppointmentRescheduled, map[string]any{
		"doctor_id": newDoctorID.String(),
		"date":      newDate,
		"slot":      newSlot,
	})

	e.mu.Lock()
	w := e.ws(id)
	w.draft = Draft{}
	w.lastRescheduled = updated
	e.mu.Unlock()

	return updated, nil
}

// CommitReschedule applies the staged date and slot for the appointment.
func (e *Engine) CommitReschedule(ctx context.Context, id, newDoctorID uuid.UUID) (*Details, *failure.Appointment) {
	draft := e.Draft(id)
	if draft.NewDate.IsZero() || draft.NewSlot == "" {
		return nil, failure.NewAppointment(failure.AppointmentMissingDetail, nil)
	}
	return e.Reschedule(ctx, id, newDoctorID, draft.NewDate, draft.NewSlot)
}

// Complete moves a non-terminal appointment into the terminal completed
// status and persists the health remark.
func (e *Engine) Complete(ctx context.Context, id, patientID uuid.UUID, healthRemark string) (*Details, *failure.Appointment) {
	appt, err := e.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, e.classify(err)
	}
	// ownership: do not reveal other patients' appointments
	if appt.PatientID != patientID {
		return nil, failure.NewAppointment(failure.AppointmentNotFound, nil)
	}
	if appt.Status.Terminal() {
		return nil, failure.NewAppointment(failure.AppointmentAlreadyCompleted, nil)
	}

	var updated *Details
	err = e.locker.WithAppointmentLock(ctx, id, func(lockCtx context.Context) error {
		u, err := e.repo.Complete(lockCtx, id, healthRemark)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, e.classify(err)
	}

	e.logEvent(ctx, id, EventAppointmentCompleted, map[string]any{
		"patient_id": patientID.String(),
	})

	e.mu.Lock()
	w := e.ws(id)
	w.draft = Draft{}
	w.lastCompleted = updated
	e.mu.Unlock()

	return updated, nil
}

// CommitComplete applies the staged health remark for the appointment.
func (e *Engine) CommitComplete(ctx context.Context, id, patientID uuid.UUID) (*Details, *failure.Appointment) {
	draft := e.Draft(id)
	return e.Complete(ctx, id, patientID, draft.HealthRemark)
}

// Get retrieves one appointment.
func (e *Engine) Get(ctx context.Context, id uuid.UUID) (*Details, *failure.Appointment) {
	appt, err := e.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, e.classify(err)
	}
	return appt, nil
}

// ListByPatient retrieves appointments for a specific patient.
func (e *Engine) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Details, *failure.Appointment) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	appts, err := e.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, e.classify(err)
	}
	return appts, nil
}

// classify maps repository and lock errors onto exactly one appointment
// failure kind.
func (e *Engine) classify(err error) *failure.Appointment {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		return failure.NewAppointment(failure.AppointmentNotFound, err)
	case errors.Is(err, ErrDoctorNotFound):
		return failure.NewAppointment(failure.AppointmentDoctorNotFound, err)
	case errors.Is(err, ErrStatusConflict):
		// a concurrent writer completed the appointment first
		return failure.NewAppointment(failure.AppointmentAlreadyCompleted, err)
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		return failure.NewAppointment(failure.AppointmentBusy, err)
	default:
		e.log.Error().Err(err).Msg("appointment operation failed")
		return failure.NewAppointment(failure.AppointmentUnknown, err)
	}
}

func (e *Engine) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := e.repo.InsertEvent(ctx, ev); err != nil {
		e.log.Error().Err(err).
			Str("event_type", eventType).
			Str("appointment_id", appointmentID.String()).
			Msg("failed to insert event log")
	}
}
