package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/medease/appointment-backend/internal/appointment"
)

type SignUpRequest struct {
	Role            string `json:"role"` // patient | hospital
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	City            string `json:"city,omitempty"`     // hospital only
	PinCode         string `json:"pin_code,omitempty"` // hospital only
	RememberMe      bool   `json:"remember_me"`
}

type SignInRequest struct {
	Role       string `json:"role"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type AuthResponse struct {
	SubjectID    string `json:"subject_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type DestinationResponse struct {
	Destination string `json:"destination"` // sign_in | home
	SubjectID   string `json:"subject_id,omitempty"`
}

type ScheduleAppointmentRequest struct {
	DoctorID   string `json:"doctor_id"`
	HospitalID string `json:"hospital_id"`
	Date       string `json:"date"` // 2006-01-02
	Slot       string `json:"slot"` // e.g. 10:30
}

type RescheduleRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date,omitempty"` // empty = use the staged draft
	Slot     string `json:"slot,omitempty"`
}

type CompleteRequest struct {
	HealthRemark *string `json:"health_remark"` // nil = use the staged draft
}

type DraftRequest struct {
	HealthRemark *string `json:"health_remark,omitempty"`
	Date         *string `json:"date,omitempty"`
	Slot         *string `json:"slot,omitempty"`
}

type DraftResponse struct {
	HealthRemark string `json:"health_remark,omitempty"`
	Date         string `json:"date,omitempty"`
	Slot         string `json:"slot,omitempty"`
}

type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	PatientID    uuid.UUID `json:"patient_id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	HospitalID   uuid.UUID `json:"hospital_id"`
	Date         string    `json:"date"`
	Slot         string    `json:"slot"`
	Status       string    `json:"status"`
	HealthRemark *string   `json:"health_remark,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAppointmentResponse(a *appointment.Details) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		DoctorID:     a.DoctorID,
		HospitalID:   a.HospitalID,
		Date:         a.Date.Format("2006-01-02"),
		Slot:         a.Slot,
		Status:       string(a.Status),
		HealthRemark: a.HealthRemark,
		UpdatedAt:    a.UpdatedAt,
	}
}

type ErrorResponse struct {
	Error       string            `json:"error"`
	Details     string            `json:"details,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}
