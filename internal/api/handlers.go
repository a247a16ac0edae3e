package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medease/appointment-backend/internal/appointment"
	"github.com/medease/appointment-backend/internal/failure"
	"github.com/medease/appointment-backend/internal/identity"
)

const dateLayout = "2006-01-02"

type appointmentHandlers struct {
	engine *appointment.Engine
}

func (h *appointmentHandlers) schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	patientID, ok := requirePatient(w, r)
	if !ok {
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
		return
	}
	hospitalID, err := uuid.Parse(req.HospitalID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_hospital_id", "hospital_id must be a valid UUID")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	appt, f := h.engine.Schedule(r.Context(), patientID, doctorID, hospitalID, date, req.Slot)
	if f != nil {
		handleAppointmentFailure(w, f)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *appointmentHandlers) reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
		return
	}

	var (
		appt *appointment.Details
		f    *failure.Appointment
	)
	if req.Date == "" && req.Slot == "" {
		// commit whatever was staged for this appointment
		appt, f = h.engine.CommitReschedule(r.Context(), id, doctorID)
	} else {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		appt, f = h.engine.Reschedule(r.Context(), id, doctorID, date, req.Slot)
	}
	if f != nil {
		handleAppointmentFailure(w, f)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *appointmentHandlers) complete(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	patientID, ok := requirePatient(w, r)
	if !ok {
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	var (
		appt *appointment.Details
		f    *failure.Appointment
	)
	if req.HealthRemark == nil {
		appt, f = h.engine.CommitComplete(r.Context(), id, patientID)
	} else {
		appt, f = h.engine.Complete(r.Context(), id, patientID, *req.HealthRemark)
	}
	if f != nil {
		handleAppointmentFailure(w, f)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *appointmentHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	appt, f := h.engine.Get(r.Context(), id)
	if f != nil {
		handleAppointmentFailure(w, f)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *appointmentHandlers) list(w http.ResponseWriter, r *http.Request) {
	patientID, ok := requirePatient(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	appts, f := h.engine.ListByPatient(r.Context(), patientID, limit, offset)
	if f != nil {
		handleAppointmentFailure(w, f)
		return
	}

	out := make([]AppointmentResponse, len(appts))
	for i := range appts {
		out[i] = toAppointmentResponse(&appts[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *appointmentHandlers) stageDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	if req.HealthRemark != nil {
		h.engine.StageHealthRemark(id, *req.HealthRemark)
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		h.engine.StageNewDate(id, date)
	}
	if req.Slot != nil {
		h.engine.StageNewSlot(id, *req.Slot)
	}

	writeJSON(w, http.StatusOK, draftResponse(h.engine.Draft(id)))
}

func (h *appointmentHandlers) getDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, draftResponse(h.engine.Draft(id)))
}

func (h *appointmentHandlers) clearDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	h.engine.ClearDraft(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *appointmentHandlers) clearRescheduled(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	h.engine.ClearRescheduled(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *appointmentHandlers) clearCompleted(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}
	h.engine.ClearCompleted(id)
	w.WriteHeader(http.StatusNoContent)
}

func draftResponse(d appointment.Draft) DraftResponse {
	resp := DraftResponse{
		HealthRemark: d.HealthRemark,
		Slot:         d.NewSlot,
	}
	if !d.NewDate.IsZero() {
		resp.Date = d.NewDate.Format(dateLayout)
	}
	return resp
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// requirePatient resolves the acting patient id: patients act as themselves,
// hospital accounts must name the patient explicitly.
func requirePatient(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if subjectKind(r.Context()) == string(identity.KindPatient) {
		id, err := uuid.Parse(subjectID(r.Context()))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "token subject is not a valid id")
			return uuid.Nil, false
		}
		return id, true
	}

	raw := r.URL.Query().Get("patient_id")
	if raw == "" {
		raw = r.Header.Get("X-Patient-ID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleAppointmentFailure(w http.ResponseWriter, f *failure.Appointment) {
	switch f.Kind {
	case failure.AppointmentNotFound:
		writeError(w, http.StatusNotFound, f.Kind.String(), f.Error())
	case failure.AppointmentDoctorNotFound:
		writeError(w, http.StatusNotFound, f.Kind.String(), f.Error())
	case failure.AppointmentAlreadyCompleted:
		writeError(w, http.StatusConflict, f.Kind.String(), f.Error())
	case failure.AppointmentOutsideAvailability, failure.AppointmentMissingDetail:
		writeError(w, http.StatusUnprocessableEntity, f.Kind.String(), f.Error())
	case failure.AppointmentBusy:
		writeError(w, http.StatusConflict, f.Kind.String(), "appointment is being updated, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, f.Kind.String(), f.Error())
	}
}
