package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medease/appointment-backend/internal/failure"
	"github.com/medease/appointment-backend/internal/profile"
)

type profileHandlers struct {
	profiles *profile.Service
}

func (h *profileHandlers) getPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, f := h.profiles.FetchPatient(r.Context(), id)
	if f != nil {
		handleProfileFailure(w, f)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *profileHandlers) getHospital(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, f := h.profiles.FetchHospital(r.Context(), id)
	if f != nil {
		handleProfileFailure(w, f)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func handleProfileFailure(w http.ResponseWriter, f *failure.Profile) {
	switch f.Kind {
	case failure.ProfileNotFound:
		writeError(w, http.StatusNotFound, f.Kind.String(), f.Error())
	case failure.ProfileNetworkError:
		writeError(w, http.StatusBadGateway, f.Kind.String(), f.Error())
	case failure.ProfileDatabaseError:
		writeError(w, http.StatusInternalServerError, f.Kind.String(), f.Error())
	default:
		writeError(w, http.StatusInternalServerError, f.Kind.String(), f.Error())
	}
}
