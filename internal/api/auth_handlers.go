package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/medease/appointment-backend/internal/failure"
	"github.com/medease/appointment-backend/internal/forms"
	"github.com/medease/appointment-backend/internal/identity"
	"github.com/medease/appointment-backend/internal/profile"
	"github.com/medease/appointment-backend/internal/session"
)

type authHandlers struct {
	sessions   *session.Controller
	profiles   *profile.Service
	docs       *profile.PgDocumentStore
	idp        *identity.PgProvider
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

func parseRole(role string) (identity.SubjectKind, bool) {
	switch role {
	case string(identity.KindPatient):
		return identity.KindPatient, true
	case string(identity.KindHospital):
		return identity.KindHospital, true
	default:
		return "", false
	}
}

func (h *authHandlers) signUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	kind, ok := parseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_role", "role must be patient or hospital")
		return
	}

	if fields := signUpFieldErrors(kind, req); len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	subject, f := h.sessions.SignUp(r.Context(), deviceID(r), kind, req.Email, req.Password, req.RememberMe)
	if f != nil {
		handleSignUpFailure(w, f)
		return
	}

	// the account exists even if the profile document write fails; the
	// profile can be completed later from the app
	if err := h.writeProfile(r, kind, subject, req); err != nil {
		h.log.Warn().Err(err).Str("subject_id", subject).Msg("profile document write failed")
	}

	resp, err := h.issueTokens(r, subject, kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not issue tokens")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *authHandlers) signIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	kind, ok := parseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_role", "role must be patient or hospital")
		return
	}

	form := forms.SignInForm{Email: req.Email, Password: req.Password, RememberMe: req.RememberMe}.Validate()
	if !form.Valid() {
		writeFieldErrors(w, signInFieldErrors(form))
		return
	}

	subject, f := h.sessions.SignIn(r.Context(), deviceID(r), kind, req.Email, req.Password, req.RememberMe)
	if f != nil {
		handleSignInFailure(w, f)
		return
	}

	resp, err := h.issueTokens(r, subject, kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not issue tokens")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *authHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "refresh_token is required")
		return
	}

	hash := identity.HashRefreshToken(req.RefreshToken)
	current, err := h.idp.GetRefreshTokenByHash(r.Context(), hash)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrTokenNotFound),
			errors.Is(err, identity.ErrTokenRevoked),
			errors.Is(err, identity.ErrTokenExpired):
			writeError(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token is not usable")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "could not verify refresh token")
		}
		return
	}

	rawNew, hashNew, err := identity.GenerateRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not issue tokens")
		return
	}
	if _, err := h.idp.RotateRefreshToken(r.Context(), current.ID, current.SubjectID, hashNew, time.Now().Add(h.refreshTTL)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not rotate refresh token")
		return
	}

	kind, err := h.idp.KindOf(r.Context(), current.SubjectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not resolve account")
		return
	}

	access, err := identity.MakeAccessToken(current.SubjectID, kind, h.secret, h.accessTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "could not issue tokens")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		SubjectID:    current.SubjectID,
		AccessToken:  access,
		RefreshToken: rawNew,
	})
}

func (h *authHandlers) logout(w http.ResponseWriter, r *http.Request) {
	subject := subjectID(r.Context())
	if f := h.sessions.Logout(r.Context(), deviceID(r), subject); f != nil {
		writeError(w, http.StatusInternalServerError, "unknown_error", f.Error())
		return
	}

	// cached profile documents are scoped to the signed-in session
	h.profiles.InvalidateAll()

	w.WriteHeader(http.StatusNoContent)
}

func (h *authHandlers) destination(w http.ResponseWriter, r *http.Request) {
	device := deviceID(r)
	if device == "" {
		writeError(w, http.StatusBadRequest, "missing_device_id", deviceIDHeader+" header is required")
		return
	}

	dest, subject := h.sessions.DetermineInitialDestination(r.Context(), device)
	writeJSON(w, http.StatusOK, DestinationResponse{
		Destination: dest.String(),
		SubjectID:   subject,
	})
}

func (h *authHandlers) issueTokens(r *http.Request, subject string, kind identity.SubjectKind) (AuthResponse, error) {
	access, err := identity.MakeAccessToken(subject, kind, h.secret, h.accessTTL)
	if err != nil {
		return AuthResponse{}, err
	}

	rawRefresh, hash, err := identity.GenerateRefreshToken()
	if err != nil {
		return AuthResponse{}, err
	}
	if _, err := h.idp.CreateRefreshToken(r.Context(), subject, hash, time.Now().Add(h.refreshTTL)); err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		SubjectID:    subject,
		AccessToken:  access,
		RefreshToken: rawRefresh,
	}, nil
}

func (h *authHandlers) writeProfile(r *http.Request, kind identity.SubjectKind, subject string, req SignUpRequest) error {
	if kind == identity.KindPatient {
		return h.docs.PutPatient(r.Context(), &profile.Profile{
			UserID: subject,
			Name:   &req.Name,
			Email:  &req.Email,
			Phone:  &req.Phone,
		})
	}
	return h.docs.PutHospital(r.Context(), &profile.ClientProfile{
		HospitalID:      subject,
		HospitalName:    &req.Name,
		HospitalEmail:   &req.Email,
		HospitalPhone:   &req.Phone,
		HospitalCity:    &req.City,
		HospitalPinCode: &req.PinCode,
	})
}

// --- validation helpers ---

func signUpFieldErrors(kind identity.SubjectKind, req SignUpRequest) map[string]string {
	if kind == identity.KindPatient {
		form := forms.PatientSignUpForm{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			RememberMe:      req.RememberMe,
		}.Validate()
		if form.Valid() {
			return nil
		}
		return collectErrors(map[string]string{
			"name":             form.NameError,
			"email":            form.EmailError,
			"phone":            form.PhoneError,
			"password":         form.PasswordError,
			"confirm_password": form.ConfirmPasswordError,
		})
	}

	form := forms.HospitalSignUpForm{
		Name:            req.Name,
		City:            req.City,
		PinCode:         req.PinCode,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		RememberMe:      req.RememberMe,
	}.Validate()
	if form.Valid() {
		return nil
	}
	return collectErrors(map[string]string{
		"name":             form.NameError,
		"city":             form.CityError,
		"pin_code":         form.PinCodeError,
		"email":            form.EmailError,
		"phone":            form.PhoneError,
		"password":         form.PasswordError,
		"confirm_password": form.ConfirmPasswordError,
	})
}

func signInFieldErrors(form forms.SignInForm) map[string]string {
	return collectErrors(map[string]string{
		"email":    form.EmailError,
		"password": form.PasswordError,
	})
}

func collectErrors(all map[string]string) map[string]string {
	out := map[string]string{}
	for field, msg := range all {
		if msg != "" {
			out[field] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// --- failure mapping ---

func handleSignUpFailure(w http.ResponseWriter, f *failure.SignUp) {
	switch f.Kind {
	case failure.SignUpInvalidEmail, failure.SignUpWeakPassword:
		writeError(w, http.StatusUnprocessableEntity, f.Kind.String(), f.Error())
	case failure.SignUpAccountExists:
		writeError(w, http.StatusConflict, f.Kind.String(), f.Error())
	default:
		writeError(w, http.StatusInternalServerError, f.Kind.String(), f.Error())
	}
}

func handleSignInFailure(w http.ResponseWriter, f *failure.SignIn) {
	if f.Kind == failure.SignInInvalidCredentials {
		writeError(w, http.StatusUnauthorized, f.Kind.String(), f.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, f.Kind.String(), f.Error())
}
