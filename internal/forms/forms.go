// Package forms holds the sign-in and sign-up form state records and their
// validity predicates. Everything here is pure: no I/O, total over any input.
package forms

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 8

func blank(s string) bool { return strings.TrimSpace(s) == "" }

type SignInForm struct {
	Email    string
	Password string

	EmailError    string
	PasswordError string

	RememberMe bool
	Loading    bool
	Success    bool
	Failure    error
}

// ResetSignIn returns a freshly initialized, all-blank form. A blank form is
// never valid.
func ResetSignIn() SignInForm { return SignInForm{} }

// Valid reports whether the form may be submitted: every error field absent
// and every required field non-blank.
func (f SignInForm) Valid() bool {
	return f.EmailError == "" && f.PasswordError == "" &&
		!blank(f.Email) && !blank(f.Password)
}

// Validate returns a copy of the form with the per-field errors recomputed.
func (f SignInForm) Validate() SignInForm {
	f.EmailError = ""
	f.PasswordError = ""

	switch {
	case blank(f.Email):
		f.EmailError = "email is required"
	case !emailPattern.MatchString(f.Email):
		f.EmailError = "enter a valid email address"
	}

	if blank(f.Password) {
		f.PasswordError = "password is required"
	}

	return f
}

// PatientSignUpForm is the sign-up form of the patient app.
type PatientSignUpForm struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string

	NameError            string
	EmailError           string
	PhoneError           string
	PasswordError        string
	ConfirmPasswordError string

	RememberMe bool
	Loading    bool
	Success    bool
	Failure    error
}

func ResetPatientSignUp() PatientSignUpForm { return PatientSignUpForm{} }

func (f PatientSignUpForm) Valid() bool {
	errorsAbsent := f.NameError == "" && f.EmailError == "" && f.PhoneError == "" &&
		f.PasswordError == "" && f.ConfirmPasswordError == ""
	fieldsPresent := !blank(f.Name) && !blank(f.Email) && !blank(f.Phone) &&
		!blank(f.Password) && !blank(f.ConfirmPassword)
	return errorsAbsent && fieldsPresent
}

func (f PatientSignUpForm) Validate() PatientSignUpForm {
	f.NameError = requiredError(f.Name, "name")
	f.EmailError = emailError(f.Email)
	f.PhoneError = phoneError(f.Phone)
	f.PasswordError = passwordError(f.Password)
	f.ConfirmPasswordError = confirmError(f.Password, f.ConfirmPassword)
	return f
}

// HospitalSignUpForm is the sign-up form of the hospital app. It carries the
// extra location fields the client side collects.
type HospitalSignUpForm struct {
	Name            string
	City            string
	PinCode         string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string

	NameError            string
	CityError            string
	PinCodeError         string
	EmailError           string
	PhoneError           string
	PasswordError        string
	ConfirmPasswordError string

	RememberMe bool
	Loading    bool
	Success    bool
	Failure    error
}

func ResetHospitalSignUp() HospitalSignUpForm { return HospitalSignUpForm{} }

func (f HospitalSignUpForm) Valid() bool {
	errorsAbsent := f.NameError == "" && f.CityError == "" && f.PinCodeError == "" &&
		f.EmailError == "" && f.PhoneError == "" &&
		f.PasswordError == "" && f.ConfirmPasswordError == ""
	fieldsPresent := !blank(f.Name) && !blank(f.City) && !blank(f.PinCode) &&
		!blank(f.Email) && !blank(f.Phone) &&
		!blank(f.Password) && !blank(f.ConfirmPassword)
	return errorsAbsent && fieldsPresent
}

func (f HospitalSignUpForm) Validate() HospitalSignUpForm {
	f.NameError = requiredError(f.Name, "hospital name")
	f.CityError = requiredError(f.City, "city")
	f.PinCodeError = pinCodeError(f.PinCode)
	f.EmailError = emailError(f.Email)
	f.PhoneError = phoneError(f.Phone)
	f.PasswordError = passwordError(f.Password)
	f.ConfirmPasswordError = confirmError(f.Password, f.ConfirmPassword)
	return f
}

// --- shared field rules ---

func requiredError(value, label string) string {
	if blank(value) {
		return label + " is required"
	}
	return ""
}

func emailError(email string) string {
	switch {
	case blank(email):
		return "email is required"
	case !emailPattern.MatchString(email):
		return "enter a valid email address"
	}
	return ""
}

func phoneError(phone string) string {
	if blank(phone) {
		return "phone number is required"
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return "enter a valid phone number"
	}
	return ""
}

func pinCodeError(pin string) string {
	if blank(pin) {
		return "pin code is required"
	}
	if len(pin) != 6 {
		return "pin code must be 6 digits"
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return "pin code must be 6 digits"
		}
	}
	return ""
}

func passwordError(password string) string {
	if blank(password) {
		return "password is required"
	}
	if len(password) < minPasswordLen {
		return "password must be at least 8 characters"
	}
	return ""
}

func confirmError(password, confirm string) string {
	if blank(confirm) {
		return "confirm your password"
	}
	if password != confirm {
		return "passwords do not match"
	}
	return ""
}
