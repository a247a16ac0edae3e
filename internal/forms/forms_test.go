package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPatientForm() PatientSignUpForm {
	return PatientSignUpForm{
		Name:            "Asha Rao",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	}
}

func validHospitalForm() HospitalSignUpForm {
	return HospitalSignUpForm{
		Name:            "City Care Hospital",
		City:            "Pune",
		PinCode:         "411001",
		Email:           "desk@citycare.example.com",
		Phone:           "020-2765-4321",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	}
}

func TestSignInForm_BlankIsNeverValid(t *testing.T) {
	f := ResetSignIn()
	assert.False(t, f.Valid())

	f = f.Validate()
	assert.Equal(t, "email is required", f.EmailError)
	assert.Equal(t, "password is required", f.PasswordError)
	assert.False(t, f.Valid())
}

func TestSignInForm_ValidInput(t *testing.T) {
	f := SignInForm{Email: "asha@example.com", Password: "Str0ng!Pass"}
	f = f.Validate()

	assert.Empty(t, f.EmailError)
	assert.Empty(t, f.PasswordError)
	assert.True(t, f.Valid())
}

func TestSignInForm_BadEmail(t *testing.T) {
	for _, email := range []string{"not-an-email", "missing@tld", "a b@example.com", "@example.com"} {
		f := SignInForm{Email: email, Password: "Str0ng!Pass"}.Validate()
		assert.Equal(t, "enter a valid email address", f.EmailError, "email %q", email)
		assert.False(t, f.Valid())
	}
}

func TestSignInForm_ValidateIsIdempotent(t *testing.T) {
	f := SignInForm{Email: "bad", Password: "pw"}.Validate()
	again := f.Validate()
	assert.Equal(t, f, again)
}

func TestPatientSignUpForm_ValidInput(t *testing.T) {
	f := validPatientForm().Validate()
	assert.True(t, f.Valid())
}

func TestPatientSignUpForm_SingleBlankFieldFlipsValidity(t *testing.T) {
	blankers := map[string]func(*PatientSignUpForm){
		"name":     func(f *PatientSignUpForm) { f.Name = "  " },
		"email":    func(f *PatientSignUpForm) { f.Email = "" },
		"phone":    func(f *PatientSignUpForm) { f.Phone = "" },
		"password": func(f *PatientSignUpForm) { f.Password = "" },
		"confirm":  func(f *PatientSignUpForm) { f.ConfirmPassword = "" },
	}

	for field, clear := range blankers {
		f := validPatientForm()
		clear(&f)
		f = f.Validate()
		assert.False(t, f.Valid(), "blank %s should invalidate the form", field)
	}
}

func TestPatientSignUpForm_PhoneNeedsTenDigits(t *testing.T) {
	f := validPatientForm()
	f.Phone = "12345"
	f = f.Validate()
	assert.Equal(t, "enter a valid phone number", f.PhoneError)

	// separators are ignored when counting digits
	f = validPatientForm()
	f.Phone = "+91 98765 43210"
	f = f.Validate()
	assert.Empty(t, f.PhoneError)
}

func TestPatientSignUpForm_PasswordRules(t *testing.T) {
	f := validPatientForm()
	f.Password = "short"
	f.ConfirmPassword = "short"
	f = f.Validate()
	assert.Equal(t, "password must be at least 8 characters", f.PasswordError)

	f = validPatientForm()
	f.ConfirmPassword = "Different1!"
	f = f.Validate()
	assert.Equal(t, "passwords do not match", f.ConfirmPasswordError)

	f = validPatientForm()
	f.ConfirmPassword = ""
	f = f.Validate()
	assert.Equal(t, "confirm your password", f.ConfirmPasswordError)
}

func TestPatientSignUpForm_ResetDropsEverything(t *testing.T) {
	f := ResetPatientSignUp()
	assert.Equal(t, PatientSignUpForm{}, f)
	assert.False(t, f.Valid())
}

func TestHospitalSignUpForm_ValidInput(t *testing.T) {
	f := validHospitalForm().Validate()
	assert.True(t, f.Valid())
}

func TestHospitalSignUpForm_PinCode(t *testing.T) {
	cases := map[string]string{
		"":        "pin code is required",
		"4110":    "pin code must be 6 digits",
		"4110011": "pin code must be 6 digits",
		"41100a":  "pin code must be 6 digits",
		"411001":  "",
	}

	for pin, want := range cases {
		f := validHospitalForm()
		f.PinCode = pin
		f = f.Validate()
		assert.Equal(t, want, f.PinCodeError, "pin %q", pin)
	}
}

func TestHospitalSignUpForm_CityRequired(t *testing.T) {
	f := validHospitalForm()
	f.City = " "
	f = f.Validate()
	assert.Equal(t, "city is required", f.CityError)
	assert.False(t, f.Valid())
}

func TestHospitalSignUpForm_ResetNeverValid(t *testing.T) {
	f := ResetHospitalSignUp()
	assert.False(t, f.Valid())
	assert.False(t, f.Validate().Valid())
}
