package failure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCauseStaysReachable(t *testing.T) {
	cause := errors.New("underlying")

	assert.ErrorIs(t, NewSignUp(SignUpUnknown, cause), cause)
	assert.ErrorIs(t, NewSignIn(SignInUnknown, cause), cause)
	assert.ErrorIs(t, NewLogout(cause), cause)
	assert.ErrorIs(t, NewProfile(ProfileUnknown, cause), cause)
	assert.ErrorIs(t, NewSessionRead(cause), cause)
	assert.ErrorIs(t, NewAppointment(AppointmentUnknown, cause), cause)
}

func TestMessagesNeverLeakTheCause(t *testing.T) {
	cause := errors.New("pq: column accounts.password_hash does not exist")

	for _, err := range []error{
		NewSignUp(SignUpUnknown, cause),
		NewSignIn(SignInUnknown, cause),
		NewLogout(cause),
		NewProfile(ProfileUnknown, cause),
		NewSessionRead(cause),
		NewAppointment(AppointmentUnknown, cause),
	} {
		assert.NotContains(t, err.Error(), "password_hash")
	}
}

func TestSignInMessages_Indistinguishable(t *testing.T) {
	// unknown email and wrong password read identically to the caller
	f := NewSignIn(SignInInvalidCredentials, errors.New("no such account"))
	g := NewSignIn(SignInInvalidCredentials, errors.New("bcrypt mismatch"))
	assert.Equal(t, f.Error(), g.Error())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "account_already_exists", SignUpAccountExists.String())
	assert.Equal(t, "invalid_credentials", SignInInvalidCredentials.String())
	assert.Equal(t, "network_error", ProfileNetworkError.String())
	assert.Equal(t, "outside_doctor_availability", AppointmentOutsideAvailability.String())
	assert.Equal(t, "unknown_error", AppointmentUnknown.String())
}
