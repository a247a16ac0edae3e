// Package failure defines the closed failure sets returned by the core
// services. The kind is the contract consumed by callers; the wrapped cause
// is retained opaquely for logging only and never drives behavior.
package failure

type SignUpKind int

const (
	SignUpInvalidEmail SignUpKind = iota
	SignUpWeakPassword
	SignUpAccountExists
	SignUpUnknown
)

func (k SignUpKind) String() string {
	switch k {
	case SignUpInvalidEmail:
		return "invalid_email"
	case SignUpWeakPassword:
		return "weak_password"
	case SignUpAccountExists:
		return "account_already_exists"
	default:
		return "unknown_error"
	}
}

// SignUp is the failure family for account registration.
type SignUp struct {
	Kind  SignUpKind
	Cause error
}

func (f *SignUp) Error() string {
	switch f.Kind {
	case SignUpInvalidEmail:
		return "the email address is badly formatted"
	case SignUpWeakPassword:
		return "the password is too weak"
	case SignUpAccountExists:
		return "an account already exists for that email"
	default:
		return "sign up failed, please try again"
	}
}

func (f *SignUp) Unwrap() error { return f.Cause }

func NewSignUp(kind SignUpKind, cause error) *SignUp {
	return &SignUp{Kind: kind, Cause: cause}
}

type SignInKind int

const (
	SignInInvalidCredentials SignInKind = iota
	SignInUnknown
)

func (k SignInKind) String() string {
	if k == SignInInvalidCredentials {
		return "invalid_credentials"
	}
	return "unknown_error"
}

// SignIn is the failure family for authentication attempts.
type SignIn struct {
	Kind  SignInKind
	Cause error
}

func (f *SignIn) Error() string {
	if f.Kind == SignInInvalidCredentials {
		return "invalid email or password"
	}
	return "sign in failed, please try again"
}

func (f *SignIn) Unwrap() error { return f.Cause }

func NewSignIn(kind SignInKind, cause error) *SignIn {
	return &SignIn{Kind: kind, Cause: cause}
}

// Logout has a single variant; the cause is kept for logging.
type Logout struct {
	Cause error
}

func (f *Logout) Error() string { return "logout failed, please try again" }

func (f *Logout) Unwrap() error { return f.Cause }

func NewLogout(cause error) *Logout { return &Logout{Cause: cause} }

type ProfileKind int

const (
	ProfileNotFound ProfileKind = iota
	ProfileNetworkError
	ProfileDatabaseError
	ProfileUnknown
)

func (k ProfileKind) String() string {
	switch k {
	case ProfileNotFound:
		return "not_found"
	case ProfileNetworkError:
		return "network_error"
	case ProfileDatabaseError:
		return "database_error"
	default:
		return "unknown_error"
	}
}

// Profile is the failure family for profile document fetches.
type Profile struct {
	Kind  ProfileKind
	Cause error
}

func (f *Profile) Error() string {
	switch f.Kind {
	case ProfileNotFound:
		return "profile not found"
	case ProfileNetworkError:
		return "network error while loading profile"
	case ProfileDatabaseError:
		return "storage error while loading profile"
	default:
		return "could not load profile"
	}
}

func (f *Profile) Unwrap() error { return f.Cause }

func NewProfile(kind ProfileKind, cause error) *Profile {
	return &Profile{Kind: kind, Cause: cause}
}

// SessionRead is returned when the persisted session cannot be read or
// decoded. Single variant; callers fail closed toward re-authentication.
type SessionRead struct {
	Cause error
}

func (f *SessionRead) Error() string { return "could not read remembered session" }

func (f *SessionRead) Unwrap() error { return f.Cause }

func NewSessionRead(cause error) *SessionRead { return &SessionRead{Cause: cause} }

type AppointmentKind int

const (
	AppointmentNotFound AppointmentKind = iota
	AppointmentDoctorNotFound
	AppointmentAlreadyCompleted
	AppointmentOutsideAvailability
	AppointmentMissingDetail
	AppointmentBusy
	AppointmentUnknown
)

func (k AppointmentKind) String() string {
	switch k {
	case AppointmentNotFound:
		return "appointment_not_found"
	case AppointmentDoctorNotFound:
		return "doctor_not_found"
	case AppointmentAlreadyCompleted:
		return "appointment_already_completed"
	case AppointmentOutsideAvailability:
		return "outside_doctor_availability"
	case AppointmentMissingDetail:
		return "missing_appointment_detail"
	case AppointmentBusy:
		return "appointment_busy"
	default:
		return "unknown_error"
	}
}

// Appointment is the failure family for status transitions.
type Appointment struct {
	Kind  AppointmentKind
	Cause error
}

func (f *Appointment) Error() string {
	switch f.Kind {
	case AppointmentNotFound:
		return "appointment not found"
	case AppointmentDoctorNotFound:
		return "doctor not found"
	case AppointmentAlreadyCompleted:
		return "appointment is already completed"
	case AppointmentOutsideAvailability:
		return "chosen date is outside the doctor's availability"
	case AppointmentMissingDetail:
		return "appointment details are incomplete"
	case AppointmentBusy:
		return "appointment is being updated, please retry"
	default:
		return "appointment update failed"
	}
}

func (f *Appointment) Unwrap() error { return f.Cause }

func NewAppointment(kind AppointmentKind, cause error) *Appointment {
	return &Appointment{Kind: kind, Cause: cause}
}
