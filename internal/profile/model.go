package profile

// Profile is a patient profile document. The backend may hold partial
// documents, so every field besides the id is optional.
type Profile struct {
	UserID string  `json:"user_id"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

// ClientProfile is a hospital profile document, same optionality rules.
type ClientProfile struct {
	HospitalID      string  `json:"hospital_id"`
	HospitalName    *string `json:"hospital_name,omitempty"`
	HospitalEmail   *string `json:"hospital_email,omitempty"`
	HospitalPhone   *string `json:"hospital_phone,omitempty"`
	HospitalCity    *string `json:"hospital_city,omitempty"`
	HospitalPinCode *string `json:"hospital_pin_code,omitempty"`
}
