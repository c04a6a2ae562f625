package services

import "strings"

// UserData is the contact information captured by the lead form.
type UserData struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	VATNumber    string `json:"vatNumber,omitempty"`
	RevenueLevel string `json:"revenueLevel,omitempty"`
	Sector       string `json:"sector,omitempty"`
	Employees    string `json:"employees,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// FullName joins first and last name the way the CRM expects.
func (u UserData) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

func (u UserData) Validate() error {
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return NewInvalidError("first and last name required")
	}
	email := strings.TrimSpace(u.Email)
	if email == "" || !strings.Contains(email, "@") {
		return NewInvalidError("valid email required")
	}
	if strings.TrimSpace(u.Company) == "" {
		return NewInvalidError("company required")
	}
	return nil
}
