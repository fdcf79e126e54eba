package domain

import (
	"strings"
	"time"
)

// ExpertRegistration is an application to join the expert network.
type ExpertRegistration struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Company         string    `json:"company,omitempty"`
	Title           string    `json:"title,omitempty"`
	Expertise       []string  `json:"expertise"`
	YearsExperience int       `json:"yearsExperience"`
	HourlyRate      int       `json:"hourlyRate,omitempty"`
	Availability    string    `json:"availability"`
	LinkedIn        string    `json:"linkedin,omitempty"`
	Bio             string    `json:"bio"`
	RegisteredAt    time.Time `json:"registeredAt"`
}

// ExpertRegistrations is the persisted list of registrations.
type ExpertRegistrations struct {
	Experts []ExpertRegistration `json:"experts"`
}

// Register appends reg unless its email is already registered, compared
// case-insensitively.
func (r *ExpertRegistrations) Register(reg ExpertRegistration) error {
	reg.Email = strings.TrimSpace(reg.Email)

	for _, e := range r.Experts {
		if strings.EqualFold(e.Email, reg.Email) {
			return NewConflictErrorWithDetails("expert", "email already registered", reg.Email)
		}
	}

	r.Experts = append(r.Experts, reg)

	return nil
}
