package patient

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	Gender           string    `json:"gender"`
	DateOfBirth      string    `json:"date_of_birth"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Country          string    `json:"country"`
	RegistrationDate time.Time `json:"registration_date"`
	Active           bool      `json:"is_active"`
}

// FullName joins first and last name for denormalized views.
func (p *Patient) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// RegisterRequest carries the self-registration payload. The password
// lands on the paired login account, never on the patient row.
type RegisterRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Password    string `json:"password"`
}
