package staff

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the HR record for a staff member. Role here is the job
// title (doctor, nurse, pharmacist); the access role lives on the login
// account.
type Profile struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	Role             string    `json:"role"`
	Department       string    `json:"department"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	DateOfBirth      string    `json:"date_of_birth"`
	HireDate         string    `json:"hire_date"`
	Salary           float64   `json:"salary"`
	EmergencyContact string    `json:"emergency_contact"`
	EmergencyPhone   string    `json:"emergency_phone"`
	Password         string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RegisterRequest is a Profile plus the initial password for the paired
// login account.
type RegisterRequest struct {
	Profile
	Password string `json:"password"`
}

// UpdateRequest mirrors the profile fields; a non-empty password also
// rotates the login credential.
type UpdateRequest struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	PhoneNumber      string  `json:"phone_number"`
	Role             string  `json:"role"`
	Department       string  `json:"department"`
	Address          string  `json:"address"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	DateOfBirth      string  `json:"date_of_birth"`
	HireDate         string  `json:"hire_date"`
	Salary           float64 `json:"salary"`
	EmergencyContact string  `json:"emergency_contact"`
	EmergencyPhone   string  `json:"emergency_phone"`
	Password         string  `json:"password"`
}
