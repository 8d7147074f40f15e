package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicare/hospital/internal/domain/account"
	"github.com/medicare/hospital/internal/platform/auth"
)

var (
	ErrNotFound       = errors.New("staff member not found")
	ErrDuplicateEmail = errors.New("staff member with this email already exists")
)

type Service struct {
	repo     Repository
	accounts *account.Service
	logger   zerolog.Logger
}

func NewService(repo Repository, accounts *account.Service, logger zerolog.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, logger: logger}
}

// Register creates the login account first, then the staff profile. A
// profile failure deletes the account again so the email is free for a
// retry.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Profile, error) {
	if req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("first_name and last_name are required")
	}
	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	acct, err := s.accounts.Create(ctx, email, req.Password, auth.RoleStaff)
	if err != nil {
		if errors.Is(err, account.ErrEmailExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	p := req.Profile
	p.Email = email
	p.UserID = acct.ID
	p.Password = acct.Password
	if err := s.repo.Create(ctx, &p); err != nil {
		if delErr := s.accounts.Delete(ctx, acct.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("email", email).
				Msg("failed to roll back account after staff create failure")
		}
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}

// UpdateByEmail replaces the profile fields and, when a password is
// supplied, rotates the login credential as well.
func (s *Service) UpdateByEmail(ctx context.Context, email string, req *UpdateRequest) (*Profile, error) {
	p, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}
	return s.update(ctx, p, req)
}

func (s *Service) UpdateByID(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, p, req)
}

func (s *Service) update(ctx context.Context, p *Profile, req *UpdateRequest) (*Profile, error) {
	p.FirstName = req.FirstName
	p.LastName = req.LastName
	p.PhoneNumber = req.PhoneNumber
	p.Role = req.Role
	p.Department = req.Department
	p.Address = req.Address
	p.City = req.City
	p.State = req.State
	p.DateOfBirth = req.DateOfBirth
	p.HireDate = req.HireDate
	p.Salary = req.Salary
	p.EmergencyContact = req.EmergencyContact
	p.EmergencyPhone = req.EmergencyPhone

	// A non-empty password rotates the account credential; the profile
	// keeps a copy of the hash so the two stay in step.
	if strings.TrimSpace(req.Password) != "" {
		if err := s.accounts.UpdatePassword(ctx, p.Email, req.Password); err != nil {
			return nil, err
		}
		acct, err := s.accounts.GetByEmail(ctx, p.Email)
		if err != nil {
			return nil, err
		}
		p.Password = acct.Password
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteByEmail removes the profile and its login account.
func (s *Service) DeleteByEmail(ctx context.Context, email string) error {
	p, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return err
	}
	return s.delete(ctx, p)
}

func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, p)
}

func (s *Service) delete(ctx context.Context, p *Profile) error {
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	if err := s.accounts.DeleteByEmail(ctx, p.Email); err != nil && !errors.Is(err, account.ErrNotFound) {
		s.logger.Error().Err(err).Str("email", p.Email).Msg("failed to delete account for removed staff member")
	}
	return nil
}
