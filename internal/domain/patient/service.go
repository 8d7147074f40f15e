package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicare/hospital/internal/domain/account"
	"github.com/medicare/hospital/internal/platform/auth"
)

var (
	ErrNotFound    = errors.New("patient not found")
	ErrEmailExists = errors.New("patient with this email already exists")
)

type Service struct {
	repo     Repository
	accounts *account.Service
	logger   zerolog.Logger
}

func NewService(repo Repository, accounts *account.Service, logger zerolog.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, logger: logger}
}

// Register creates a login account and a patient row as a pair. If the
// patient insert fails, the freshly created account is deleted so a
// retry with the same email does not hit a dangling credential.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Patient, error) {
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

	acct, err := s.accounts.Create(ctx, email, req.Password, auth.RolePatient)
	if err != nil {
		if errors.Is(err, account.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	p := &Patient{
		UserID:           acct.ID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            email,
		PhoneNumber:      req.PhoneNumber,
		Gender:           req.Gender,
		DateOfBirth:      req.DateOfBirth,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		RegistrationDate: time.Now().UTC(),
		Active:           true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if delErr := s.accounts.Delete(ctx, acct.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("email", email).
				Msg("failed to roll back account after patient create failure")
		}
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.repo.Update(ctx, p)
}

// Delete removes the patient row and its login account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.DeleteByEmail(ctx, p.Email); err != nil && !errors.Is(err, account.ErrNotFound) {
		s.logger.Error().Err(err).Str("email", p.Email).Msg("failed to delete account for removed patient")
	}
	return nil
}
