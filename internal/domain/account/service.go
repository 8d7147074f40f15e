package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailExists        = errors.New("account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new credential record. The plaintext password is
// hashed before it reaches the repository.
func (s *Service) Create(ctx context.Context, email, password, role string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &Account{Email: email, Password: string(hash), Role: role}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Authenticate checks the supplied credentials. Unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// UpdatePassword re-hashes and stores a new password for the account
// with the given email.
func (s *Service) UpdatePassword(ctx context.Context, email, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, strings.TrimSpace(strings.ToLower(email)), string(hash))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteByEmail(ctx context.Context, email string) error {
	return s.repo.DeleteByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}
