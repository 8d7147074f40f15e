package patient

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicare/hospital/internal/domain/account"
	"github.com/medicare/hospital/internal/platform/auth"
)

type mockAccountRepo struct {
	accounts map[string]*account.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*account.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, a *account.Account) error {
	if _, ok := m.accounts[a.Email]; ok {
		return account.ErrEmailExists
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.accounts[a.Email] = a
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return nil, account.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountRepo) UpdatePassword(_ context.Context, email, hash string) error {
	a, ok := m.accounts[email]
	if !ok {
		return account.ErrNotFound
	}
	a.Password = hash
	return nil
}

func (m *mockAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	for email, a := range m.accounts {
		if a.ID == id {
			delete(m.accounts, email)
			return nil
		}
	}
	return account.ErrNotFound
}

func (m *mockAccountRepo) DeleteByEmail(_ context.Context, email string) error {
	if _, ok := m.accounts[email]; !ok {
		return account.ErrNotFound
	}
	delete(m.accounts, email)
	return nil
}

type mockPatientRepo struct {
	patients   map[uuid.UUID]*Patient
	failCreate bool
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if m.failCreate {
		return errors.New("insert failed")
	}
	for _, existing := range m.patients {
		if existing.Email == p.Email {
			return ErrEmailExists
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) GetByEmail(_ context.Context, email string) (*Patient, error) {
	for _, p := range m.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var all []*Patient
	for _, p := range m.patients {
		all = append(all, p)
	}
	return all, len(all), nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func newTestService() (*Service, *mockPatientRepo, *mockAccountRepo) {
	accountRepo := newMockAccountRepo()
	patientRepo := newMockPatientRepo()
	accounts := account.NewService(accountRepo)
	logger := zerolog.New(os.Stderr)
	return NewService(patientRepo, accounts, logger), patientRepo, accountRepo
}

func validRequest() *RegisterRequest {
	return &RegisterRequest{
		FirstName:   "Asha",
		LastName:    "Verma",
		Email:       "asha@hospital.test",
		PhoneNumber: "555-0101",
		Gender:      "female",
		DateOfBirth: "1990-04-12",
		Password:    "s3cret",
	}
}

func TestRegister_CreatesAccountAndPatient(t *testing.T) {
	svc, _, accountRepo := newTestService()
	ctx := context.Background()

	p, err := svc.Register(ctx, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Active {
		t.Error("expected new patient to be active")
	}
	if p.RegistrationDate.IsZero() {
		t.Error("expected registration date to be set")
	}

	a, ok := accountRepo.accounts["asha@hospital.test"]
	if !ok {
		t.Fatal("expected paired account to exist")
	}
	if a.Role != auth.RolePatient {
		t.Errorf("expected role PATIENT, got %s", a.Role)
	}
	if p.UserID != a.ID {
		t.Errorf("expected patient user_id %s to match account id %s", p.UserID, a.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(ctx, validRequest())
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegister_RollsBackAccountOnProfileFailure(t *testing.T) {
	svc, patientRepo, accountRepo := newTestService()
	ctx := context.Background()

	patientRepo.failCreate = true
	if _, err := svc.Register(ctx, validRequest()); err == nil {
		t.Fatal("expected registration to fail")
	}
	if _, ok := accountRepo.accounts["asha@hospital.test"]; ok {
		t.Error("expected account to be rolled back after patient create failure")
	}

	patientRepo.failCreate = false
	if _, err := svc.Register(ctx, validRequest()); err != nil {
		t.Errorf("expected retry to succeed after rollback, got %v", err)
	}
}

func TestDelete_RemovesAccount(t *testing.T) {
	svc, _, accountRepo := newTestService()
	ctx := context.Background()

	p, err := svc.Register(ctx, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := accountRepo.accounts[p.Email]; ok {
		t.Error("expected account to be removed with patient")
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFullName(t *testing.T) {
	p := &Patient{FirstName: "Asha", LastName: "Verma"}
	if got := p.FullName(); got != "Asha Verma" {
		t.Errorf("expected 'Asha Verma', got %q", got)
	}
	only := &Patient{FirstName: "Asha"}
	if got := only.FullName(); got != "Asha" {
		t.Errorf("expected 'Asha', got %q", got)
	}
}
