package staff

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

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

type mockStaffRepo struct {
	profiles   map[uuid.UUID]*Profile
	failCreate bool
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{profiles: make(map[uuid.UUID]*Profile)}
}

func (m *mockStaffRepo) Create(_ context.Context, p *Profile) error {
	if m.failCreate {
		return errors.New("insert failed")
	}
	for _, existing := range m.profiles {
		if existing.Email == p.Email {
			return ErrDuplicateEmail
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockStaffRepo) GetByEmail(_ context.Context, email string) (*Profile, error) {
	for _, p := range m.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockStaffRepo) List(_ context.Context) ([]*Profile, error) {
	var out []*Profile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockStaffRepo) Update(_ context.Context, p *Profile) error {
	if _, ok := m.profiles[p.ID]; !ok {
		return ErrNotFound
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(m.profiles, id)
	return nil
}

func newTestService() (*Service, *mockStaffRepo, *mockAccountRepo) {
	staffRepo := newMockStaffRepo()
	accountRepo := newMockAccountRepo()
	accounts := account.NewService(accountRepo)
	return NewService(staffRepo, accounts, zerolog.New(os.Stderr)), staffRepo, accountRepo
}

func validRequest() *RegisterRequest {
	return &RegisterRequest{
		Profile: Profile{
			FirstName:   "Ravi",
			LastName:    "Iyer",
			Email:       "ravi@hospital.test",
			PhoneNumber: "555-0202",
			Role:        "Pharmacist",
			Department:  "Pharmacy",
			HireDate:    "2024-02-01",
			Salary:      52000,
		},
		Password: "initial-pass",
	}
}

func TestRegister_CreatesAccountWithStaffRole(t *testing.T) {
	svc, _, accountRepo := newTestService()
	ctx := context.Background()

	p, err := svc.Register(ctx, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected profile id to be assigned")
	}

	a, ok := accountRepo.accounts["ravi@hospital.test"]
	if !ok {
		t.Fatal("expected paired account to exist")
	}
	if a.Role != auth.RoleStaff {
		t.Errorf("expected role STAFF, got %s", a.Role)
	}
	if p.UserID != a.ID {
		t.Errorf("expected profile user_id %s to match account id %s", p.UserID, a.ID)
	}
}

func TestRegister_DuplicateEmailLeavesNoOrphan(t *testing.T) {
	svc, staffRepo, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(ctx, validRequest()); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(staffRepo.profiles) != 1 {
		t.Errorf("expected exactly one profile, got %d", len(staffRepo.profiles))
	}
}

func TestRegister_CompensatesAccountOnProfileFailure(t *testing.T) {
	svc, staffRepo, accountRepo := newTestService()
	ctx := context.Background()

	staffRepo.failCreate = true
	if _, err := svc.Register(ctx, validRequest()); err == nil {
		t.Fatal("expected registration to fail")
	}
	if _, ok := accountRepo.accounts["ravi@hospital.test"]; ok {
		t.Error("expected account to be deleted after profile create failure")
	}

	staffRepo.failCreate = false
	if _, err := svc.Register(ctx, validRequest()); err != nil {
		t.Errorf("expected retry with same email to succeed, got %v", err)
	}
}

func TestUpdate_PropagatesPassword(t *testing.T) {
	svc, _, accountRepo := newTestService()
	ctx := context.Background()

	p, err := svc.Register(ctx, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := &UpdateRequest{
		FirstName:  "Ravi",
		LastName:   "Iyer",
		Role:       "Senior Pharmacist",
		Department: "Pharmacy",
		Salary:     60000,
		Password:   "rotated-pass",
	}
	updated, err := svc.UpdateByEmail(ctx, p.Email, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != "Senior Pharmacist" || updated.Salary != 60000 {
		t.Error("expected profile fields to be updated")
	}

	a := accountRepo.accounts[p.Email]
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte("rotated-pass")); err != nil {
		t.Error("expected account password to be rotated")
	}
	if updated.Password != a.Password {
		t.Error("expected profile hash to match the rotated account hash")
	}
}

func TestUpdate_BlankPasswordKeepsCredential(t *testing.T) {
	svc, _, accountRepo := newTestService()
	ctx := context.Background()

	p, err := svc.Register(ctx, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	oldHash := accountRepo.accounts[p.Email].Password

	req := &UpdateRequest{FirstName: "Ravi", LastName: "Iyer", Role: "Pharmacist", Password: "   "}
	if _, err := svc.UpdateByEmail(ctx, p.Email, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accountRepo.accounts[p.Email].Password != oldHash {
		t.Error("expected credential unchanged for blank password")
	}
}

func TestDelete_RemovesAccount(t *testing.T) {
	svc, _, accountRepo := newTestService()
	ctx := context.Background()

	p, err := svc.Register(ctx, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteByID(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := accountRepo.accounts[p.Email]; ok {
		t.Error("expected account removed with staff member")
	}

	if err := svc.DeleteByEmail(ctx, "ghost@hospital.test"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
