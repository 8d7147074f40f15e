package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("inventory item not found")
	ErrDuplicateItem   = errors.New("item with this name and category already exists")
	ErrInvalidQuantity = errors.New("quantity cannot be negative")
)

// DashboardExpiryWindowDays is the lookahead used by the dashboard's
// expiring-items panel.
const DashboardExpiryWindowDays = 30

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(ctx context.Context, i *Item) error {
	if i.Name == "" {
		return fmt.Errorf("name is required")
	}
	if i.Quantity < 0 {
		return ErrInvalidQuantity
	}
	exists, err := s.repo.ExistsByNameAndCategory(ctx, i.Name, i.Category)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateItem
	}
	return s.repo.Create(ctx, i)
}

func (s *Service) Update(ctx context.Context, i *Item) error {
	if i.Name == "" {
		return fmt.Errorf("name is required")
	}
	if i.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return s.repo.Update(ctx, i)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]*Item, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *Service) ListBySupplier(ctx context.Context, supplier string) ([]*Item, error) {
	return s.repo.ListBySupplier(ctx, supplier)
}

func (s *Service) ListLowStock(ctx context.Context) ([]*Item, error) {
	return s.repo.ListLowStock(ctx)
}

// ListExpiringBefore returns items whose expiry date falls on or before
// the given date.
func (s *Service) ListExpiringBefore(ctx context.Context, date time.Time) ([]*Item, error) {
	return s.repo.ListExpiringBefore(ctx, date)
}

func (s *Service) ListExpiringWithinDays(ctx context.Context, days int) ([]*Item, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, days)
	return s.repo.ListExpiringBefore(ctx, cutoff)
}

func (s *Service) Search(ctx context.Context, term string) ([]*Item, error) {
	return s.repo.Search(ctx, term)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// AdjustQuantity replaces the stored quantity. The item is returned so
// the caller can see the re-derived stock status.
func (s *Service) AdjustQuantity(ctx context.Context, id uuid.UUID, quantity int) (*Item, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.repo.UpdateQuantity(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Dashboard composes the stock-health summary: full item count, derived
// out-of-stock count, low-stock list, and items expiring within the
// standard window.
func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	expiring, err := s.ListExpiringWithinDays(ctx, DashboardExpiryWindowDays)
	if err != nil {
		return nil, err
	}

	outOfStock := 0
	for _, i := range all {
		if i.StockStatus() == StatusOutOfStock {
			outOfStock++
		}
	}

	return &DashboardResponse{
		TotalItems:      len(all),
		OutOfStockItems: outOfStock,
		LowStockItems:   len(lowStock),
		ExpiringItems:   len(expiring),
		LowStockList:    NewResponses(lowStock),
		ExpiringList:    NewResponses(expiring),
	}, nil
}
