package inventory

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Item
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Item)}
}

func (m *mockRepo) Create(_ context.Context, i *Item) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	m.items[i.ID] = i
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	i, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return i, nil
}

func (m *mockRepo) Update(_ context.Context, i *Item) error {
	if _, ok := m.items[i.ID]; !ok {
		return ErrNotFound
	}
	m.items[i.ID] = i
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]*Item, error) {
	var all []*Item
	for _, i := range m.items {
		all = append(all, i)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Name < all[b].Name })
	return all, nil
}

func (m *mockRepo) ListByCategory(_ context.Context, category string) ([]*Item, error) {
	var out []*Item
	for _, i := range m.items {
		if i.Category == category {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockRepo) ListBySupplier(_ context.Context, supplier string) ([]*Item, error) {
	var out []*Item
	for _, i := range m.items {
		if i.Supplier == supplier {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockRepo) ListLowStock(_ context.Context) ([]*Item, error) {
	var out []*Item
	for _, i := range m.items {
		if i.MinimumStock != nil && i.Quantity <= *i.MinimumStock {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockRepo) ListExpiringBefore(_ context.Context, date time.Time) ([]*Item, error) {
	var out []*Item
	for _, i := range m.items {
		if i.ExpiryDate != nil && !i.ExpiryDate.After(date) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockRepo) Search(_ context.Context, term string) ([]*Item, error) {
	var out []*Item
	for _, i := range m.items {
		if i.Name == term || i.Description == term {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockRepo) ExistsByNameAndCategory(_ context.Context, name, category string) (bool, error) {
	for _, i := range m.items {
		if i.Name == name && i.Category == category {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	i, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	i.Quantity = quantity
	return nil
}

func daysFromNow(days int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, days)
	return &t
}

func TestAdd_DuplicateNameAndCategory(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if err := svc.Add(ctx, &Item{Name: "Ibuprofen", Category: "Medicine", Quantity: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := svc.Add(ctx, &Item{Name: "Ibuprofen", Category: "Medicine", Quantity: 5})
	if !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}

	// Same name in a different category is allowed.
	if err := svc.Add(ctx, &Item{Name: "Ibuprofen", Category: "Consumable", Quantity: 5}); err != nil {
		t.Errorf("expected different category to be accepted, got %v", err)
	}
}

func TestAdd_RejectsNegativeQuantity(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Add(context.Background(), &Item{Name: "Gauze", Quantity: -1})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestAdjustQuantity(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	item := &Item{Name: "Syringe", Category: "Consumable", Quantity: 10, MinimumStock: intPtr(5)}
	if err := svc.Add(ctx, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.AdjustQuantity(ctx, item.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", updated.Quantity)
	}
	if updated.StockStatus() != StatusLowStock {
		t.Errorf("expected status %q, got %q", StatusLowStock, updated.StockStatus())
	}

	if _, err := svc.AdjustQuantity(ctx, item.ID, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if current, _ := svc.Get(ctx, item.ID); current.Quantity != 3 {
		t.Errorf("expected quantity unchanged after rejected adjustment, got %d", current.Quantity)
	}

	if _, err := svc.AdjustQuantity(ctx, uuid.New(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestListExpiringWithinDays(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	soon := &Item{Name: "Insulin", Category: "Medicine", Quantity: 4, ExpiryDate: daysFromNow(10)}
	far := &Item{Name: "Bandage", Category: "Consumable", Quantity: 50, ExpiryDate: daysFromNow(40)}
	never := &Item{Name: "Scalpel", Category: "Equipment", Quantity: 5}
	for _, i := range []*Item{soon, far, never} {
		if err := svc.Add(ctx, i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items, err := svc.ListExpiringWithinDays(ctx, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Insulin" {
		t.Fatalf("expected only Insulin within 30 days, got %d items", len(items))
	}
}

func TestDashboard(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	items := []*Item{
		{Name: "Ibuprofen", Category: "Medicine", Quantity: 0, MinimumStock: intPtr(10)},
		{Name: "Insulin", Category: "Medicine", Quantity: 4, MinimumStock: intPtr(5), ExpiryDate: daysFromNow(10)},
		{Name: "Bandage", Category: "Consumable", Quantity: 100, ExpiryDate: daysFromNow(60)},
	}
	for _, i := range items {
		if err := svc.Add(ctx, i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dash.TotalItems != 3 {
		t.Errorf("expected 3 total items, got %d", dash.TotalItems)
	}
	if dash.OutOfStockItems != 1 {
		t.Errorf("expected 1 out-of-stock item, got %d", dash.OutOfStockItems)
	}
	// Ibuprofen sits at quantity 0 with a threshold, so it is in the
	// low-stock list even though its derived status is out of stock.
	if dash.LowStockItems != 2 {
		t.Errorf("expected 2 low-stock items, got %d", dash.LowStockItems)
	}
	if dash.ExpiringItems != 1 {
		t.Errorf("expected 1 expiring item, got %d", dash.ExpiringItems)
	}
	if len(dash.ExpiringList) != 1 || dash.ExpiringList[0].Name != "Insulin" {
		t.Error("expected Insulin in expiring list")
	}
}
