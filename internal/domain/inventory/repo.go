package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, i *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Item, error)
	ListByCategory(ctx context.Context, category string) ([]*Item, error)
	ListBySupplier(ctx context.Context, supplier string) ([]*Item, error)
	ListLowStock(ctx context.Context) ([]*Item, error)
	ListExpiringBefore(ctx context.Context, date time.Time) ([]*Item, error)
	Search(ctx context.Context, term string) ([]*Item, error)
	ExistsByNameAndCategory(ctx context.Context, name, category string) (bool, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
}
