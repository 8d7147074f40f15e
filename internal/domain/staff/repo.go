package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}
