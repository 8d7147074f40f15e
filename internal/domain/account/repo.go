package account

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEmail(ctx context.Context, email string) error
}
