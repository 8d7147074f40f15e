package orders

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
