package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicare/hospital/internal/domain/inventory"
	"github.com/medicare/hospital/internal/domain/patient"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidPatient  = errors.New("invalid patient")
	ErrInvalidItem     = errors.New("invalid inventory item")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

type Service struct {
	repo     Repository
	patients patient.Repository
	items    inventory.Repository
}

func NewService(repo Repository, patients patient.Repository, items inventory.Repository) *Service {
	return &Service{repo: repo, patients: patients, items: items}
}

// Place records an order for the patient behind the given email. Stock
// is not debited here; fulfilment adjusts quantities when the order is
// actually dispensed.
func (s *Service) Place(ctx context.Context, patientEmail string, req *PlaceRequest) (*View, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.patients.GetByEmail(ctx, patientEmail)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, ErrInvalidPatient
		}
		return nil, err
	}
	item, err := s.items.GetByID(ctx, req.InventoryID)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			return nil, ErrInvalidItem
		}
		return nil, err
	}

	o := &Order{
		PatientID:   p.ID,
		InventoryID: item.ID,
		Quantity:    req.Quantity,
		OrderDate:   time.Now().UTC(),
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	v := viewOf(o)
	fillPatient(v, p)
	v.InventoryName = item.Name
	return v, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []*Order{o})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) ListAll(ctx context.Context) ([]*View, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, all)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*View, error) {
	list, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, list)
}

func (s *Service) ListByPatientEmail(ctx context.Context, email string) ([]*View, error) {
	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, ErrInvalidPatient
		}
		return nil, err
	}
	return s.ListByPatient(ctx, p.ID)
}

// Update applies the fields present in the request and leaves the rest
// untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*View, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		o.Quantity = *req.Quantity
	}
	if req.Status != nil {
		o.Status = *req.Status
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []*Order{o})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func viewOf(o *Order) *View {
	return &View{
		OrderID:     o.ID,
		PatientID:   o.PatientID,
		InventoryID: o.InventoryID,
		Quantity:    o.Quantity,
		OrderDate:   o.OrderDate,
		Status:      o.Status,
	}
}

func fillPatient(v *View, p *patient.Patient) {
	v.PatientName = p.FullName()
	v.PatientEmail = p.Email
	v.PatientPhone = p.PhoneNumber
}

// views denormalizes a batch of orders, caching lookups so a patient or
// item referenced many times is fetched once. Orders pointing at rows
// that no longer exist keep their IDs and empty display fields.
func (s *Service) views(ctx context.Context, list []*Order) ([]*View, error) {
	patients := make(map[uuid.UUID]*patient.Patient)
	items := make(map[uuid.UUID]*inventory.Item)

	out := make([]*View, len(list))
	for idx, o := range list {
		v := viewOf(o)

		p, ok := patients[o.PatientID]
		if !ok {
			var err error
			p, err = s.patients.GetByID(ctx, o.PatientID)
			if err != nil && !errors.Is(err, patient.ErrNotFound) {
				return nil, err
			}
			patients[o.PatientID] = p
		}
		if p != nil {
			fillPatient(v, p)
		}

		item, ok := items[o.InventoryID]
		if !ok {
			var err error
			item, err = s.items.GetByID(ctx, o.InventoryID)
			if err != nil && !errors.Is(err, inventory.ErrNotFound) {
				return nil, err
			}
			items[o.InventoryID] = item
		}
		if item != nil {
			v.InventoryName = item.Name
		}

		out[idx] = v
	}
	return out, nil
}
