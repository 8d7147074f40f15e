package orders

import (
	"time"

	"github.com/google/uuid"
)

// StatusPending is the state every new order starts in. Status is an
// open string after that; staff move orders through whatever workflow
// states the front office uses.
const StatusPending = "PENDING"

type Order struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	InventoryID uuid.UUID `json:"inventory_id"`
	Quantity    int       `json:"quantity"`
	OrderDate   time.Time `json:"order_date"`
	Status      string    `json:"status"`
}

// View is an order joined with the patient and item it references, the
// shape list screens consume.
type View struct {
	OrderID       uuid.UUID `json:"order_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	InventoryID   uuid.UUID `json:"inventory_id"`
	Quantity      int       `json:"quantity"`
	OrderDate     time.Time `json:"order_date"`
	Status        string    `json:"status"`
	PatientName   string    `json:"patient_name,omitempty"`
	PatientEmail  string    `json:"patient_email,omitempty"`
	PatientPhone  string    `json:"patient_phone,omitempty"`
	InventoryName string    `json:"inventory_name,omitempty"`
}

type PlaceRequest struct {
	InventoryID uuid.UUID `json:"inventory_id"`
	Quantity    int       `json:"quantity"`
}

// UpdateRequest applies only the fields the caller supplies.
type UpdateRequest struct {
	Quantity *int    `json:"quantity"`
	Status   *string `json:"status"`
}
