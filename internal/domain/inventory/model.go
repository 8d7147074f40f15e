package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Stock status labels derived from quantity against minimum stock.
const (
	StatusOutOfStock = "Out of Stock"
	StatusLowStock   = "Low Stock"
	StatusInStock    = "In Stock"
)

// StockStatusFor classifies a quantity. Zero always wins over the
// minimum-stock threshold; items without a threshold are never low.
func StockStatusFor(quantity int, minimumStock *int) string {
	if quantity == 0 {
		return StatusOutOfStock
	}
	if minimumStock != nil && quantity <= *minimumStock {
		return StatusLowStock
	}
	return StatusInStock
}

// Item is a medicine or consumable tracked by the back office.
type Item struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Quantity     int        `json:"quantity"`
	Unit         string     `json:"unit"`
	Category     string     `json:"category"`
	Supplier     string     `json:"supplier"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Price        float64    `json:"price"`
	MinimumStock *int       `json:"minimum_stock"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// StockStatus derives the classified label for the item.
func (i *Item) StockStatus() string {
	return StockStatusFor(i.Quantity, i.MinimumStock)
}

// Response is an Item with its derived stock status attached.
type Response struct {
	*Item
	StockStatus string `json:"stock_status"`
}

func NewResponse(i *Item) *Response {
	return &Response{Item: i, StockStatus: i.StockStatus()}
}

func NewResponses(items []*Item) []*Response {
	out := make([]*Response, len(items))
	for idx, i := range items {
		out[idx] = NewResponse(i)
	}
	return out
}

// DashboardResponse aggregates stock health for the admin landing page.
type DashboardResponse struct {
	TotalItems      int         `json:"total_items"`
	OutOfStockItems int         `json:"out_of_stock_items"`
	LowStockItems   int         `json:"low_stock_items"`
	ExpiringItems   int         `json:"expiring_items"`
	LowStockList    []*Response `json:"low_stock_list"`
	ExpiringList    []*Response `json:"expiring_list"`
}
