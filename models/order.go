package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Order statuses
const (
	StatusPending        = "pending"
	StatusPreparing      = "preparing"
	StatusReady          = "ready"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment methods
const (
	PaymentDoorCash = "door_cash"
	PaymentDoorCard = "door_card"
	PaymentOnline   = "online" // placeholder, no gateway behind it
)

var (
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrNotCancellable    = errors.New("order is already on its way and cannot be cancelled")
)

// statusTransitions lists where an order may move from each status.
// Cancellation is only possible while the order is still in the kitchen.
var statusTransitions = map[string][]string{
	StatusPending:        {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func IsValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

func IsValidPaymentMethod(method string) bool {
	return method == PaymentDoorCash || method == PaymentDoorCard || method == PaymentOnline
}

// CanTransition reports whether an order may move from one status to another.
// Re-setting the current status is accepted as an idempotent no-op.
func CanTransition(from, to string) bool {
	if from == to {
		return IsValidStatus(to)
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is a line item frozen at order time. Later menu edits
// (price, name, image) never touch it.
type OrderItem struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// OrderItems is serialized into a single JSON text column so the snapshot
// stays embedded in the order row.
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (items *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	default:
		return fmt.Errorf("cannot scan %T into OrderItems", value)
	}
}

// Total sums price * quantity over the snapshot.
func (items OrderItems) Total() float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

type Order struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerID    string     `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	Customer      Customer   `gorm:"foreignKey:CustomerID;references:ID" json:"customer"`
	Items         OrderItems `gorm:"type:text;not null" json:"items"`
	TotalAmount   float64    `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod string     `gorm:"type:varchar(20);not null" json:"payment_method"`
	Note          string     `gorm:"type:text" json:"note"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
}

// ShortCode returns the courier-facing code: the last 8 characters of the
// order id, upper-cased so it can be read aloud without ambiguity.
func (o *Order) ShortCode() string {
	if len(o.ID) <= 8 {
		return strings.ToUpper(o.ID)
	}
	return strings.ToUpper(o.ID[len(o.ID)-8:])
}

// Cancellable reports whether the customer may still cancel the order.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusPreparing || o.Status == StatusReady
}
