package domain

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) String() string { return string(s) }

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentGcash PaymentMethod = "gcash"
	PaymentCard  PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentGcash, PaymentCard:
		return true
	}
	return false
}

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}

// OrderCustomer is the customer snapshot frozen at checkout time.
type OrderCustomer struct {
	Name          string  `json:"name"`
	ContactNumber string  `json:"contactNumber"`
	Address       Address `json:"address"`
}

// Order is immutable once created; only status transitions are permitted and
// nothing in this layer drives status beyond the initial "processing".
type Order struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	Customer      OrderCustomer `json:"customer"`
}
