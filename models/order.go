package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses as they move through the pipeline. Orders start pending,
// are confirmed by the checkout consumer and end delivered or cancelled.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is a persisted order with its fee breakdown and the risk verdict
// recorded at checkout time.
type Order struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	RestaurantID      string      `gorm:"not null" json:"restaurant_id"`
	RestaurantName    string      `json:"restaurant_name"`
	DeliveryAddress   string      `gorm:"not null" json:"delivery_address"`
	PaymentMethod     string      `gorm:"not null" json:"payment_method"`
	Subtotal          float64     `json:"subtotal"`
	DeliveryFee       float64     `json:"delivery_fee"`
	ServiceFee        float64     `json:"service_fee"`
	PromoCode         string      `json:"promo_code,omitempty"`
	PromoDiscount     float64     `json:"promo_discount"`
	Total             float64     `json:"total"`
	Status            string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	EstimatedDelivery string      `json:"estimated_delivery"`
	RiskScore         int         `json:"risk_score"`
	RiskLevel         string      `gorm:"type:varchar(10)" json:"risk_level"`
	IdempotencyKey    *string     `gorm:"uniqueIndex" json:"-"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	Items             []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a purchased line item.
type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ItemID   string    `gorm:"not null" json:"item_id"`
	Name     string    `json:"name"`
	Quantity int       `gorm:"not null" json:"quantity"`
	Price    float64   `gorm:"not null" json:"price"`
}

// CheckoutEvent is published to Kafka (and mirrored to SNS) once an order is
// accepted, so downstream consumers can confirm and notify.
type CheckoutEvent struct {
	OrderID        string         `json:"order_id"`
	UserID         string         `json:"user_id"`
	RestaurantID   string         `json:"restaurant_id"`
	Items          []CheckoutItem `json:"items"`
	Total          float64        `json:"total"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

type CheckoutItem struct {
	ItemID   string  `json:"item_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
