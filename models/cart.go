package models

import "time"

// CartItem is one line of a user's cart.
type CartItem struct {
	ItemID    string  `json:"item_id" binding:"required"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

// Cart is the full cart blob persisted in Redis per user. A cart belongs to
// a single restaurant at a time, matching the storefront UX.
type Cart struct {
	UserID         string     `json:"user_id"`
	RestaurantID   string     `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name"`
	Items          []CartItem `json:"items"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CartTotals is the fee breakdown computed from cart contents.
type CartTotals struct {
	Subtotal      float64 `json:"subtotal"`
	DeliveryFee   float64 `json:"delivery_fee"`
	ServiceFee    float64 `json:"service_fee"`
	PromoDiscount float64 `json:"promo_discount"`
	Total         float64 `json:"total"`
}

// Flat fees charged on any non-empty cart, in rupees.
const (
	DeliveryFee = 30.0
	ServiceFee  = 15.0
)

// Totals computes the fee breakdown for the cart after applying the given
// promo discount. Fees apply only to non-empty carts and the total never
// goes below zero.
func (c *Cart) Totals(promoDiscount float64) CartTotals {
	totals := CartTotals{PromoDiscount: promoDiscount}
	for _, item := range c.Items {
		totals.Subtotal += item.UnitPrice * float64(item.Quantity)
	}
	if len(c.Items) > 0 {
		totals.DeliveryFee = DeliveryFee
		totals.ServiceFee = ServiceFee
	}
	totals.Total = totals.Subtotal + totals.DeliveryFee + totals.ServiceFee - promoDiscount
	if totals.Total < 0 {
		totals.Total = 0
	}
	return totals
}

type AddCartItemRequest struct {
	RestaurantID   string   `json:"restaurant_id" binding:"required"`
	RestaurantName string   `json:"restaurant_name"`
	Item           CartItem `json:"item" binding:"required"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}
