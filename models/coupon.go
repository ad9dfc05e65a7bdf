package models

import (
	"time"

	"github.com/google/uuid"
)

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

// Coupon is a promo code applied at checkout.
type Coupon struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string     `gorm:"uniqueIndex;not null" json:"code"`
	Type          CouponType `gorm:"type:varchar(20);not null" json:"type"`
	Value         float64    `gorm:"not null" json:"value"`
	MinOrderValue float64    `json:"min_order_value"`
	UsageLimit    int        `json:"usage_limit"`
	UsedCount     int        `json:"used_count"`
	ExpiresAt     time.Time  `json:"expires_at"`
	Active        bool       `gorm:"default:true" json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateCouponRequest struct {
	Code          string     `json:"code" binding:"required"`
	Type          CouponType `json:"type" binding:"required,oneof=percentage fixed"`
	Value         float64    `json:"value" binding:"required,gt=0"`
	MinOrderValue float64    `json:"min_order_value" binding:"gte=0"`
	UsageLimit    int        `json:"usage_limit" binding:"gte=0"`
	ExpiresAt     time.Time  `json:"expires_at" binding:"required"`
}

type ValidateCouponRequest struct {
	Code      string  `json:"code" binding:"required"`
	CartTotal float64 `json:"cart_total" binding:"gte=0"`
}

type ValidateCouponResponse struct {
	Valid          bool       `json:"valid"`
	Code           string     `json:"code"`
	Type           CouponType `json:"type,omitempty"`
	DiscountAmount float64    `json:"discount_amount"`
	Message        string     `json:"message"`
}

// Discount computes the discount this coupon grants on the given subtotal.
// Percentage coupons never discount more than the subtotal itself.
func (c *Coupon) Discount(subtotal float64) float64 {
	var discount float64
	switch c.Type {
	case CouponTypePercentage:
		discount = subtotal * c.Value / 100
	case CouponTypeFixed:
		discount = c.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
