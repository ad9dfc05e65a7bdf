package models

import "time"

// CardDetailsRequest is the optional card fingerprint sent with checkout.
// Only the last four digits and expiry ever reach the server.
type CardDetailsRequest struct {
	LastFour    string `json:"last_four" binding:"required,len=4,numeric"`
	ExpiryMonth int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" binding:"required,min=2000,max=2099"`
}

// CheckoutRequest starts checkout for the caller's current cart.
type CheckoutRequest struct {
	DeliveryAddress string              `json:"delivery_address" binding:"required"`
	BillingAddress  string              `json:"billing_address"`
	PaymentMethod   string              `json:"payment_method" binding:"required,oneof=card upi netbanking cod wallet"`
	PromoCode       string              `json:"promo_code"`
	CardNumber      string              `json:"card_number"`
	CardDetails     *CardDetailsRequest `json:"card_details" binding:"omitempty"`
	IdempotencyKey  string              `json:"idempotency_key"`
}

// OTPChallenge is returned when risk scoring demands step-up verification
// before the order can proceed.
type OTPChallenge struct {
	ChallengeID string    `json:"challenge_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	RiskLevel   string    `json:"risk_level"`
	Flags       []string  `json:"flags"`
}

// VerifyOTPRequest completes a pending checkout with the passcode the user
// received.
type VerifyOTPRequest struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
}
