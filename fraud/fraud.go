// Package fraud implements the rule-based risk scoring used to gate checkout.
//
// Every evaluation is a one-shot pure computation over its inputs: rules are
// independent boolean tests, each contributing at most one flag and one
// additive score delta. The only quasi-impure input is the wall-clock hour
// used by the late-night rule, which is injected through the Analyzer so
// tests can pin it.
package fraud

import (
	"strings"
	"time"
)

// RiskLevel is a discrete severity tier derived from the raw score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// OrderItem is a single line item of an order under evaluation.
type OrderItem struct {
	ItemID    string  `json:"item_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CardDetails carries the card fingerprint attached to an order. Only the
// last four digits and the expiry are ever seen by the scorer.
type CardDetails struct {
	LastFour    string `json:"last_four"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
}

// OrderData is the fully materialized order handed over by the checkout flow.
type OrderData struct {
	UserID          string       `json:"user_id"`
	TotalAmount     float64      `json:"total_amount"`
	Items           []OrderItem  `json:"items"`
	DeliveryAddress string       `json:"delivery_address"`
	PaymentMethod   string       `json:"payment_method"`
	CardDetails     *CardDetails `json:"card_details,omitempty"`
}

// Result is the outcome of a single risk evaluation. Flags appear in
// evaluation order; a rule contributes at most one flag.
type Result struct {
	IsFraudulent bool      `json:"is_fraudulent"`
	RiskScore    int       `json:"risk_score"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Flags        []string  `json:"flags"`
	RequiresOTP  bool      `json:"requires_otp"`
}

// Analyzer evaluates orders against the fixed rule set. It holds no state
// beyond the injected clock and is safe for concurrent use.
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer returns an Analyzer using the given clock. A nil clock falls
// back to time.Now.
func NewAnalyzer(now func() time.Time) *Analyzer {
	if now == nil {
		now = time.Now
	}
	return &Analyzer{now: now}
}

// AnalyzeOrderRisk scores a single proposed order.
//
// The amount and total-quantity families are banded: only the highest
// matching band fires. The two single-item quantity checks are independent
// and may both fire for the same item.
func (a *Analyzer) AnalyzeOrderRisk(order OrderData) Result {
	flags := []string{}
	score := 0

	amount := nonNegAmount(order.TotalAmount)

	if amount > 2000 {
		flags = append(flags, "extremely_high_order_amount")
		score += 60
	} else if amount > 1000 {
		flags = append(flags, "unusually_high_order_amount")
		score += 40
	} else if amount > 500 {
		flags = append(flags, "high_order_amount")
		score += 20
	}

	totalQuantity := 0
	for _, item := range order.Items {
		totalQuantity += nonNegQty(item.Quantity)
	}
	if totalQuantity > 50 {
		flags = append(flags, "extremely_high_total_quantity")
		score += 50
	} else if totalQuantity > 25 {
		flags = append(flags, "high_total_quantity")
		score += 30
	}

	if anyQuantityOver(order.Items, 20) {
		flags = append(flags, "very_high_single_item_quantity")
		score += 40
	}
	if anyQuantityOver(order.Items, 10) {
		flags = append(flags, "high_single_item_quantity")
		score += 20
	}

	if order.CardDetails != nil && order.CardDetails.LastFour == "1234" {
		flags = append(flags, "suspicious_card_pattern")
		score += 60
	}

	// Late-night orders only matter when the amount is already large.
	hour := a.now().Hour()
	if hour >= 2 && hour <= 5 && amount > 1000 {
		flags = append(flags, "unusual_time_high_amount")
		score += 25
	}

	expensiveItems := 0
	for _, item := range order.Items {
		if nonNegAmount(item.UnitPrice) > 500 {
			expensiveItems++
		}
	}
	if expensiveItems > 5 {
		flags = append(flags, "multiple_expensive_items")
		score += 30
	}

	return classify(score, flags, 80, 60, 40)
}

// DetectSuspiciousBehavior scores the current order against the caller's
// bounded window of recent orders plus the account age. The two new-account
// rules are independent checks and can both fire for a very fresh account
// placing a large order.
func (a *Analyzer) DetectSuspiciousBehavior(order OrderData, recentOrders []OrderData, accountAgeDays int) Result {
	flags := []string{}
	score := 0

	amount := nonNegAmount(order.TotalAmount)

	if accountAgeDays < 1 && amount > 500 {
		flags = append(flags, "new_account_large_order")
		score += 40
	}
	if accountAgeDays < 3 && amount > 1000 {
		flags = append(flags, "very_new_account_large_order")
		score += 35
	}

	if len(recentOrders) > 10 {
		flags = append(flags, "excessive_orders_short_period")
		score += 40
	}
	if len(recentOrders) > 7 && len(recentOrders) <= 10 {
		flags = append(flags, "multiple_orders_short_period")
		score += 25
	}

	if len(recentOrders) > 0 {
		var total float64
		for _, past := range recentOrders {
			total += nonNegAmount(past.TotalAmount)
		}
		average := total / float64(len(recentOrders))
		if amount > average*5 {
			flags = append(flags, "order_amount_escalation")
			score += 35
		}
	}

	addresses := map[string]struct{}{}
	for _, past := range recentOrders {
		if past.DeliveryAddress != "" {
			addresses[past.DeliveryAddress] = struct{}{}
		}
	}
	if order.DeliveryAddress != "" {
		addresses[order.DeliveryAddress] = struct{}{}
	}
	if len(addresses) > 5 && len(recentOrders) > 2 {
		flags = append(flags, "multiple_delivery_addresses")
		score += 30
	}

	paymentMethods := map[string]struct{}{}
	for _, past := range recentOrders {
		paymentMethods[past.PaymentMethod] = struct{}{}
	}
	paymentMethods[order.PaymentMethod] = struct{}{}
	if len(paymentMethods) > 3 {
		flags = append(flags, "multiple_payment_methods")
		score += 25
	}

	return classify(score, flags, 70, 50, 30)
}

// CheckStolenCardRisk scores a card fingerprint against the billing and
// delivery addresses supplied at checkout.
func (a *Analyzer) CheckStolenCardRisk(card CardDetails, billingAddress, deliveryAddress string) Result {
	flags := []string{}
	score := 0

	switch card.LastFour {
	case "1234", "4321", "0000":
		flags = append(flags, "potentially_compromised_card")
		score += 40
	}

	// Compare only the first comma-delimited segment; the rest of a free-text
	// address (city, pincode) legitimately differs between the two.
	if billingAddress != "" && deliveryAddress != "" &&
		firstSegment(billingAddress) != firstSegment(deliveryAddress) {
		flags = append(flags, "address_mismatch")
		score += 20
	}

	expiry := time.Date(card.ExpiryYear, time.Month(card.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC)
	oneMonthFromNow := a.now().AddDate(0, 1, 0)
	if !expiry.After(oneMonthFromNow) {
		flags = append(flags, "card_near_expiry")
		score += 5
	}

	return classify(score, flags, 40, 40, 20)
}

// ValidateCardNumber reports whether the card number passes the Luhn
// checksum. Non-digit characters are stripped first; an empty digit string
// is invalid.
func ValidateCardNumber(cardNumber string) bool {
	var digits []int
	for _, r := range cardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) == 0 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// classify maps a raw score onto the level/fraud/OTP decision for the given
// thresholds. fraudAt and otpAt coincide for the card check, where any high
// result is treated as fraudulent.
func classify(score int, flags []string, fraudAt, otpAt, mediumAt int) Result {
	result := Result{
		RiskScore: score,
		RiskLevel: RiskLow,
		Flags:     flags,
	}
	switch {
	case score >= fraudAt:
		result.RiskLevel = RiskHigh
		result.IsFraudulent = true
		result.RequiresOTP = true
	case score >= otpAt:
		result.RiskLevel = RiskHigh
		result.RequiresOTP = true
	case score >= mediumAt:
		result.RiskLevel = RiskMedium
	}
	return result
}

// Negative amounts and quantities are treated as zero rather than rejected,
// so a crafted payload cannot subtract from the accumulated score.
func nonNegAmount(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func nonNegQty(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func anyQuantityOver(items []OrderItem, limit int) bool {
	for _, item := range items {
		if nonNegQty(item.Quantity) > limit {
			return true
		}
	}
	return false
}

func firstSegment(address string) string {
	return strings.SplitN(address, ",", 2)[0]
}
