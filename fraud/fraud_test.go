package fraud_test

import (
	"testing"
	"time"

	"storefront-service/fraud"

	"github.com/stretchr/testify/assert"
)

// afternoon pins the clock well outside the late-night window.
func afternoon() func() time.Time {
	return fixedClock(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// singleItemOrder builds an order with one line item carrying the full amount.
func singleItemOrder(amount float64) fraud.OrderData {
	return fraud.OrderData{
		UserID:          "user-1",
		TotalAmount:     amount,
		Items:           []fraud.OrderItem{{ItemID: "item-1", Quantity: 1, UnitPrice: amount}},
		DeliveryAddress: "42 MG Road, Bengaluru",
		PaymentMethod:   "card",
	}
}

// --- Order risk ---

func TestAnalyzeOrderRisk_Deterministic(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())
	order := singleItemOrder(1500)

	first := analyzer.AnalyzeOrderRisk(order)
	second := analyzer.AnalyzeOrderRisk(order)

	assert.Equal(t, first, second)
}

func TestAnalyzeOrderRisk_AmountBandBoundaries(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	cases := []struct {
		amount float64
		flag   string
		score  int
	}{
		{500, "", 0},
		{500.01, "high_order_amount", 20},
		{1000, "high_order_amount", 20},
		{1000.01, "unusually_high_order_amount", 40},
		{2000, "unusually_high_order_amount", 40},
		{2000.01, "extremely_high_order_amount", 60},
	}

	for _, tc := range cases {
		result := analyzer.AnalyzeOrderRisk(singleItemOrder(tc.amount))
		if tc.flag == "" {
			assert.Empty(t, result.Flags, "amount %v", tc.amount)
		} else {
			assert.Equal(t, []string{tc.flag}, result.Flags, "amount %v", tc.amount)
		}
		assert.Equal(t, tc.score, result.RiskScore, "amount %v", tc.amount)
	}
}

func TestAnalyzeOrderRisk_AmountBandsAreExclusive(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	result := analyzer.AnalyzeOrderRisk(singleItemOrder(2500))

	assert.Equal(t, []string{"extremely_high_order_amount"}, result.Flags)
	assert.Equal(t, 60, result.RiskScore)
}

func TestAnalyzeOrderRisk_MonotonicInAmount(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	previous := -1
	for _, amount := range []float64{100, 500, 501, 1000, 1001, 2000, 2001, 5000} {
		result := analyzer.AnalyzeOrderRisk(singleItemOrder(amount))
		assert.GreaterOrEqual(t, result.RiskScore, previous, "amount %v", amount)
		previous = result.RiskScore
	}
}

func TestAnalyzeOrderRisk_SingleItemQuantityChecksAreIndependent(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	order := fraud.OrderData{
		TotalAmount: 150,
		Items:       []fraud.OrderItem{{ItemID: "dosa", Quantity: 15, UnitPrice: 10}},
	}
	result := analyzer.AnalyzeOrderRisk(order)
	assert.Contains(t, result.Flags, "high_single_item_quantity")
	assert.NotContains(t, result.Flags, "very_high_single_item_quantity")

	order.Items[0].Quantity = 25
	result = analyzer.AnalyzeOrderRisk(order)
	assert.Contains(t, result.Flags, "very_high_single_item_quantity")
	assert.Contains(t, result.Flags, "high_single_item_quantity")
}

func TestAnalyzeOrderRisk_TotalQuantityBands(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	// 13 items of 2 keeps every single-item quantity below the per-item
	// thresholds so only the total-quantity family can fire.
	items := make([]fraud.OrderItem, 13)
	for i := range items {
		items[i] = fraud.OrderItem{ItemID: "thali", Quantity: 2, UnitPrice: 12}
	}
	result := analyzer.AnalyzeOrderRisk(fraud.OrderData{TotalAmount: 300, Items: items})
	assert.Equal(t, []string{"high_total_quantity"}, result.Flags)
	assert.Equal(t, 30, result.RiskScore)

	items = make([]fraud.OrderItem, 26)
	for i := range items {
		items[i] = fraud.OrderItem{ItemID: "thali", Quantity: 2, UnitPrice: 12}
	}
	result = analyzer.AnalyzeOrderRisk(fraud.OrderData{TotalAmount: 300, Items: items})
	assert.Equal(t, []string{"extremely_high_total_quantity"}, result.Flags)
	assert.Equal(t, 50, result.RiskScore)
}

func TestAnalyzeOrderRisk_LateNightWindow(t *testing.T) {
	for _, tc := range []struct {
		hour  int
		fires bool
	}{
		{1, false},
		{2, true},
		{5, true},
		{6, false},
	} {
		analyzer := fraud.NewAnalyzer(fixedClock(time.Date(2026, 3, 10, tc.hour, 30, 0, 0, time.UTC)))
		result := analyzer.AnalyzeOrderRisk(singleItemOrder(1500))
		if tc.fires {
			assert.Contains(t, result.Flags, "unusual_time_high_amount", "hour %d", tc.hour)
		} else {
			assert.NotContains(t, result.Flags, "unusual_time_high_amount", "hour %d", tc.hour)
		}
	}
}

func TestAnalyzeOrderRisk_LateNightRequiresHighAmount(t *testing.T) {
	analyzer := fraud.NewAnalyzer(fixedClock(time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)))

	result := analyzer.AnalyzeOrderRisk(singleItemOrder(300))

	assert.NotContains(t, result.Flags, "unusual_time_high_amount")
}

func TestAnalyzeOrderRisk_MultipleExpensiveItems(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	items := make([]fraud.OrderItem, 6)
	for i := range items {
		items[i] = fraud.OrderItem{ItemID: "feast", Quantity: 1, UnitPrice: 550}
	}
	result := analyzer.AnalyzeOrderRisk(fraud.OrderData{TotalAmount: 100, Items: items})

	assert.Contains(t, result.Flags, "multiple_expensive_items")
}

func TestAnalyzeOrderRisk_HighButNotFraudulent(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	result := analyzer.AnalyzeOrderRisk(singleItemOrder(2500))

	assert.Equal(t, 60, result.RiskScore)
	assert.Equal(t, fraud.RiskHigh, result.RiskLevel)
	assert.False(t, result.IsFraudulent)
	assert.True(t, result.RequiresOTP)
}

func TestAnalyzeOrderRisk_SuspiciousCardPushesIntoFraud(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	order := singleItemOrder(2500)
	order.CardDetails = &fraud.CardDetails{LastFour: "1234", ExpiryMonth: 12, ExpiryYear: 2030}
	result := analyzer.AnalyzeOrderRisk(order)

	assert.Equal(t, 120, result.RiskScore)
	assert.True(t, result.IsFraudulent)
	assert.True(t, result.RequiresOTP)
}

func TestAnalyzeOrderRisk_CleanOrderIsLowRisk(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	result := analyzer.AnalyzeOrderRisk(singleItemOrder(100))

	assert.Equal(t, 0, result.RiskScore)
	assert.Equal(t, fraud.RiskLow, result.RiskLevel)
	assert.False(t, result.RequiresOTP)
	assert.Empty(t, result.Flags)
}

func TestAnalyzeOrderRisk_NegativeInputsTreatedAsZero(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	result := analyzer.AnalyzeOrderRisk(fraud.OrderData{
		TotalAmount: -2500,
		Items:       []fraud.OrderItem{{ItemID: "x", Quantity: -30, UnitPrice: -700}},
	})

	assert.Equal(t, 0, result.RiskScore)
	assert.Empty(t, result.Flags)
}

// --- Behavioral risk ---

func TestDetectSuspiciousBehavior_NewAccountLargeOrder(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	result := analyzer.DetectSuspiciousBehavior(singleItemOrder(600), nil, 0)

	assert.Equal(t, []string{"new_account_large_order"}, result.Flags)
	assert.Equal(t, 40, result.RiskScore)
	assert.Equal(t, fraud.RiskMedium, result.RiskLevel)
	assert.False(t, result.RequiresOTP)
}

func TestDetectSuspiciousBehavior_BothNewAccountRulesFire(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	result := analyzer.DetectSuspiciousBehavior(singleItemOrder(1500), nil, 0)

	assert.Contains(t, result.Flags, "new_account_large_order")
	assert.Contains(t, result.Flags, "very_new_account_large_order")
	assert.Equal(t, 75, result.RiskScore)
	assert.True(t, result.IsFraudulent)
	assert.True(t, result.RequiresOTP)
}

func TestDetectSuspiciousBehavior_OrderFrequencyBands(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	recent := make([]fraud.OrderData, 8)
	for i := range recent {
		recent[i] = singleItemOrder(200)
	}
	result := analyzer.DetectSuspiciousBehavior(singleItemOrder(150), recent, 100)
	assert.Contains(t, result.Flags, "multiple_orders_short_period")
	assert.NotContains(t, result.Flags, "excessive_orders_short_period")

	recent = make([]fraud.OrderData, 11)
	for i := range recent {
		recent[i] = singleItemOrder(200)
	}
	result = analyzer.DetectSuspiciousBehavior(singleItemOrder(150), recent, 100)
	assert.Contains(t, result.Flags, "excessive_orders_short_period")
	assert.NotContains(t, result.Flags, "multiple_orders_short_period")
}

func TestDetectSuspiciousBehavior_SpendEscalation(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	recent := []fraud.OrderData{singleItemOrder(100), singleItemOrder(100)}
	result := analyzer.DetectSuspiciousBehavior(singleItemOrder(600), recent, 100)

	assert.Contains(t, result.Flags, "order_amount_escalation")

	result = analyzer.DetectSuspiciousBehavior(singleItemOrder(400), recent, 100)
	assert.NotContains(t, result.Flags, "order_amount_escalation")
}

func TestDetectSuspiciousBehavior_AddressChurn(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	addresses := []string{
		"1 First St, Pune", "2 Second St, Pune", "3 Third St, Pune",
		"4 Fourth St, Pune", "5 Fifth St, Pune", "",
	}
	recent := make([]fraud.OrderData, len(addresses))
	for i, addr := range addresses {
		recent[i] = singleItemOrder(200)
		recent[i].DeliveryAddress = addr
	}

	order := singleItemOrder(200)
	order.DeliveryAddress = "6 Sixth St, Pune"
	result := analyzer.DetectSuspiciousBehavior(order, recent, 100)

	// Five non-empty past addresses plus the current one crosses the limit;
	// the empty address is ignored.
	assert.Contains(t, result.Flags, "multiple_delivery_addresses")
}

func TestDetectSuspiciousBehavior_PaymentMethodChurn(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	methods := []string{"card", "upi", "netbanking"}
	recent := make([]fraud.OrderData, len(methods))
	for i, method := range methods {
		recent[i] = singleItemOrder(200)
		recent[i].PaymentMethod = method
	}

	order := singleItemOrder(200)
	order.PaymentMethod = "wallet"
	result := analyzer.DetectSuspiciousBehavior(order, recent, 100)

	assert.Contains(t, result.Flags, "multiple_payment_methods")
}

func TestDetectSuspiciousBehavior_CleanHistoryIsLowRisk(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	recent := []fraud.OrderData{singleItemOrder(300)}
	result := analyzer.DetectSuspiciousBehavior(singleItemOrder(320), recent, 200)

	assert.Equal(t, 0, result.RiskScore)
	assert.Equal(t, fraud.RiskLow, result.RiskLevel)
}

// --- Card risk ---

func TestCheckStolenCardRisk_CompromisedSuffix(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())

	for _, lastFour := range []string{"1234", "4321", "0000"} {
		card := fraud.CardDetails{LastFour: lastFour, ExpiryMonth: 12, ExpiryYear: 2030}
		result := analyzer.CheckStolenCardRisk(card, "42 MG Road, Bengaluru", "42 MG Road, Bengaluru")

		assert.Contains(t, result.Flags, "potentially_compromised_card", "last four %s", lastFour)
		assert.Equal(t, fraud.RiskHigh, result.RiskLevel)
		assert.True(t, result.IsFraudulent)
		assert.True(t, result.RequiresOTP)
	}
}

func TestCheckStolenCardRisk_AddressMismatch(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon())
	card := fraud.CardDetails{LastFour: "5678", ExpiryMonth: 12, ExpiryYear: 2030}

	result := analyzer.CheckStolenCardRisk(card, "7 Park Ave, Mumbai", "42 MG Road, Bengaluru")
	assert.Equal(t, []string{"address_mismatch"}, result.Flags)
	assert.Equal(t, fraud.RiskMedium, result.RiskLevel)
	assert.False(t, result.RequiresOTP)

	// Same street, different city: only the first comma-delimited segment counts.
	result = analyzer.CheckStolenCardRisk(card, "42 MG Road, Mumbai", "42 MG Road, Bengaluru")
	assert.NotContains(t, result.Flags, "address_mismatch")

	// An empty billing address cannot mismatch anything.
	result = analyzer.CheckStolenCardRisk(card, "", "42 MG Road, Bengaluru")
	assert.NotContains(t, result.Flags, "address_mismatch")
}

func TestCheckStolenCardRisk_NearExpiry(t *testing.T) {
	analyzer := fraud.NewAnalyzer(afternoon()) // pinned to 2026-03-10
	card := fraud.CardDetails{LastFour: "5678", ExpiryMonth: 4, ExpiryYear: 2026}

	result := analyzer.CheckStolenCardRisk(card, "42 MG Road, Bengaluru", "42 MG Road, Bengaluru")

	assert.Equal(t, []string{"card_near_expiry"}, result.Flags)
	assert.Equal(t, 5, result.RiskScore)
	assert.Equal(t, fraud.RiskLow, result.RiskLevel)
}

// --- Luhn ---

func TestValidateCardNumber(t *testing.T) {
	assert.True(t, fraud.ValidateCardNumber("4532015112830366"))
	assert.True(t, fraud.ValidateCardNumber("4532-0151-1283-0366"))
	assert.False(t, fraud.ValidateCardNumber("1234567812345678"))
	assert.False(t, fraud.ValidateCardNumber(""))
	assert.False(t, fraud.ValidateCardNumber("   "))
	assert.False(t, fraud.ValidateCardNumber("no digits here"))
}
