package waste_test

import (
	"testing"
	"time"

	"storefront-service/waste"

	"github.com/stretchr/testify/assert"
)

func paneer(shelfLifeHours float64) waste.Ingredient {
	return waste.Ingredient{
		ID:                  "paneer",
		Name:                "Paneer",
		Quantity:            0.2,
		Unit:                "kg",
		ShelfLifeHours:      shelfLifeHours,
		CurrentStock:        10,
		ReorderPoint:        4,
		SustainabilityScore: 60,
	}
}

func TestSustainabilityScore(t *testing.T) {
	item := waste.MenuItem{
		ID: "tikka",
		Ingredients: []waste.Ingredient{
			{ID: "a", SustainabilityScore: 80},
			{ID: "b", SustainabilityScore: 61},
		},
	}
	assert.Equal(t, 71, waste.SustainabilityScore(item))
	assert.Equal(t, 0, waste.SustainabilityScore(waste.MenuItem{ID: "empty"}))
}

func TestPredictIngredientDemand(t *testing.T) {
	menu := []waste.MenuItem{
		{ID: "tikka", Ingredients: []waste.Ingredient{{ID: "paneer", Quantity: 0.2}}},
	}
	// Four units ordered across two distinct days: two units/day on average,
	// so a three day forecast needs 3 * 2 * 0.2 kg of paneer.
	orders := []waste.PastOrder{
		{ID: "o1", Items: []waste.OrderLine{{MenuItemID: "tikka", Quantity: 3}}, OrderTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{ID: "o2", Items: []waste.OrderLine{{MenuItemID: "tikka", Quantity: 1}}, OrderTime: time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)},
	}

	demand := waste.PredictIngredientDemand(menu, orders, 3)

	assert.InDelta(t, 1.2, demand["paneer"], 1e-9)
}

func TestPredictIngredientDemand_NoHistory(t *testing.T) {
	menu := []waste.MenuItem{
		{ID: "tikka", Ingredients: []waste.Ingredient{{ID: "paneer", Quantity: 0.2}}},
	}

	demand := waste.PredictIngredientDemand(menu, nil, 7)

	assert.Equal(t, map[string]float64{"paneer": 0}, demand)
}

func TestOptimalInventory_ShelfLifeCapsPerishables(t *testing.T) {
	// 12h shelf life: cap = demand * 0.5 * 0.9 = 0.45 * demand, well under
	// demand plus the 30% safety stock.
	short := paneer(12)
	long := paneer(96)
	long.ID = "rice"

	optimal := waste.OptimalInventory(
		[]waste.Ingredient{short, long},
		map[string]float64{"paneer": 10, "rice": 10},
	)

	assert.InDelta(t, 4.5, optimal["paneer"], 1e-9)
	assert.InDelta(t, 13.0, optimal["rice"], 1e-9)
}

func TestEstimateReduction(t *testing.T) {
	ing := paneer(24) // perishable: 0.2 current rate, 0.1 optimized

	estimate := waste.EstimateReduction(
		map[string]float64{"paneer": 10},
		map[string]float64{"paneer": 6},
		[]waste.Ingredient{ing},
	)

	// Current: (10-4)*0.2 = 1.2, optimized: (6-4)*0.1 = 0.2.
	assert.InDelta(t, 1.2, estimate.TotalCurrentWaste, 1e-9)
	assert.InDelta(t, 0.2, estimate.TotalOptimizedWaste, 1e-9)
	assert.InDelta(t, 1.0, estimate.SavingsPerIngredient["paneer"], 1e-9)
	assert.InDelta(t, 83.333333, estimate.ReductionPercentage, 1e-4)
}

func TestEstimateReduction_NoWasteMeansZeroPercentage(t *testing.T) {
	ing := paneer(24)

	estimate := waste.EstimateReduction(
		map[string]float64{"paneer": 2},
		map[string]float64{"paneer": 2},
		[]waste.Ingredient{ing},
	)

	assert.Zero(t, estimate.ReductionPercentage)
}

func TestOptimizePortionSizes_CappedAtFifteenPercent(t *testing.T) {
	item := waste.MenuItem{ID: "tikka", SustainabilityScore: 70}

	// 60% consumption leaves plenty of headroom; the recommendation must
	// still be capped at 15%.
	rec := waste.OptimizePortionSizes(item, 60)

	assert.InDelta(t, 15.0, rec.RecommendedReductionPct, 1e-9)
	assert.Greater(t, rec.WasteReduction, 0.0)
	assert.GreaterOrEqual(t, rec.OptimizedSustainability, rec.CurrentSustainability)
}

func TestOptimizePortionSizes_AlreadyCleanPlates(t *testing.T) {
	item := waste.MenuItem{ID: "tikka", SustainabilityScore: 70}

	rec := waste.OptimizePortionSizes(item, 98)

	assert.Zero(t, rec.RecommendedReductionPct)
	assert.Zero(t, rec.WasteReduction)
}

func TestImpact(t *testing.T) {
	impact := waste.Impact(2)

	assert.InDelta(t, 5.0, impact.CO2SavedKg, 1e-9)
	assert.InDelta(t, 2000.0, impact.WaterSavedLiters, 1e-9)
	assert.InDelta(t, 1.0, impact.LandSavedSqm, 1e-9)
}

func TestSuggestDeals(t *testing.T) {
	urgent := paneer(10) // overstocked (10 > 4*1.5) and expiring fast
	fresh := paneer(96)
	fresh.ID = "rice"
	fresh.Name = "Rice"

	menu := []waste.MenuItem{
		{ID: "tikka", Ingredients: []waste.Ingredient{{ID: "paneer"}}},
		{ID: "biryani", Ingredients: []waste.Ingredient{{ID: "rice"}}},
	}

	deals := waste.SuggestDeals(menu, []waste.Ingredient{urgent, fresh})

	assert.Len(t, deals, 1)
	assert.Equal(t, "tikka", deals[0].MenuItemID)
	assert.Equal(t, 25, deals[0].DiscountPercentage)
	assert.Equal(t, "within 12 hours", deals[0].ExpirationTimeframe)
	assert.Contains(t, deals[0].Reason, "Paneer")
}

func TestSuggestDeals_NotOverstocked(t *testing.T) {
	ing := paneer(10)
	ing.CurrentStock = 5 // below the 1.5x reorder point threshold

	menu := []waste.MenuItem{{ID: "tikka", Ingredients: []waste.Ingredient{{ID: "paneer"}}}}

	assert.Empty(t, waste.SuggestDeals(menu, []waste.Ingredient{ing}))
}

func TestUserSustainabilityImpact(t *testing.T) {
	menu := map[string]waste.MenuItem{
		"tikka":   {ID: "tikka", SustainabilityScore: 80},
		"biryani": {ID: "biryani", SustainabilityScore: 60},
	}
	orders := []waste.PastOrder{
		{ID: "o1", Items: []waste.OrderLine{{MenuItemID: "tikka", Quantity: 1}}},
		{ID: "o2", Items: []waste.OrderLine{{MenuItemID: "biryani", Quantity: 3}}},
	}

	impact := waste.UserSustainabilityImpact(orders, menu)

	assert.Equal(t, 2, impact.TotalOrdersPlaced)
	// (80*1 + 60*3) / 4 = 65
	assert.InDelta(t, 65.0, impact.AverageSustainability, 1e-9)
	// 4 items * 0.5kg * 0.65 = 1.3kg
	assert.InDelta(t, 1.3, impact.TotalWasteReduction, 1e-9)
	assert.InDelta(t, 3.25, impact.CO2Impact, 1e-9)
	assert.InDelta(t, 1300.0, impact.WaterSaved, 1e-9)
}

func TestUserSustainabilityImpact_NoOrders(t *testing.T) {
	assert.Equal(t, waste.UserImpact{}, waste.UserSustainabilityImpact(nil, nil))
}
