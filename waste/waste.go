// Package waste holds the food-waste and inventory estimation formulas behind
// the sustainability features: demand forecasting, optimal stock levels,
// waste-reduction deals and the per-user impact summary shown on the profile
// page. Everything here is a pure computation over catalog and order data.
package waste

import (
	"math"
	"time"
)

// Ingredient describes one ingredient of a menu item together with its stock
// position at the restaurant.
type Ingredient struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Quantity            float64 `json:"quantity"`
	Unit                string  `json:"unit"`
	ShelfLifeHours      float64 `json:"shelf_life_hours"`
	CurrentStock        float64 `json:"current_stock"`
	ReorderPoint        float64 `json:"reorder_point"`
	SustainabilityScore float64 `json:"sustainability_score"`
}

// MenuItem is a dish on a restaurant menu.
type MenuItem struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Ingredients         []Ingredient `json:"ingredients"`
	PopularityScore     float64      `json:"popularity_score"`
	ShelfLifeHours      float64      `json:"shelf_life_hours"`
	SustainabilityScore float64      `json:"sustainability_score"`
}

// OrderLine is a menu item + quantity inside a past order.
type OrderLine struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// PastOrder is the slice of an historical order the formulas care about.
type PastOrder struct {
	ID           string      `json:"id"`
	RestaurantID string      `json:"restaurant_id"`
	Items        []OrderLine `json:"items"`
	OrderTime    time.Time   `json:"order_time"`
}

// ReductionEstimate summarises the effect of moving from current to optimal
// inventory levels.
type ReductionEstimate struct {
	TotalCurrentWaste    float64            `json:"total_current_waste"`
	TotalOptimizedWaste  float64            `json:"total_optimized_waste"`
	ReductionPercentage  float64            `json:"reduction_percentage"`
	SavingsPerIngredient map[string]float64 `json:"savings_per_ingredient"`
}

// PortionRecommendation is the outcome of portion-size optimization for one
// menu item.
type PortionRecommendation struct {
	CurrentSustainability   float64 `json:"current_sustainability"`
	OptimizedSustainability float64 `json:"optimized_sustainability"`
	RecommendedReductionPct float64 `json:"recommended_reduction_pct"`
	WasteReduction          float64 `json:"waste_reduction"`
}

// EnvironmentalImpact expresses a waste reduction in environmental terms.
type EnvironmentalImpact struct {
	CO2SavedKg       float64 `json:"co2_saved_kg"`
	WaterSavedLiters float64 `json:"water_saved_liters"`
	LandSavedSqm     float64 `json:"land_saved_sqm"`
}

// Deal is a suggested discount on a menu item whose ingredients are close to
// expiring.
type Deal struct {
	MenuItemID          string `json:"menu_item_id"`
	DiscountPercentage  int    `json:"discount_percentage"`
	ExpirationTimeframe string `json:"expiration_timeframe"`
	Reason              string `json:"reason"`
}

// UserImpact is the sustainability summary for a single user's order history.
type UserImpact struct {
	TotalOrdersPlaced     int     `json:"total_orders_placed"`
	AverageSustainability float64 `json:"average_sustainability"`
	TotalWasteReduction   float64 `json:"total_waste_reduction"`
	CO2Impact             float64 `json:"co2_impact"`
	WaterSaved            float64 `json:"water_saved"`
}

// Per-kg environmental footprint of wasted food.
const (
	co2PerKgFoodWaste   = 2.5
	waterPerKgFoodWaste = 1000
	landPerKgFoodWaste  = 0.5
)

// SustainabilityScore averages the ingredient scores of a menu item, rounded
// to the nearest integer. An item without ingredients scores zero.
func SustainabilityScore(item MenuItem) int {
	if len(item.Ingredients) == 0 {
		return 0
	}
	var total float64
	for _, ing := range item.Ingredients {
		total += ing.SustainabilityScore
	}
	return int(math.Round(total / float64(len(item.Ingredients))))
}

// PredictIngredientDemand forecasts per-ingredient demand over the coming
// daysToForecast days from historical orders. The forecast is the average
// daily usage observed across the distinct days in pastOrders, scaled by the
// forecast horizon.
func PredictIngredientDemand(menuItems []MenuItem, pastOrders []PastOrder, daysToForecast int) map[string]float64 {
	demand := map[string]float64{}
	itemsByID := map[string]MenuItem{}
	for _, item := range menuItems {
		itemsByID[item.ID] = item
		for _, ing := range item.Ingredients {
			demand[ing.ID] = 0
		}
	}

	days := map[string]struct{}{}
	for _, order := range pastOrders {
		days[order.OrderTime.UTC().Format("2006-01-02")] = struct{}{}
	}
	if len(days) == 0 {
		return demand
	}

	uniqueDays := float64(len(days))
	for _, order := range pastOrders {
		for _, line := range order.Items {
			item, ok := itemsByID[line.MenuItemID]
			if !ok {
				continue
			}
			for _, ing := range item.Ingredients {
				demand[ing.ID] += ing.Quantity * float64(line.Quantity) / uniqueDays
			}
		}
	}

	for id := range demand {
		demand[id] *= float64(daysToForecast)
	}
	return demand
}

// OptimalInventory computes the stock level per ingredient that covers the
// predicted demand with a 30% safety buffer while respecting shelf life, so
// perishables are never stocked beyond what can be used before they spoil.
func OptimalInventory(ingredients []Ingredient, predictedDemand map[string]float64) map[string]float64 {
	optimal := map[string]float64{}
	for _, ing := range ingredients {
		dailyDemand := predictedDemand[ing.ID]
		safetyStock := dailyDemand * 0.3
		shelfLifeCap := dailyDemand * (ing.ShelfLifeHours / 24) * 0.9
		optimal[ing.ID] = math.Min(dailyDemand+safetyStock, shelfLifeCap)
	}
	return optimal
}

// EstimateReduction compares waste under current versus optimal inventory.
// Stock above the reorder point is assumed to spoil at a rate that doubles
// for ingredients with less than two days of shelf life.
func EstimateReduction(currentInventory, optimalInventory map[string]float64, ingredients []Ingredient) ReductionEstimate {
	estimate := ReductionEstimate{SavingsPerIngredient: map[string]float64{}}

	for _, ing := range ingredients {
		current := currentInventory[ing.ID]
		optimal := optimalInventory[ing.ID]

		currentRate, optimizedRate := 0.1, 0.05
		if ing.ShelfLifeHours < 48 {
			currentRate, optimizedRate = 0.2, 0.1
		}

		currentWaste := math.Max(0, current-ing.ReorderPoint) * currentRate
		optimizedWaste := math.Max(0, optimal-ing.ReorderPoint) * optimizedRate

		estimate.TotalCurrentWaste += currentWaste
		estimate.TotalOptimizedWaste += optimizedWaste
		estimate.SavingsPerIngredient[ing.ID] = currentWaste - optimizedWaste
	}

	if estimate.TotalCurrentWaste > 0 {
		estimate.ReductionPercentage = (estimate.TotalCurrentWaste - estimate.TotalOptimizedWaste) /
			estimate.TotalCurrentWaste * 100
	}
	return estimate
}

// OptimizePortionSizes recommends how much a portion can shrink given the
// share of the dish customers typically finish. The target is 95% consumption
// and the reduction is capped at 15% to avoid leaving customers hungry.
func OptimizePortionSizes(item MenuItem, averageConsumptionRate float64) PortionRecommendation {
	currentWastePct := 100 - averageConsumptionRate

	const idealConsumptionRate = 95.0
	possibleReduction := math.Max(0, (idealConsumptionRate-averageConsumptionRate)/averageConsumptionRate)
	recommendedReduction := math.Min(possibleReduction, 0.15)

	newWastePct := 100 - averageConsumptionRate*(1+recommendedReduction)
	wasteReduction := math.Max(0, currentWastePct-newWastePct)

	return PortionRecommendation{
		CurrentSustainability:   item.SustainabilityScore,
		OptimizedSustainability: math.Min(100, item.SustainabilityScore+wasteReduction*0.5),
		RecommendedReductionPct: recommendedReduction * 100,
		WasteReduction:          wasteReduction,
	}
}

// Impact converts a waste reduction in kilograms into CO2, water and land
// savings using average footprints per kg of wasted food.
func Impact(wasteReductionKg float64) EnvironmentalImpact {
	return EnvironmentalImpact{
		CO2SavedKg:       wasteReductionKg * co2PerKgFoodWaste,
		WaterSavedLiters: wasteReductionKg * waterPerKgFoodWaste,
		LandSavedSqm:     wasteReductionKg * landPerKgFoodWaste,
	}
}

// SuggestDeals scans the menu for items whose overstocked ingredients are
// approaching expiration and proposes a discount sized by urgency.
func SuggestDeals(menuItems []MenuItem, ingredients []Ingredient) []Deal {
	byID := map[string]Ingredient{}
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	deals := []Deal{}
	for _, item := range menuItems {
		var critical []Ingredient
		for _, ref := range item.Ingredients {
			ing, ok := byID[ref.ID]
			if !ok {
				continue
			}
			overstocked := ing.CurrentStock > ing.ReorderPoint*1.5
			// Assume stock is halfway through its shelf life.
			remainingHours := ing.ShelfLifeHours / 2
			if overstocked && remainingHours < 24 {
				critical = append(critical, ing)
			}
		}
		if len(critical) == 0 {
			continue
		}

		mostCritical := critical[0]
		for _, ing := range critical[1:] {
			if ing.ShelfLifeHours < mostCritical.ShelfLifeHours {
				mostCritical = ing
			}
		}

		discount := 15
		timeframe := "today"
		switch {
		case mostCritical.ShelfLifeHours < 12:
			discount = 25
			timeframe = "within 12 hours"
		case mostCritical.ShelfLifeHours < 18:
			discount = 20
		}

		deals = append(deals, Deal{
			MenuItemID:          item.ID,
			DiscountPercentage:  discount,
			ExpirationTimeframe: timeframe,
			Reason:              "Contains " + mostCritical.Name + " which will expire " + timeframe,
		})
	}
	return deals
}

// UserSustainabilityImpact summarises a user's order history: quantity-weighted
// average sustainability of what they ordered, plus the implied waste
// reduction and its environmental impact. An average meal is assumed to
// generate half a kilogram of waste without optimization.
func UserSustainabilityImpact(orders []PastOrder, menuItems map[string]MenuItem) UserImpact {
	if len(orders) == 0 {
		return UserImpact{}
	}

	var totalScore float64
	totalItems := 0
	for _, order := range orders {
		for _, line := range order.Items {
			item, ok := menuItems[line.MenuItemID]
			if !ok {
				continue
			}
			totalScore += item.SustainabilityScore * float64(line.Quantity)
			totalItems += line.Quantity
		}
	}

	var averageScore float64
	if totalItems > 0 {
		averageScore = totalScore / float64(totalItems)
	}

	const averageMealWasteKg = 0.5
	totalReduction := float64(totalItems) * averageMealWasteKg * (averageScore / 100)
	impact := Impact(totalReduction)

	return UserImpact{
		TotalOrdersPlaced:     len(orders),
		AverageSustainability: averageScore,
		TotalWasteReduction:   totalReduction,
		CO2Impact:             impact.CO2SavedKg,
		WaterSaved:            impact.WaterSavedLiters,
	}
}
