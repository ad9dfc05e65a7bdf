package services

import (
	"context"
	"time"

	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/waste"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RestaurantInsights is the sustainability report for one restaurant.
type RestaurantInsights struct {
	RestaurantID     string                    `json:"restaurant_id"`
	PredictedDemand  map[string]float64        `json:"predicted_demand"`
	OptimalInventory map[string]float64        `json:"optimal_inventory"`
	Reduction        waste.ReductionEstimate   `json:"reduction"`
	Impact           waste.EnvironmentalImpact `json:"impact"`
	Deals            []waste.Deal              `json:"deals"`
}

// SustainabilityService computes waste-reduction insights from the catalog
// and order history.
type SustainabilityService interface {
	GetRestaurantInsights(ctx context.Context, restaurantID string, daysToForecast int) (*RestaurantInsights, *ServiceError)
	GetDeals(ctx context.Context, restaurantID string) ([]waste.Deal, *ServiceError)
	GetUserImpact(ctx context.Context, userID uuid.UUID) (*waste.UserImpact, *ServiceError)
}

type sustainabilityServiceImpl struct {
	restaurants repository.RestaurantRepository
	orders      repository.OrderRepository
	logger      *zap.Logger
}

// NewSustainabilityService creates a new SustainabilityService.
func NewSustainabilityService(restaurants repository.RestaurantRepository, orders repository.OrderRepository, logger *zap.Logger) SustainabilityService {
	return &sustainabilityServiceImpl{restaurants: restaurants, orders: orders, logger: logger}
}

// GetRestaurantInsights runs the full inventory pipeline for a restaurant:
// demand forecast, optimal stock, reduction estimate, environmental impact
// and expiry-driven deals.
func (s *sustainabilityServiceImpl) GetRestaurantInsights(ctx context.Context, restaurantID string, daysToForecast int) (*RestaurantInsights, *ServiceError) {
	if daysToForecast < 1 {
		daysToForecast = 7
	}

	restaurant, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Restaurant not found"}
	}

	menuItems, ingredients := catalogToWaste(restaurant)

	history, err := s.orders.FindRecentByRestaurantID(ctx, restaurantID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		s.logger.Error("Failed to load restaurant order history", zap.Error(err))
		history = nil
	}
	pastOrders := make([]waste.PastOrder, 0, len(history))
	for _, order := range history {
		past := waste.PastOrder{
			ID:           order.ID.String(),
			RestaurantID: order.RestaurantID,
			OrderTime:    order.CreatedAt,
		}
		for _, item := range order.Items {
			past.Items = append(past.Items, waste.OrderLine{
				MenuItemID: item.ItemID,
				Quantity:   item.Quantity,
			})
		}
		pastOrders = append(pastOrders, past)
	}

	demand := waste.PredictIngredientDemand(menuItems, pastOrders, daysToForecast)
	optimal := waste.OptimalInventory(ingredients, demand)

	current := make(map[string]float64, len(ingredients))
	for _, ing := range ingredients {
		current[ing.ID] = ing.CurrentStock
	}
	reduction := waste.EstimateReduction(current, optimal, ingredients)

	return &RestaurantInsights{
		RestaurantID:     restaurantID,
		PredictedDemand:  demand,
		OptimalInventory: optimal,
		Reduction:        reduction,
		Impact:           waste.Impact(reduction.TotalCurrentWaste - reduction.TotalOptimizedWaste),
		Deals:            waste.SuggestDeals(menuItems, ingredients),
	}, nil
}

// GetDeals returns expiry-driven discount suggestions for a restaurant.
func (s *sustainabilityServiceImpl) GetDeals(ctx context.Context, restaurantID string) ([]waste.Deal, *ServiceError) {
	restaurant, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Restaurant not found"}
	}

	menuItems, ingredients := catalogToWaste(restaurant)
	return waste.SuggestDeals(menuItems, ingredients), nil
}

// GetUserImpact summarises the sustainability footprint of a user's order
// history against the current catalog.
func (s *sustainabilityServiceImpl) GetUserImpact(ctx context.Context, userID uuid.UUID) (*waste.UserImpact, *ServiceError) {
	orders, _, err := s.orders.FindByUserID(ctx, userID, 1, 100)
	if err != nil {
		s.logger.Error("Failed to load order history", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to compute impact"}
	}

	restaurants, err := s.restaurants.FindAll(ctx, "", "")
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to compute impact"}
	}

	catalog := make(map[string]waste.MenuItem)
	for i := range restaurants {
		items, _ := catalogToWaste(&restaurants[i])
		for _, item := range items {
			catalog[item.ID] = item
		}
	}

	pastOrders := make([]waste.PastOrder, 0, len(orders))
	for _, order := range orders {
		past := waste.PastOrder{
			ID:           order.ID.String(),
			RestaurantID: order.RestaurantID,
			OrderTime:    order.CreatedAt,
		}
		for _, item := range order.Items {
			past.Items = append(past.Items, waste.OrderLine{
				MenuItemID: item.ItemID,
				Quantity:   item.Quantity,
			})
		}
		pastOrders = append(pastOrders, past)
	}

	impact := waste.UserSustainabilityImpact(pastOrders, catalog)
	return &impact, nil
}

// catalogToWaste converts a catalog document into the waste package's view
// of the menu and the deduplicated ingredient stock list.
func catalogToWaste(restaurant *models.Restaurant) ([]waste.MenuItem, []waste.Ingredient) {
	menuItems := make([]waste.MenuItem, 0, len(restaurant.Menu))
	seen := make(map[string]bool)
	var ingredients []waste.Ingredient

	for _, item := range restaurant.Menu {
		wItem := waste.MenuItem{
			ID:                  item.ID,
			Name:                item.Name,
			PopularityScore:     item.PopularityScore,
			ShelfLifeHours:      item.ShelfLifeHours,
			SustainabilityScore: item.SustainabilityScore,
		}
		for _, ing := range item.Ingredients {
			wIng := waste.Ingredient{
				ID:                  ing.ID,
				Name:                ing.Name,
				Quantity:            ing.Quantity,
				Unit:                ing.Unit,
				ShelfLifeHours:      ing.ShelfLifeHours,
				CurrentStock:        ing.CurrentStock,
				ReorderPoint:        ing.ReorderPoint,
				SustainabilityScore: ing.SustainabilityScore,
			}
			wItem.Ingredients = append(wItem.Ingredients, wIng)
			if !seen[ing.ID] {
				seen[ing.ID] = true
				ingredients = append(ingredients, wIng)
			}
		}
		menuItems = append(menuItems, wItem)
	}
	return menuItems, ingredients
}
