package services

import (
	"context"

	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
)

// CatalogCache fronts the Mongo catalog with Redis. All methods degrade to
// a miss on error.
type CatalogCache interface {
	GetRestaurantList(ctx context.Context, category, search string) ([]models.Restaurant, bool)
	SetRestaurantListAsync(category, search string, restaurants []models.Restaurant)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, bool)
	SetRestaurantAsync(id string, restaurant *models.Restaurant)
}

// RestaurantService serves the browse surface of the storefront.
type RestaurantService interface {
	ListRestaurants(ctx context.Context, category, search string) ([]models.Restaurant, *ServiceError)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, *ServiceError)
	GetMenu(ctx context.Context, id string) ([]models.MenuItem, *ServiceError)
}

type restaurantServiceImpl struct {
	repo   repository.RestaurantRepository
	cache  CatalogCache
	logger *zap.Logger
}

// NewRestaurantService creates a new RestaurantService. Cache is optional.
func NewRestaurantService(repo repository.RestaurantRepository, cache CatalogCache, logger *zap.Logger) RestaurantService {
	return &restaurantServiceImpl{repo: repo, cache: cache, logger: logger}
}

func (s *restaurantServiceImpl) ListRestaurants(ctx context.Context, category, search string) ([]models.Restaurant, *ServiceError) {
	if s.cache != nil {
		if restaurants, ok := s.cache.GetRestaurantList(ctx, category, search); ok {
			return restaurants, nil
		}
	}

	restaurants, err := s.repo.FindAll(ctx, category, search)
	if err != nil {
		s.logger.Error("Failed to list restaurants", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list restaurants"}
	}

	if s.cache != nil {
		s.cache.SetRestaurantListAsync(category, search, restaurants)
	}
	return restaurants, nil
}

func (s *restaurantServiceImpl) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, *ServiceError) {
	if s.cache != nil {
		if restaurant, ok := s.cache.GetRestaurant(ctx, id); ok {
			return restaurant, nil
		}
	}

	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Restaurant not found"}
	}

	if s.cache != nil {
		s.cache.SetRestaurantAsync(id, restaurant)
	}
	return restaurant, nil
}

func (s *restaurantServiceImpl) GetMenu(ctx context.Context, id string) ([]models.MenuItem, *ServiceError) {
	restaurant, svcErr := s.GetRestaurant(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	return restaurant.Menu, nil
}
