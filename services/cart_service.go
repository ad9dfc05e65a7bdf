package services

import (
	"context"

	"storefront-service/models"

	"go.uber.org/zap"
)

// CartStore is the Redis-backed cart persistence used by the cart and
// checkout services.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

// CartView is a cart together with its computed fee breakdown.
type CartView struct {
	Cart   *models.Cart      `json:"cart"`
	Totals models.CartTotals `json:"totals"`
}

// CartService manages the per-user cart.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*CartView, *ServiceError)
	AddItem(ctx context.Context, userID string, req *models.AddCartItemRequest) (*CartView, *ServiceError)
	SetItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*CartView, *ServiceError)
	RemoveItem(ctx context.Context, userID, itemID string) (*CartView, *ServiceError)
	ClearCart(ctx context.Context, userID string) *ServiceError
}

type cartServiceImpl struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store CartStore, logger *zap.Logger) CartService {
	return &cartServiceImpl{store: store, logger: logger}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*CartView, *ServiceError) {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	return s.view(cart), nil
}

// AddItem adds an item to the cart. A cart holds items from a single
// restaurant; adding from a different restaurant starts a fresh cart.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *models.AddCartItemRequest) (*CartView, *ServiceError) {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}

	if cart == nil || cart.RestaurantID != req.RestaurantID {
		cart = &models.Cart{
			UserID:         userID,
			RestaurantID:   req.RestaurantID,
			RestaurantName: req.RestaurantName,
			Items:          []models.CartItem{},
		}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ItemID == req.Item.ItemID {
			cart.Items[i].Quantity += req.Item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, req.Item)
	}

	if err := s.store.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return s.view(cart), nil
}

// SetItemQuantity updates a line item quantity. Setting it to zero removes
// the item.
func (s *cartServiceImpl) SetItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*CartView, *ServiceError) {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart is empty"}
	}

	found := false
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ItemID == itemID {
			found = true
			if quantity <= 0 {
				continue
			}
			item.Quantity = quantity
		}
		items = append(items, item)
	}
	if !found {
		return nil, &ServiceError{StatusCode: 404, Message: "Item not in cart"}
	}
	cart.Items = items

	if len(cart.Items) == 0 {
		if err := s.store.DeleteCart(ctx, userID); err != nil {
			s.logger.Error("Failed to clear cart", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
		}
		return s.view(&models.Cart{UserID: userID, Items: []models.CartItem{}}), nil
	}

	if err := s.store.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return s.view(cart), nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, itemID string) (*CartView, *ServiceError) {
	return s.SetItemQuantity(ctx, userID, itemID, 0)
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) *ServiceError {
	if err := s.store.DeleteCart(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to clear cart"}
	}
	return nil
}

func (s *cartServiceImpl) view(cart *models.Cart) *CartView {
	return &CartView{Cart: cart, Totals: cart.Totals(0)}
}
