package services

import (
	"context"
	"testing"

	"storefront-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestGetCartReturnsEmptyCartOnMiss(t *testing.T) {
	store := new(MockCartStore)
	svc := NewCartService(store, zap.NewNop())
	store.On("GetCart", mock.Anything, "u1").Return(nil, nil)

	view, svcErr := svc.GetCart(context.Background(), "u1")

	assert.Nil(t, svcErr)
	assert.Empty(t, view.Cart.Items)
	assert.Equal(t, 0.0, view.Totals.Total)
}

func TestAddItemMergesQuantities(t *testing.T) {
	store := new(MockCartStore)
	svc := NewCartService(store, zap.NewNop())
	existing := &models.Cart{
		UserID:       "u1",
		RestaurantID: "rest-1",
		Items: []models.CartItem{
			{ItemID: "item-1", Name: "Thali", UnitPrice: 100, Quantity: 1},
		},
	}
	store.On("GetCart", mock.Anything, "u1").Return(existing, nil)
	store.On("SaveCart", mock.Anything, mock.AnythingOfType("*models.Cart")).Return(nil)

	view, svcErr := svc.AddItem(context.Background(), "u1", &models.AddCartItemRequest{
		RestaurantID: "rest-1",
		Item:         models.CartItem{ItemID: "item-1", Name: "Thali", UnitPrice: 100, Quantity: 2},
	})

	assert.Nil(t, svcErr)
	assert.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 3, view.Cart.Items[0].Quantity)
	assert.Equal(t, 345.0, view.Totals.Total) // 300 + 30 + 15
}

func TestAddItemFromDifferentRestaurantResetsCart(t *testing.T) {
	store := new(MockCartStore)
	svc := NewCartService(store, zap.NewNop())
	existing := &models.Cart{
		UserID:       "u1",
		RestaurantID: "rest-1",
		Items: []models.CartItem{
			{ItemID: "item-1", UnitPrice: 100, Quantity: 2},
		},
	}
	store.On("GetCart", mock.Anything, "u1").Return(existing, nil)
	store.On("SaveCart", mock.Anything, mock.AnythingOfType("*models.Cart")).Return(nil)

	view, svcErr := svc.AddItem(context.Background(), "u1", &models.AddCartItemRequest{
		RestaurantID:   "rest-2",
		RestaurantName: "New Place",
		Item:           models.CartItem{ItemID: "item-9", UnitPrice: 50, Quantity: 1},
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, "rest-2", view.Cart.RestaurantID)
	assert.Len(t, view.Cart.Items, 1)
	assert.Equal(t, "item-9", view.Cart.Items[0].ItemID)
}

func TestSetItemQuantityToZeroRemovesItem(t *testing.T) {
	store := new(MockCartStore)
	svc := NewCartService(store, zap.NewNop())
	existing := &models.Cart{
		UserID:       "u1",
		RestaurantID: "rest-1",
		Items: []models.CartItem{
			{ItemID: "item-1", UnitPrice: 100, Quantity: 2},
			{ItemID: "item-2", UnitPrice: 50, Quantity: 1},
		},
	}
	store.On("GetCart", mock.Anything, "u1").Return(existing, nil)
	store.On("SaveCart", mock.Anything, mock.AnythingOfType("*models.Cart")).Return(nil)

	view, svcErr := svc.SetItemQuantity(context.Background(), "u1", "item-1", 0)

	assert.Nil(t, svcErr)
	assert.Len(t, view.Cart.Items, 1)
	assert.Equal(t, "item-2", view.Cart.Items[0].ItemID)
}

func TestRemovingLastItemDeletesCart(t *testing.T) {
	store := new(MockCartStore)
	svc := NewCartService(store, zap.NewNop())
	existing := &models.Cart{
		UserID:       "u1",
		RestaurantID: "rest-1",
		Items: []models.CartItem{
			{ItemID: "item-1", UnitPrice: 100, Quantity: 2},
		},
	}
	store.On("GetCart", mock.Anything, "u1").Return(existing, nil)
	store.On("DeleteCart", mock.Anything, "u1").Return(nil)

	view, svcErr := svc.RemoveItem(context.Background(), "u1", "item-1")

	assert.Nil(t, svcErr)
	assert.Empty(t, view.Cart.Items)
	assert.Equal(t, 0.0, view.Totals.Total)
	store.AssertCalled(t, "DeleteCart", mock.Anything, "u1")
}

func TestSetItemQuantityUnknownItem(t *testing.T) {
	store := new(MockCartStore)
	svc := NewCartService(store, zap.NewNop())
	existing := &models.Cart{
		UserID:       "u1",
		RestaurantID: "rest-1",
		Items: []models.CartItem{
			{ItemID: "item-1", UnitPrice: 100, Quantity: 2},
		},
	}
	store.On("GetCart", mock.Anything, "u1").Return(existing, nil)

	_, svcErr := svc.SetItemQuantity(context.Background(), "u1", "missing", 3)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
