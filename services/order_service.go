package services

import (
	"context"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService exposes order history and lifecycle transitions.
type OrderService interface {
	ListOrders(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, *ServiceError)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) *ServiceError
	ConfirmOrder(ctx context.Context, orderID uuid.UUID) error
}

type orderServiceImpl struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderServiceImpl{orders: orders, logger: logger}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list orders"}
	}
	return orders, total, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if order.UserID != userID {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	return order, nil
}

// CancelOrder cancels an order that has not been delivered yet.
func (s *orderServiceImpl) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) *ServiceError {
	order, svcErr := s.GetOrder(ctx, userID, orderID)
	if svcErr != nil {
		return svcErr
	}

	switch order.Status {
	case models.OrderStatusDelivered:
		return &ServiceError{StatusCode: 409, Message: "Order already delivered"}
	case models.OrderStatusCancelled:
		return &ServiceError{StatusCode: 409, Message: "Order already cancelled"}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		s.logger.Error("Failed to cancel order", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to cancel order"}
	}

	s.logger.Info("Order cancelled", zap.String("order_id", orderID.String()))
	return nil
}

// ConfirmOrder moves a pending order to confirmed. Called by the checkout
// event consumer; redelivered events are a no-op.
func (s *orderServiceImpl) ConfirmOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusPending {
		s.logger.Debug("Skipping confirm for non-pending order",
			zap.String("order_id", orderID.String()),
			zap.String("status", order.Status),
		)
		return nil
	}

	if err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusConfirmed); err != nil {
		return err
	}
	s.logger.Info("Order confirmed", zap.String("order_id", orderID.String()))
	return nil
}
