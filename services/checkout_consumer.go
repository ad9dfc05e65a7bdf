package services

import (
	"context"
	"encoding/json"

	"storefront-service/models"
	awspkg "storefront-service/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutConsumer polls the checkout queue and confirms orders once the
// checkout event comes back around. Events arrive via the SNS topic the
// checkout flow publishes to, so the SQS body carries an SNS envelope.
type CheckoutConsumer struct {
	consumer *awspkg.SQSConsumer
	orders   OrderService
	logger   *zap.Logger
}

// NewCheckoutConsumer creates a new CheckoutConsumer.
func NewCheckoutConsumer(consumer *awspkg.SQSConsumer, orders OrderService, logger *zap.Logger) *CheckoutConsumer {
	return &CheckoutConsumer{consumer: consumer, orders: orders, logger: logger}
}

// Start begins polling the checkout queue. Blocks until the context is
// cancelled.
func (c *CheckoutConsumer) Start(ctx context.Context) {
	c.logger.Info("Starting checkout queue consumer")

	err := c.consumer.StartPolling(ctx, c.handleMessage)
	if err != nil && err != context.Canceled {
		c.logger.Error("Checkout consumer stopped", zap.Error(err))
	}
}

func (c *CheckoutConsumer) handleMessage(ctx context.Context, body string) error {
	// Unwrap the SNS envelope if present.
	var snsEnvelope struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal([]byte(body), &snsEnvelope); err == nil && snsEnvelope.Message != "" {
		body = snsEnvelope.Message
	}

	var event models.CheckoutEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		// Malformed payloads are dropped rather than retried.
		c.logger.Warn("Dropping malformed checkout event", zap.Error(err))
		return nil
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		c.logger.Warn("Dropping checkout event with invalid order id",
			zap.String("order_id", event.OrderID))
		return nil
	}

	if err := c.orders.ConfirmOrder(ctx, orderID); err != nil {
		c.logger.Error("Failed to confirm order", zap.String("order_id", event.OrderID), zap.Error(err))
		return err
	}
	return nil
}
