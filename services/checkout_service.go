package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront-service/fraud"
	"storefront-service/kafka"
	"storefront-service/models"
	awspkg "storefront-service/pkg/aws"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	idempotencyTTL    = 24 * time.Hour
	recentOrderWindow = 20
)

// IdempotencyStore records which idempotency keys already produced an order.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error
}

// CheckoutResult is the outcome of a checkout attempt: either a placed order
// or a step-up challenge the caller must complete first.
type CheckoutResult struct {
	Order       *models.Order        `json:"order,omitempty"`
	Challenge   *models.OTPChallenge `json:"challenge,omitempty"`
	RequiresOTP bool                 `json:"requires_otp"`
}

// CheckoutService turns a cart into an order, gated by risk scoring.
type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*CheckoutResult, *ServiceError)
	VerifyOTP(ctx context.Context, userID uuid.UUID, req *models.VerifyOTPRequest) (*models.Order, *ServiceError)
}

type checkoutServiceImpl struct {
	carts       CartStore
	idempotency IdempotencyStore
	orders      repository.OrderRepository
	users       repository.UserRepository
	coupons     repository.CouponRepository
	analyzer    *fraud.Analyzer
	otp         OTPService
	producer    kafka.ProducerAPI
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService. Kafka and SNS publishers
// are optional; order placement never fails on a publish error.
func NewCheckoutService(
	carts CartStore,
	idempotency IdempotencyStore,
	orders repository.OrderRepository,
	users repository.UserRepository,
	coupons repository.CouponRepository,
	analyzer *fraud.Analyzer,
	otp OTPService,
	producer kafka.ProducerAPI,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:       carts,
		idempotency: idempotency,
		orders:      orders,
		users:       users,
		coupons:     coupons,
		analyzer:    analyzer,
		otp:         otp,
		producer:    producer,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// Checkout validates the cart and coupon, scores the order for risk and
// either places it, demands a passcode, or rejects it outright.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*CheckoutResult, *ServiceError) {
	if req.IdempotencyKey != "" {
		if existing, svcErr := s.replayIdempotent(ctx, req.IdempotencyKey); svcErr != nil {
			return nil, svcErr
		} else if existing != nil {
			return &CheckoutResult{Order: existing}, nil
		}
	}

	cart, err := s.carts.GetCart(ctx, userID.String())
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
	}

	if req.PaymentMethod == "card" && req.CardNumber != "" && !fraud.ValidateCardNumber(req.CardNumber) {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid card number"}
	}

	var coupon *models.Coupon
	var discount float64
	totals := cart.Totals(0)
	if req.PromoCode != "" {
		coupon, discount = s.applyCoupon(ctx, req.PromoCode, totals.Subtotal)
		if coupon == nil {
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid or expired promo code"}
		}
		totals = cart.Totals(discount)
	}

	verdict := s.scoreOrder(ctx, user, cart, req, totals.Total)

	order := s.buildOrder(userID, cart, req, coupon, totals, verdict)

	if verdict.IsFraudulent {
		s.logger.Warn("Checkout rejected by risk scoring",
			zap.String("user_id", userID.String()),
			zap.Int("risk_score", verdict.RiskScore),
			zap.Strings("flags", verdict.Flags),
		)
		return nil, &ServiceError{StatusCode: 403, Message: "Order flagged as fraudulent"}
	}

	if verdict.RequiresOTP {
		challenge, svcErr := s.otp.CreateChallenge(ctx, userID.String(), order, string(verdict.RiskLevel), verdict.Flags)
		if svcErr != nil {
			return nil, svcErr
		}
		s.logger.Info("Checkout requires verification",
			zap.String("user_id", userID.String()),
			zap.String("challenge_id", challenge.ChallengeID),
			zap.Int("risk_score", verdict.RiskScore),
		)
		return &CheckoutResult{Challenge: challenge, RequiresOTP: true}, nil
	}

	if svcErr := s.placeOrder(ctx, order); svcErr != nil {
		return nil, svcErr
	}
	return &CheckoutResult{Order: order}, nil
}

// VerifyOTP completes a challenged checkout and places the held-back order.
func (s *checkoutServiceImpl) VerifyOTP(ctx context.Context, userID uuid.UUID, req *models.VerifyOTPRequest) (*models.Order, *ServiceError) {
	order, svcErr := s.otp.VerifyChallenge(ctx, userID.String(), req.ChallengeID, req.Code)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.placeOrder(ctx, order); svcErr != nil {
		return nil, svcErr
	}
	return order, nil
}

// replayIdempotent returns the order a key already produced, if any.
func (s *checkoutServiceImpl) replayIdempotent(ctx context.Context, key string) (*models.Order, *ServiceError) {
	orderID, err := s.idempotency.GetIdempotency(ctx, key)
	if err != nil {
		s.logger.Error("Failed idempotency lookup", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to process checkout"}
	}
	if orderID == "" {
		// The Redis record may have expired; the unique index on the
		// orders table is the durable fallback.
		order, err := s.orders.FindByIdempotencyKey(ctx, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			s.logger.Error("Failed idempotency lookup", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to process checkout"}
		}
		return order, nil
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, nil
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load replayed order", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to process checkout"}
	}
	return order, nil
}

// applyCoupon looks up and validates a promo code against the subtotal.
// Returns nil when the code cannot be applied.
func (s *checkoutServiceImpl) applyCoupon(ctx context.Context, code string, subtotal float64) (*models.Coupon, float64) {
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, 0
	}
	if time.Now().After(coupon.ExpiresAt) {
		return nil, 0
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, 0
	}
	if subtotal < coupon.MinOrderValue {
		return nil, 0
	}
	return coupon, coupon.Discount(subtotal)
}

// scoreOrder runs the three risk evaluations and merges their verdicts. The
// recorded score is the highest of the three; flags accumulate across all.
func (s *checkoutServiceImpl) scoreOrder(ctx context.Context, user *models.User, cart *models.Cart, req *models.CheckoutRequest, total float64) fraud.Result {
	orderData := fraud.OrderData{
		UserID:          user.ID.String(),
		TotalAmount:     total,
		Items:           cartToFraudItems(cart),
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	if req.CardDetails != nil {
		orderData.CardDetails = &fraud.CardDetails{
			LastFour:    req.CardDetails.LastFour,
			ExpiryMonth: req.CardDetails.ExpiryMonth,
			ExpiryYear:  req.CardDetails.ExpiryYear,
		}
	}

	verdict := s.analyzer.AnalyzeOrderRisk(orderData)

	recent, err := s.orders.FindRecentByUserID(ctx, user.ID, recentOrderWindow)
	if err != nil {
		s.logger.Error("Failed to load order history for scoring", zap.Error(err))
		recent = nil
	}
	behavior := s.analyzer.DetectSuspiciousBehavior(orderData, ordersToFraudData(recent), user.AccountAgeDays(time.Now()))
	verdict = mergeVerdicts(verdict, behavior)

	if orderData.CardDetails != nil {
		billing := req.BillingAddress
		if billing == "" {
			billing = req.DeliveryAddress
		}
		card := s.analyzer.CheckStolenCardRisk(*orderData.CardDetails, billing, req.DeliveryAddress)
		verdict = mergeVerdicts(verdict, card)
	}

	return verdict
}

// mergeVerdicts combines two evaluation results, keeping the worst of each.
func mergeVerdicts(a, b fraud.Result) fraud.Result {
	merged := a
	if b.RiskScore > merged.RiskScore {
		merged.RiskScore = b.RiskScore
	}
	if riskRank(b.RiskLevel) > riskRank(merged.RiskLevel) {
		merged.RiskLevel = b.RiskLevel
	}
	merged.IsFraudulent = a.IsFraudulent || b.IsFraudulent
	merged.RequiresOTP = a.RequiresOTP || b.RequiresOTP
	merged.Flags = append(append([]string{}, a.Flags...), b.Flags...)
	return merged
}

func riskRank(level fraud.RiskLevel) int {
	switch level {
	case fraud.RiskHigh:
		return 2
	case fraud.RiskMedium:
		return 1
	default:
		return 0
	}
}

// buildOrder assembles the order record without persisting it.
func (s *checkoutServiceImpl) buildOrder(userID uuid.UUID, cart *models.Cart, req *models.CheckoutRequest, coupon *models.Coupon, totals models.CartTotals, verdict fraud.Result) *models.Order {
	orderID := uuid.New()
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.OrderItem{
			ID:       uuid.New(),
			OrderID:  orderID,
			ItemID:   item.ItemID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	order := &models.Order{
		ID:                orderID,
		UserID:            userID,
		RestaurantID:      cart.RestaurantID,
		RestaurantName:    cart.RestaurantName,
		DeliveryAddress:   req.DeliveryAddress,
		PaymentMethod:     req.PaymentMethod,
		Subtotal:          totals.Subtotal,
		DeliveryFee:       totals.DeliveryFee,
		ServiceFee:        totals.ServiceFee,
		PromoDiscount:     totals.PromoDiscount,
		Total:             totals.Total,
		Status:            models.OrderStatusPending,
		EstimatedDelivery: "30-45 min",
		RiskScore:         verdict.RiskScore,
		RiskLevel:         string(verdict.RiskLevel),
		Items:             items,
	}
	if req.IdempotencyKey != "" {
		// Nullable on purpose: keyless orders must not collide on the
		// unique index.
		order.IdempotencyKey = &req.IdempotencyKey
	}
	if coupon != nil {
		order.PromoCode = coupon.Code
	}
	return order
}

// placeOrder persists the order and fans out the checkout event. Publishing
// is best-effort; the order stands once it is in Postgres.
func (s *checkoutServiceImpl) placeOrder(ctx context.Context, order *models.Order) *ServiceError {
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("Failed to persist order", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to place order"}
	}

	if order.PromoCode != "" {
		if err := s.coupons.IncrementUsedCount(ctx, order.PromoCode); err != nil {
			s.logger.Error("Failed to count coupon usage",
				zap.String("code", order.PromoCode), zap.Error(err))
		}
	}

	if order.IdempotencyKey != nil {
		if err := s.idempotency.SetIdempotency(ctx, *order.IdempotencyKey, order.ID.String(), idempotencyTTL); err != nil {
			s.logger.Error("Failed to record idempotency key", zap.Error(err))
		}
	}

	s.publishCheckoutEvent(ctx, order)

	if err := s.carts.DeleteCart(ctx, order.UserID.String()); err != nil {
		s.logger.Error("Failed to clear cart after checkout", zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID.String()),
		zap.Float64("total", order.Total),
		zap.Int("risk_score", order.RiskScore),
	)
	return nil
}

// publishCheckoutEvent sends the event to Kafka and mirrors it to SNS.
func (s *checkoutServiceImpl) publishCheckoutEvent(ctx context.Context, order *models.Order) {
	event := models.CheckoutEvent{
		OrderID:      order.ID.String(),
		UserID:       order.UserID.String(),
		RestaurantID: order.RestaurantID,
		Total:        order.Total,
		Timestamp:    time.Now(),
	}
	if order.IdempotencyKey != nil {
		event.IdempotencyKey = *order.IdempotencyKey
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, models.CheckoutItem{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	if s.producer != nil {
		if err := s.producer.SendCheckoutEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish checkout event to Kafka", zap.Error(err))
		}
	}

	if s.snsClient != nil && s.snsTopicArn != "" {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
			s.logger.Error("Failed to publish checkout event to SNS", zap.Error(err))
		}
	}
}

func cartToFraudItems(cart *models.Cart) []fraud.OrderItem {
	items := make([]fraud.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, fraud.OrderItem{
			ItemID:    item.ItemID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return items
}

func ordersToFraudData(orders []models.Order) []fraud.OrderData {
	data := make([]fraud.OrderData, 0, len(orders))
	for _, o := range orders {
		data = append(data, fraud.OrderData{
			UserID:          o.UserID.String(),
			TotalAmount:     o.Total,
			DeliveryAddress: o.DeliveryAddress,
			PaymentMethod:   o.PaymentMethod,
		})
	}
	return data
}
