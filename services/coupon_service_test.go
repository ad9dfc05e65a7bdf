package services

import (
	"context"
	"testing"
	"time"

	"storefront-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func activeCoupon(code string, typ models.CouponType, value float64) *models.Coupon {
	return &models.Coupon{
		Code:      code,
		Type:      typ,
		Value:     value,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		Active:    true,
	}
}

func TestCreateCouponRejectsPastExpiry(t *testing.T) {
	repo := new(MockCouponRepo)
	svc := NewCouponService(repo, zap.NewNop())

	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		Code:      "OLD",
		Type:      models.CouponTypeFixed,
		Value:     50,
		ExpiresAt: time.Now().Add(-time.Hour),
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCouponRejectsOversizedPercentage(t *testing.T) {
	repo := new(MockCouponRepo)
	svc := NewCouponService(repo, zap.NewNop())

	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		Code:      "TOOBIG",
		Type:      models.CouponTypePercentage,
		Value:     150,
		ExpiresAt: time.Now().Add(time.Hour),
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCreateCouponUppercasesCode(t *testing.T) {
	repo := new(MockCouponRepo)
	svc := NewCouponService(repo, zap.NewNop())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Coupon")).Return(nil)

	coupon, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		Code:      "save10",
		Type:      models.CouponTypePercentage,
		Value:     10,
		ExpiresAt: time.Now().Add(time.Hour),
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.True(t, coupon.Active)
}

func TestValidateCouponPercentage(t *testing.T) {
	repo := new(MockCouponRepo)
	svc := NewCouponService(repo, zap.NewNop())
	repo.On("FindByCode", mock.Anything, "SAVE10").Return(activeCoupon("SAVE10", models.CouponTypePercentage, 10), nil)

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "SAVE10",
		CartTotal: 500,
	})

	assert.Nil(t, svcErr)
	assert.True(t, resp.Valid)
	assert.Equal(t, 50.0, resp.DiscountAmount)
}

func TestValidateCouponFixedCappedAtTotal(t *testing.T) {
	repo := new(MockCouponRepo)
	svc := NewCouponService(repo, zap.NewNop())
	repo.On("FindByCode", mock.Anything, "FLAT100").Return(activeCoupon("FLAT100", models.CouponTypeFixed, 100), nil)

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "FLAT100",
		CartTotal: 60,
	})

	assert.Nil(t, svcErr)
	assert.True(t, resp.Valid)
	assert.Equal(t, 60.0, resp.DiscountAmount)
}

func TestValidateCouponBelowMinimum(t *testing.T) {
	repo := new(MockCouponRepo)
	svc := NewCouponService(repo, zap.NewNop())
	coupon := activeCoupon("BIG", models.CouponTypeFixed, 100)
	coupon.MinOrderValue = 500
	repo.On("FindByCode", mock.Anything, "BIG").Return(coupon, nil)

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "BIG",
		CartTotal: 200,
	})

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
}

func TestValidateCouponUsageLimitReached(t *testing.T) {
	repo := new(MockCouponRepo)
	svc := NewCouponService(repo, zap.NewNop())
	coupon := activeCoupon("LIMITED", models.CouponTypeFixed, 25)
	coupon.UsageLimit = 5
	coupon.UsedCount = 5
	repo.On("FindByCode", mock.Anything, "LIMITED").Return(coupon, nil)

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "LIMITED",
		CartTotal: 200,
	})

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Equal(t, "Coupon usage limit reached", resp.Message)
}

func TestValidateCouponNotFound(t *testing.T) {
	repo := new(MockCouponRepo)
	svc := NewCouponService(repo, zap.NewNop())
	repo.On("FindByCode", mock.Anything, "NOPE").Return(nil, assert.AnError)

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "NOPE",
		CartTotal: 200,
	})

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
}
