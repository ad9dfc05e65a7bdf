package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"storefront-service/models"
	awspkg "storefront-service/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 3
)

// ChallengeStore is the Redis-backed storage for pending OTP challenges.
type ChallengeStore interface {
	SaveChallenge(ctx context.Context, challengeID string, payload []byte, ttl time.Duration) error
	GetChallenge(ctx context.Context, challengeID string) ([]byte, error)
	DeleteChallenge(ctx context.Context, challengeID string) error
}

// otpChallenge is the stored state of a step-up verification, including the
// order held back until the passcode is confirmed.
type otpChallenge struct {
	ChallengeID string       `json:"challenge_id"`
	UserID      string       `json:"user_id"`
	Code        string       `json:"code"`
	Attempts    int          `json:"attempts"`
	ExpiresAt   time.Time    `json:"expires_at"`
	RiskLevel   string       `json:"risk_level"`
	Flags       []string     `json:"flags"`
	Order       models.Order `json:"order"`
}

// OTPService issues and verifies one-time passcodes for risky checkouts.
type OTPService interface {
	CreateChallenge(ctx context.Context, userID string, order *models.Order, riskLevel string, flags []string) (*models.OTPChallenge, *ServiceError)
	VerifyChallenge(ctx context.Context, userID, challengeID, code string) (*models.Order, *ServiceError)
}

type otpServiceImpl struct {
	store       ChallengeStore
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewOTPService creates a new OTPService. The SNS client is optional; when
// absent, codes are only logged.
func NewOTPService(store ChallengeStore, snsClient awspkg.SNSPublisher, snsTopicArn string, logger *zap.Logger) OTPService {
	return &otpServiceImpl{
		store:       store,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// CreateChallenge generates a passcode, stores the pending order and sends
// the code out of band.
func (s *otpServiceImpl) CreateChallenge(ctx context.Context, userID string, order *models.Order, riskLevel string, flags []string) (*models.OTPChallenge, *ServiceError) {
	code, err := generateOTPCode()
	if err != nil {
		s.logger.Error("Failed to generate passcode", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to start verification"}
	}

	challenge := otpChallenge{
		ChallengeID: uuid.NewString(),
		UserID:      userID,
		Code:        code,
		ExpiresAt:   time.Now().Add(otpTTL),
		RiskLevel:   riskLevel,
		Flags:       flags,
		Order:       *order,
	}

	payload, err := json.Marshal(challenge)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to start verification"}
	}
	if err := s.store.SaveChallenge(ctx, challenge.ChallengeID, payload, otpTTL); err != nil {
		s.logger.Error("Failed to store challenge", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to start verification"}
	}

	s.deliverCode(ctx, userID, challenge.ChallengeID, code)

	return &models.OTPChallenge{
		ChallengeID: challenge.ChallengeID,
		ExpiresAt:   challenge.ExpiresAt,
		RiskLevel:   riskLevel,
		Flags:       flags,
	}, nil
}

// VerifyChallenge checks the passcode and, on success, releases the pending
// order for placement. Wrong codes burn an attempt; the challenge is revoked
// once attempts run out.
func (s *otpServiceImpl) VerifyChallenge(ctx context.Context, userID, challengeID, code string) (*models.Order, *ServiceError) {
	payload, err := s.store.GetChallenge(ctx, challengeID)
	if err != nil {
		s.logger.Error("Failed to load challenge", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to verify passcode"}
	}
	if payload == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Verification expired or not found"}
	}

	var challenge otpChallenge
	if err := json.Unmarshal(payload, &challenge); err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to verify passcode"}
	}

	if challenge.UserID != userID {
		return nil, &ServiceError{StatusCode: 403, Message: "Verification does not belong to this user"}
	}
	if time.Now().After(challenge.ExpiresAt) {
		_ = s.store.DeleteChallenge(ctx, challengeID)
		return nil, &ServiceError{StatusCode: 410, Message: "Verification expired"}
	}

	if challenge.Code != code {
		challenge.Attempts++
		if challenge.Attempts >= otpMaxAttempts {
			_ = s.store.DeleteChallenge(ctx, challengeID)
			s.logger.Warn("Challenge revoked after repeated failures",
				zap.String("challenge_id", challengeID),
				zap.String("user_id", userID),
			)
			return nil, &ServiceError{StatusCode: 429, Message: "Too many incorrect attempts"}
		}
		if updated, err := json.Marshal(challenge); err == nil {
			_ = s.store.SaveChallenge(ctx, challengeID, updated, time.Until(challenge.ExpiresAt))
		}
		return nil, &ServiceError{StatusCode: 401, Message: "Incorrect passcode"}
	}

	if err := s.store.DeleteChallenge(ctx, challengeID); err != nil {
		s.logger.Error("Failed to delete challenge", zap.Error(err))
	}

	order := challenge.Order
	return &order, nil
}

// deliverCode publishes the passcode to SNS. Delivery is best-effort.
func (s *otpServiceImpl) deliverCode(ctx context.Context, userID, challengeID, code string) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		s.logger.Warn("SNS client not configured, skipping passcode delivery",
			zap.String("challenge_id", challengeID))
		return
	}

	message, err := json.Marshal(map[string]string{
		"event_type":   "checkout_otp",
		"user_id":      userID,
		"challenge_id": challengeID,
		"code":         code,
	})
	if err != nil {
		return
	}
	if err := s.snsClient.Publish(ctx, s.snsTopicArn, message); err != nil {
		s.logger.Error("Failed to publish passcode", zap.Error(err))
	}
}

// generateOTPCode returns a 6 digit numeric code.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
