package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// memoryChallengeStore is an in-memory ChallengeStore for tests.
type memoryChallengeStore struct {
	challenges map[string][]byte
}

func newMemoryChallengeStore() *memoryChallengeStore {
	return &memoryChallengeStore{challenges: map[string][]byte{}}
}

func (s *memoryChallengeStore) SaveChallenge(ctx context.Context, challengeID string, payload []byte, ttl time.Duration) error {
	s.challenges[challengeID] = payload
	return nil
}

func (s *memoryChallengeStore) GetChallenge(ctx context.Context, challengeID string) ([]byte, error) {
	return s.challenges[challengeID], nil
}

func (s *memoryChallengeStore) DeleteChallenge(ctx context.Context, challengeID string) error {
	delete(s.challenges, challengeID)
	return nil
}

// storedCode digs the generated passcode out of the store.
func (s *memoryChallengeStore) storedCode(t *testing.T, challengeID string) string {
	t.Helper()
	var challenge otpChallenge
	assert.NoError(t, json.Unmarshal(s.challenges[challengeID], &challenge))
	return challenge.Code
}

func pendingOrder(userID uuid.UUID) *models.Order {
	return &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Total:  2500,
		Status: models.OrderStatusPending,
	}
}

func TestCreateChallengeStoresPendingOrder(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := NewOTPService(store, nil, "", zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	challenge, svcErr := svc.CreateChallenge(ctx, userID.String(), pendingOrder(userID), "high", []string{"HIGH_AMOUNT_ORDER"})

	assert.Nil(t, svcErr)
	assert.NotEmpty(t, challenge.ChallengeID)
	assert.Equal(t, "high", challenge.RiskLevel)
	assert.True(t, challenge.ExpiresAt.After(time.Now()))

	code := store.storedCode(t, challenge.ChallengeID)
	assert.Len(t, code, 6)
}

func TestVerifyChallengeReleasesOrder(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := NewOTPService(store, nil, "", zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()
	order := pendingOrder(userID)

	challenge, svcErr := svc.CreateChallenge(ctx, userID.String(), order, "high", nil)
	assert.Nil(t, svcErr)
	code := store.storedCode(t, challenge.ChallengeID)

	released, svcErr := svc.VerifyChallenge(ctx, userID.String(), challenge.ChallengeID, code)
	assert.Nil(t, svcErr)
	assert.Equal(t, order.ID, released.ID)
	assert.Equal(t, order.Total, released.Total)

	// A challenge is single use.
	_, svcErr = svc.VerifyChallenge(ctx, userID.String(), challenge.ChallengeID, code)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestVerifyChallengeWrongCode(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := NewOTPService(store, nil, "", zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	challenge, svcErr := svc.CreateChallenge(ctx, userID.String(), pendingOrder(userID), "high", nil)
	assert.Nil(t, svcErr)
	code := store.storedCode(t, challenge.ChallengeID)
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	_, svcErr = svc.VerifyChallenge(ctx, userID.String(), challenge.ChallengeID, wrong)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 401, svcErr.StatusCode)

	// The right code still works after one failure.
	released, svcErr := svc.VerifyChallenge(ctx, userID.String(), challenge.ChallengeID, code)
	assert.Nil(t, svcErr)
	assert.NotNil(t, released)
}

func TestVerifyChallengeRevokedAfterRepeatedFailures(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := NewOTPService(store, nil, "", zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	challenge, svcErr := svc.CreateChallenge(ctx, userID.String(), pendingOrder(userID), "high", nil)
	assert.Nil(t, svcErr)
	code := store.storedCode(t, challenge.ChallengeID)
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	_, svcErr = svc.VerifyChallenge(ctx, userID.String(), challenge.ChallengeID, wrong)
	assert.Equal(t, 401, svcErr.StatusCode)
	_, svcErr = svc.VerifyChallenge(ctx, userID.String(), challenge.ChallengeID, wrong)
	assert.Equal(t, 401, svcErr.StatusCode)
	_, svcErr = svc.VerifyChallenge(ctx, userID.String(), challenge.ChallengeID, wrong)
	assert.Equal(t, 429, svcErr.StatusCode)

	// The correct code no longer works; the challenge was revoked.
	_, svcErr = svc.VerifyChallenge(ctx, userID.String(), challenge.ChallengeID, code)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestVerifyChallengeWrongUser(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := NewOTPService(store, nil, "", zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	challenge, svcErr := svc.CreateChallenge(ctx, userID.String(), pendingOrder(userID), "high", nil)
	assert.Nil(t, svcErr)
	code := store.storedCode(t, challenge.ChallengeID)

	_, svcErr = svc.VerifyChallenge(ctx, uuid.NewString(), challenge.ChallengeID, code)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}

func TestVerifyChallengeUnknownID(t *testing.T) {
	store := newMemoryChallengeStore()
	svc := NewOTPService(store, nil, "", zap.NewNop())

	_, svcErr := svc.VerifyChallenge(context.Background(), uuid.NewString(), "missing", "123456")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
