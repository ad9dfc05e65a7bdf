package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps pending step-up verification challenges in Redis. Each
// challenge is an opaque payload owned by the OTP service; the TTL bounds
// how long a risky checkout can stay pending.
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

func (s *OTPStore) getKey(challengeID string) string {
	return "otp:challenge:" + challengeID
}

func (s *OTPStore) SaveChallenge(ctx context.Context, challengeID string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.getKey(challengeID), payload, ttl).Err()
}

// GetChallenge returns the stored payload, or nil if the challenge expired
// or never existed.
func (s *OTPStore) GetChallenge(ctx context.Context, challengeID string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.getKey(challengeID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *OTPStore) DeleteChallenge(ctx context.Context, challengeID string) error {
	return s.client.Del(ctx, s.getKey(challengeID)).Err()
}
