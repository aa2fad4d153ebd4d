package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

const leaseKeyPrefix = "enrich:lease:"

// RedisStore is the production lease implementation: SET NX with TTL gives an
// atomic conditional write shared across instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Acquire(ctx context.Context, subjectID id.SubjectID, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, leaseKeyPrefix+subjectID.String(), "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lease: %w", err)
	}
	if !ok {
		return sentinel.ErrLeaseHeld
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, subjectID id.SubjectID) error {
	if err := s.client.Del(ctx, leaseKeyPrefix+subjectID.String()).Err(); err != nil {
		return fmt.Errorf("release lease: %w", err)
	}
	return nil
}
