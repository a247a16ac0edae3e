package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldRememberMe = "remember_me"
	fieldSubjectID  = "subject_id"
)

// RedisStore keeps one hash per device under session:device:<id>.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration // 0 = sessions never expire
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(deviceID string) string {
	return fmt.Sprintf("session:device:%s", deviceID)
}

func (s *RedisStore) Read(ctx context.Context, deviceID string) (Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(deviceID)).Result()
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	// missing key means nothing was ever remembered on this device
	if len(fields) == 0 {
		return Session{}, nil
	}

	return Session{
		RememberMe: fields[fieldRememberMe] == "1",
		SubjectID:  fields[fieldSubjectID],
	}, nil
}

func (s *RedisStore) Write(ctx context.Context, deviceID string, update Update) error {
	key := sessionKey(deviceID)

	pipe := s.client.TxPipeline()

	remember := "0"
	if update.RememberMe {
		remember = "1"
	}
	pipe.HSet(ctx, key, fieldRememberMe, remember)

	if update.SubjectID != nil {
		if *update.SubjectID == "" {
			pipe.HDel(ctx, key, fieldSubjectID)
		} else {
			pipe.HSet(ctx, key, fieldSubjectID, *update.SubjectID)
		}
	}

	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
