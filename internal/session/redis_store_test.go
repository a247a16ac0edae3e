package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Minute)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := testRedisStore(t)
	ctx := context.Background()
	device := "test-" + uuid.NewString()

	// unwritten device reads as a zero session, not an error
	sess, err := store.Read(ctx, device)
	require.NoError(t, err)
	assert.Equal(t, Session{}, sess)

	require.NoError(t, store.Write(ctx, device, RememberSubject("subject-42")))
	sess, err = store.Read(ctx, device)
	require.NoError(t, err)
	assert.Equal(t, Session{RememberMe: true, SubjectID: "subject-42"}, sess)

	require.NoError(t, store.Write(ctx, device, ClearSubject()))
	sess, err = store.Read(ctx, device)
	require.NoError(t, err)
	assert.Equal(t, Session{}, sess)
}

func TestRedisStore_PartialUpdateLeavesSubject(t *testing.T) {
	store := testRedisStore(t)
	ctx := context.Background()
	device := "test-" + uuid.NewString()

	require.NoError(t, store.Write(ctx, device, RememberSubject("subject-42")))

	// nil SubjectID must not disturb the stored subject
	require.NoError(t, store.Write(ctx, device, Update{RememberMe: false}))
	sess, err := store.Read(ctx, device)
	require.NoError(t, err)
	assert.Equal(t, Session{RememberMe: false, SubjectID: "subject-42"}, sess)
}
