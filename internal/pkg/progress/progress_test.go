package progress

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisc "github.com/menulens/core/internal/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) (*Tracker, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	return NewTracker(redisc.Wrap(goredis.NewClient(&goredis.Options{Addr: mini.Addr()}))), mini
}

func TestUploadLifecycle(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	up, err := tracker.Begin(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, up.ID)
	assert.Equal(t, StageReceived, up.Stage)

	require.NoError(t, tracker.Advance(ctx, up.ID, StageExtracting))
	require.NoError(t, tracker.Advance(ctx, up.ID, StageEnriching))
	require.NoError(t, tracker.Advance(ctx, up.ID, StagePersisting))
	require.NoError(t, tracker.Complete(ctx, up.ID, "menu-1"))

	got, err := tracker.GetByID(ctx, up.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StageDone, got.Stage)
	assert.Equal(t, "menu-1", got.MenuID)
	assert.Equal(t, "user-1", got.UserID)
}

func TestFailRecordsKind(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	up, err := tracker.Begin(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, tracker.Fail(ctx, up.ID, "extraction"))

	got, err := tracker.GetByID(ctx, up.ID)
	require.NoError(t, err)
	assert.Equal(t, StageFailed, got.Stage)
	assert.Equal(t, "extraction", got.Error)
}

func TestGetByIDUnknownUpload(t *testing.T) {
	tracker, _ := newTracker(t)

	got, err := tracker.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordsExpire(t *testing.T) {
	tracker, mini := newTracker(t)
	ctx := context.Background()

	up, err := tracker.Begin(ctx, "user-1")
	require.NoError(t, err)

	mini.FastForward(uploadTTL + 1)

	got, err := tracker.GetByID(ctx, up.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListByUserOrdersAndFilters(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	first, err := tracker.Begin(ctx, "user-1")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = tracker.Begin(ctx, "user-2")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := tracker.Begin(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, tracker.Complete(ctx, second.ID, "menu-1"))

	uploads, err := tracker.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, second.ID, uploads[0].ID)
	assert.Equal(t, StageDone, uploads[0].Stage)
	assert.Equal(t, first.ID, uploads[1].ID)
}

func TestListByUserPrunesExpiredIndexMembers(t *testing.T) {
	tracker, mini := newTracker(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tracker.Begin(ctx, "user-1")
		require.NoError(t, err)
	}
	assert.Equal(t, 5, len(members(t, mini)))

	mini.FastForward(uploadTTL + time.Minute)

	uploads, err := tracker.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, uploads)
	assert.Empty(t, members(t, mini))
}

func members(t *testing.T, mini *miniredis.Miniredis) []string {
	t.Helper()
	ids, err := mini.ZMembers(keyIndex)
	if err == miniredis.ErrKeyNotFound {
		return nil
	}
	require.NoError(t, err)
	return ids
}
