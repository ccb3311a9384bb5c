package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gite/pkg/cache"
	"gite/pkg/model"
)

const ttl = 5 * time.Minute

func TestConfirmedRanges_Miss(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, ttl)

	mockRedis.ExpectGet(cache.ConfirmedRangesKey).RedisNil()

	ranges, ok, err := c.ConfirmedRanges(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, ranges)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestConfirmedRanges_Hit(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, ttl)

	mockRedis.ExpectGet(cache.ConfirmedRangesKey).SetVal(`[{"from":"2024-07-10","to":"2024-07-14"}]`)

	ranges, ok, err := c.ConfirmedRanges(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []model.DateRange{{From: "2024-07-10", To: "2024-07-14"}}, ranges)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestConfirmedRanges_Error(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, ttl)

	mockRedis.ExpectGet(cache.ConfirmedRangesKey).SetErr(errors.New("connection reset"))

	_, ok, err := c.ConfirmedRanges(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestConfirmedRanges_CorruptValue(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, ttl)

	mockRedis.ExpectGet(cache.ConfirmedRangesKey).SetVal(`{not json`)

	_, ok, err := c.ConfirmedRanges(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSetConfirmedRanges(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, ttl)

	mockRedis.ExpectSet(cache.ConfirmedRangesKey, `[{"from":"2024-07-10","to":"2024-07-14"}]`, ttl).SetVal("OK")
	mockRedis.ExpectSet(cache.ConfirmedRangesKey, `[]`, ttl).SetVal("OK")

	err := c.SetConfirmedRanges(context.Background(), []model.DateRange{{From: "2024-07-10", To: "2024-07-14"}})
	assert.NoError(t, err)
	err = c.SetConfirmedRanges(context.Background(), nil)
	assert.NoError(t, err)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestInvalidate(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, ttl)

	mockRedis.ExpectDel(cache.ConfirmedRangesKey).SetVal(1)

	assert.NoError(t, c.Invalidate(context.Background()))
	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestNewAvailabilityCache_NilClient(t *testing.T) {
	c := cache.NewAvailabilityCache(nil, ttl)
	_, ok, err := c.ConfirmedRanges(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.SetConfirmedRanges(context.Background(), nil))
	assert.NoError(t, c.Invalidate(context.Background()))
}
