package database

import (
	"errors"
	"testing"

	"ecobayanihan/config"
	modelsPkg "ecobayanihan/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, USER_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DatabaseHost:     "localhost",
		DatabasePort:     5432,
		DatabaseUser:     "eco",
		DatabasePassword: "secret",
		DatabaseName:     "ecobayanihan",
	})

	assert.Equal(
		t,
		"host=localhost port=5432 user=eco password=secret dbname=ecobayanihan sslmode=disable TimeZone=UTC",
		dsn,
	)
}

func TestModelsOrder(t *testing.T) {
	models := Models()
	require.Len(t, models, 6)
	assert.IsType(t, &modelsPkg.StaffAccount{}, models[0])
	assert.IsType(t, &modelsPkg.Participant{}, models[1])
	assert.IsType(t, &modelsPkg.CleanupEvent{}, models[2])
	assert.IsType(t, &modelsPkg.CleanupRegistration{}, models[3])
}

func TestCacheBuilderKeys(t *testing.T) {
	t.Run("string key with hash", func(t *testing.T) {
		cb := NewCacheBuilder(nil, "abc").WithHash("session")
		assert.Equal(t, "session:abc", cb.Key())
	})

	t.Run("uuid key", func(t *testing.T) {
		id := uuid.MustParse("0190f5a4-0000-7000-8000-000000000001")
		cb := NewCacheBuilder(nil, id).WithHash("participant")
		assert.Equal(t, "participant:"+id.String(), cb.Key())
	})

	t.Run("empty hash leaves key alone", func(t *testing.T) {
		cb := NewCacheBuilder(nil, "abc").WithHash("")
		assert.Equal(t, "abc", cb.Key())
	})
}

func TestCacheBuilderValidation(t *testing.T) {
	t.Run("set requires key", func(t *testing.T) {
		err := NewCacheBuilder(nil, "").WithStruct(map[string]string{"a": "b"}).Set()
		assert.EqualError(t, err, "key is required")
	})

	t.Run("set requires value", func(t *testing.T) {
		err := NewCacheBuilder(nil, "k").Set()
		assert.EqualError(t, err, "value is required")
	})

	t.Run("get requires key", func(t *testing.T) {
		var out map[string]any
		found, err := NewCacheBuilder(nil, "").Get(&out)
		assert.False(t, found)
		assert.EqualError(t, err, "key is required")
	})

	t.Run("getdel requires key", func(t *testing.T) {
		var out map[string]any
		found, err := NewCacheBuilder(nil, "").GetDel(&out)
		assert.False(t, found)
		assert.Error(t, err)
	})

	t.Run("marshal error is surfaced", func(t *testing.T) {
		err := NewCacheBuilder(nil, "k").WithStruct(make(chan int)).Set()
		assert.ErrorContains(t, err, "failed to marshal value to json")
	})
}

func TestIsKeyNotFoundError(t *testing.T) {
	assert.False(t, isKeyNotFoundError(nil))
	assert.False(t, isKeyNotFoundError(assert.AnError))
	assert.True(t, isKeyNotFoundError(errors.New("valkey: key not found")))
}
