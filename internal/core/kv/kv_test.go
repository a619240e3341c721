package kv_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/weekplan/internal/core/kv"
	"github.com/colonyops/weekplan/internal/data/db"
	"github.com/colonyops/weekplan/internal/data/stores"
)

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

type session struct {
	UserID string    `json:"user_id"`
	Token  string    `json:"token"`
	Since  time.Time `json:"since"`
}

func TestTypedKV_StructRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessions := kv.Scoped[session](newTestKV(t), "auth")

	want := session{UserID: "ada", Token: "tok", Since: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, sessions.Set(ctx, "current", want))

	got, err := sessions.Get(ctx, "current")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTypedKV_MissingReturnsZero(t *testing.T) {
	sessions := kv.Scoped[session](newTestKV(t), "auth")

	got, err := sessions.Get(context.Background(), "current")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.Equal(t, session{}, got)
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	// Two scoped stores with different namespaces
	alpha := kv.Scoped[int](store, "alpha")
	beta := kv.Scoped[int](store, "beta")

	require.NoError(t, alpha.Set(ctx, "count", 10))
	require.NoError(t, beta.Set(ctx, "count", 20))

	// Each scope sees its own value
	a, err := alpha.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 10, a)

	b, err := beta.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 20, b)

	// Raw store sees both with prefixed keys
	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "alpha:count")
	assert.Contains(t, keys, "beta:count")
}

func TestTypedKV_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "ns")

	has, err := typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, typed.Set(ctx, "key", "val"))
	has, err = typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, typed.Delete(ctx, "key"))
	has, err = typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestTypedKV_Keys(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	require.NoError(t, store.Set(ctx, "other:x", 1))
	require.NoError(t, store.Set(ctx, "authx:y", 1))

	typed := kv.Scoped[int](store, "auth")
	require.NoError(t, typed.Set(ctx, "b", 1))
	require.NoError(t, typed.Set(ctx, "a", 2))

	keys, err := typed.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestTypedKV_TTL(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "ttl")

	require.NoError(t, typed.SetTTL(ctx, "temp", "gone", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := typed.Get(ctx, "temp")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTypedKV_NonPositiveTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "ttl")

	require.NoError(t, typed.SetTTL(ctx, "forever", "here", 0))
	time.Sleep(2 * time.Millisecond)

	got, err := typed.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "here", got)
}
