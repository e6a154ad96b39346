package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "cp_ana_profile", []byte(`{"a":1}`)))
	require.NoError(t, store.Set(ctx, "cp_ana_log_2026-01-02", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "cp_ana_log_2026-01-03", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "cp_bob_log_2026-01-02", []byte(`{}`)))

	value, ok, err := store.Get(ctx, "cp_ana_profile")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), value)

	// overwrite
	require.NoError(t, store.Set(ctx, "cp_ana_profile", []byte(`{"a":2}`)))
	value, ok, err = store.Get(ctx, "cp_ana_profile")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":2}`), value)

	keys, err := store.ListKeysWithPrefix(ctx, DayLogPrefix("ana"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cp_ana_log_2026-01-02", "cp_ana_log_2026-01-03"}, keys)

	keys, err = store.ListKeysWithPrefix(ctx, DayLogPrefix("carol"))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKeyScheme(t *testing.T) {
	assert.Equal(t, "cp_ana_profile", UserKey("ana", KindProfile))
	assert.Equal(t, "cp_ana_weight_history", UserKey("ana", KindWeightHistory))
	assert.Equal(t, "cp_ana_log_2026-02-14", DayLogKey("ana", "2026-02-14"))
	assert.Equal(t, "cp_users", UsersKey)
}
