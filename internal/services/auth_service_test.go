package services

import (
	"context"
	"testing"

	"github.com/caloflow/caloflow/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(kvstore.NewMemoryStore())

	ok, err := auth.Register(ctx, "Ana", "1234")
	require.NoError(t, err)
	assert.True(t, ok)

	// duplicate registration fails and must not change the stored pin,
	// regardless of case
	ok, err = auth.Register(ctx, "ana", "9999")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = auth.Register(ctx, "ANA", "9999")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.Verify(ctx, "ana", "1234")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.Verify(ctx, "ana", "9999")
	require.NoError(t, err)
	assert.False(t, ok)

	// unknown username verifies as false, not as an error
	ok, err = auth.Verify(ctx, "nobody", "1234")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_RejectsEmptyCredentials(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(kvstore.NewMemoryStore())

	ok, err := auth.Register(ctx, "", "1234")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.Register(ctx, "ana", "")
	require.NoError(t, err)
	assert.False(t, ok)
}
