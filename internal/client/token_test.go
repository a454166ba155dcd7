package client

import (
	"context"
	"testing"
	"time"

	"github.com/bxiit/selmag/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedTokenSource_MintsScopedToken(t *testing.T) {
	source := NewSignedTokenSource("shared-secret", "manager-app", []string{"view_catalogue", "edit_catalogue"}, 15*time.Minute)

	token, err := source.Token(context.Background())
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, []byte("shared-secret"))
	require.NoError(t, err)
	assert.Equal(t, "manager-app", claims.Subject)
	assert.True(t, claims.Scope.Has("view_catalogue"))
	assert.True(t, claims.Scope.Has("edit_catalogue"))
	assert.NotEmpty(t, claims.ID)
}

func TestSignedTokenSource_CachesUntilNearExpiry(t *testing.T) {
	source := NewSignedTokenSource("shared-secret", "manager-app", []string{"view_catalogue"}, 15*time.Minute)
	ctx := context.Background()

	first, err := source.Token(ctx)
	require.NoError(t, err)

	second, err := source.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	source.now = func() time.Time { return time.Now().Add(14*time.Minute + time.Second) }

	third, err := source.Token(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}
