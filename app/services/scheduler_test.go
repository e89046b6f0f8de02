package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
)

func TestPurgeRefreshTokens(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	now := time.Date(2024, 9, 1, 2, 5, 0, 0, time.UTC)

	tokens := []*models.RefreshToken{
		{Token: "live", UserID: 1, ExpiresAt: now.Add(time.Hour)},
		{Token: "expired", UserID: 1, ExpiresAt: now.Add(-time.Hour)},
		{Token: "revoked", UserID: 1, ExpiresAt: now.Add(time.Hour), Revoked: true},
	}
	for _, tok := range tokens {
		require.NoError(t, store.RefreshTokens.Create(ctx, tok))
	}

	n, err := PurgeRefreshTokens(ctx, store, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := database.All(ctx, store.RefreshTokens, nil)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "live", left[0].Token)
}
