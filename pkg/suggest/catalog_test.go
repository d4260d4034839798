package suggest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/cineserve/internal/logger"
	"github.com/bastiangx/cineserve/pkg/catalog"
	"github.com/bastiangx/cineserve/pkg/media"
	"github.com/bastiangx/cineserve/pkg/suggest"
)

func seededRanker(t *testing.T) *suggest.Ranker {
	t.Helper()
	cat := catalog.New()
	require.NoError(t, cat.LoadEmbedded())
	return suggest.NewRanker(cat, suggest.WithLogger(logger.Discard()))
}

func TestSeedCatalogSuggestions(t *testing.T) {
	r := seededRanker(t)
	ctx := context.Background()

	res := r.GetSuggestions(ctx, "nos", 10)
	assert.Equal(t, suggest.Result{
		Success: true,
		Message: suggest.MsgFetched,
		Data:    []suggest.Suggestion{{ID: 2, Title: "Nosferatu", Type: media.Movie}},
	}, res)

	res = r.GetSuggestions(ctx, "the", 10)
	require.True(t, res.Success)
	ids := make([]int, len(res.Data))
	for i, s := range res.Data {
		ids[i] = s.ID
	}
	// prefix matches alphabetically, then "Pather" before "Harry Potter and the"
	assert.Equal(t, []int{106, 104, 3, 1, 103, 105, 12, 6}, ids)

	res = r.GetSuggestions(ctx, "the", 3)
	assert.Len(t, res.Data, 3)

	res = r.GetSuggestions(ctx, "vampire", 10)
	assert.Equal(t, suggest.Result{Success: true, Message: suggest.MsgNoSuggestions}, res,
		"overview-only matches never surface")
}
