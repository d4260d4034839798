/*
Package suggest is the core of cineserve: it turns a typed query into a short,
ranked list of movie and TV titles.

A Ranker asks a CandidateProvider for every movie and show matching the query,
then narrows and orders them:

	ranker := suggest.NewRanker(catalog)
	res := ranker.GetSuggestions(ctx, "aven", 10)

Candidates that matched only on their overview are dropped, titles are
deduplicated case-insensitively (first seen wins, movies are seen before
shows) and the rest are ordered by:

  - titles starting with the query first
  - then by where the query first occurs in the title
  - then by a locale-aware, case-insensitive title compare

The answer is always a Result envelope. An empty query, a query with no
matches and a failed lookup all produce a nil Data slice; only the failure
has Success set to false.
*/
package suggest

import (
	"context"

	"github.com/bastiangx/cineserve/pkg/media"
)

// CandidateProvider supplies raw candidates for a query. Both lookups must be
// read-only; the Ranker may call them concurrently.
type CandidateProvider interface {
	// FindMoviesMatching returns movies whose title or overview contains query, case-insensitively.
	FindMoviesMatching(ctx context.Context, query string) ([]media.MovieEntry, error)

	// FindShowsMatching returns shows whose name or overview contains query, case-insensitively.
	FindShowsMatching(ctx context.Context, query string) ([]media.ShowEntry, error)
}

// ProviderFuncs adapts two plain functions to a CandidateProvider.
// A nil func yields no candidates.
type ProviderFuncs struct {
	Movies func(ctx context.Context, query string) ([]media.MovieEntry, error)
	Shows  func(ctx context.Context, query string) ([]media.ShowEntry, error)
}

func (p ProviderFuncs) FindMoviesMatching(ctx context.Context, query string) ([]media.MovieEntry, error) {
	if p.Movies == nil {
		return nil, nil
	}
	return p.Movies(ctx, query)
}

func (p ProviderFuncs) FindShowsMatching(ctx context.Context, query string) ([]media.ShowEntry, error) {
	if p.Shows == nil {
		return nil, nil
	}
	return p.Shows(ctx, query)
}
