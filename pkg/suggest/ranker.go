package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/bastiangx/cineserve/internal/logger"
	"github.com/bastiangx/cineserve/internal/utils"
	"github.com/bastiangx/cineserve/pkg/media"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Ranker produces suggestion results from a CandidateProvider.
// It holds no mutable state and is safe for concurrent use.
type Ranker struct {
	provider CandidateProvider
	logger   *log.Logger
	timeout  time.Duration
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithLogger sets the logger used for lookup failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds the candidate lookups. Zero or negative means no bound.
// A lookup that ignores its context keeps running after the timeout fires;
// GetSuggestions returns without waiting for it.
func WithTimeout(d time.Duration) Option {
	return func(r *Ranker) {
		r.timeout = d
	}
}

// NewRanker creates a Ranker over provider.
func NewRanker(provider CandidateProvider, opts ...Option) *Ranker {
	r := &Ranker{
		provider: provider,
		logger:   logger.New("suggest"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetSuggestions returns up to limit suggestions for query.
// It never returns an error: lookup failures, panics and an expired timeout
// all come back as a Result with Success false.
func (r *Ranker) GetSuggestions(ctx context.Context, query string, limit int) Result {
	if utils.IsBlank(query) {
		return noSuggestions()
	}

	start := time.Now()
	candidates, err := r.collect(ctx, query)
	if err != nil {
		r.logger.Error("Search suggestions error", "query", query, "err", err)
		return fetchFailed()
	}

	suggestions := Rank(candidates, query, limit)
	r.logger.Debug("ranked suggestions",
		"query", query,
		"candidates", len(candidates),
		"returned", len(suggestions),
		"took", time.Since(start))

	if len(suggestions) == 0 {
		return noSuggestions()
	}
	return Result{Success: true, Message: MsgFetched, Data: suggestions}
}

// collect runs both lookups concurrently and returns movie suggestions
// followed by show suggestions.
func (r *Ranker) collect(ctx context.Context, query string) ([]Suggestion, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var (
		movies []media.MovieEntry
		shows  []media.ShowEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return guard("movies", func() (err error) {
			movies, err = r.provider.FindMoviesMatching(gctx, query)
			return err
		})
	})
	g.Go(func() error {
		return guard("shows", func() (err error) {
			shows, err = r.provider.FindShowsMatching(gctx, query)
			return err
		})
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("candidate lookup: %w", ctx.Err())
	}

	out := make([]Suggestion, 0, len(movies)+len(shows))
	for _, m := range movies {
		out = append(out, FromMovie(m))
	}
	for _, s := range shows {
		out = append(out, FromShow(s))
	}
	return out, nil
}

// guard turns a panic inside a lookup into an error.
func guard(name string, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s lookup panicked: %v", name, p)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%s lookup: %w", name, err)
	}
	return nil
}
