/*
Package catalog holds the in-memory movie and TV catalog and answers the
candidate lookups the suggestion ranker needs.

Titles, names and overviews are indexed with a patricia-trie suffix index, so
a case-insensitive substring lookup costs a single subtree walk instead of a
scan over every entry. Lookups return entries in catalog order.

A Catalog is filled from TOML or MessagePack catalog files (see Loader) or
directly with AddMovie and AddShow, and is safe for concurrent readers.
*/
package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bastiangx/cineserve/pkg/media"
)

var (
	// ErrNotFound is returned by id lookups for unknown ids.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when an id is already in the catalog.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrInvalidWindow is returned for a trending window other than day or week.
	ErrInvalidWindow = errors.New("invalid trending window")
)

// TrendingLimit is how many entries a trending list holds.
const TrendingLimit = 20

// SimilarLimit is how many entries SimilarMovies returns.
const SimilarLimit = 5

// Window is a trending time window.
type Window string

const (
	Day  Window = "day"
	Week Window = "week"
)

// Stats describes what a catalog holds.
type Stats struct {
	Movies     int `msgpack:"movies"`
	Shows      int `msgpack:"shows"`
	IndexKeys  int `msgpack:"index_keys"`
	GenreCount int `msgpack:"genres"`
}

// Catalog is an indexed, in-memory set of movies and shows.
type Catalog struct {
	mu        sync.RWMutex
	movies    []media.MovieEntry
	shows     []media.ShowEntry
	movieByID map[int]int
	showByID  map[int]int
	movieIdx  *suffixIndex
	showIdx   *suffixIndex
	genres    map[string]struct{}
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		movieByID: make(map[int]int),
		showByID:  make(map[int]int),
		movieIdx:  newSuffixIndex(),
		showIdx:   newSuffixIndex(),
		genres:    make(map[string]struct{}),
	}
}

// AddMovie appends a movie. Movies need a non-empty title and an unused id.
func (c *Catalog) AddMovie(m media.MovieEntry) error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("movie %d: empty title", m.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.movieByID[m.ID]; ok {
		return fmt.Errorf("movie %d: %w", m.ID, ErrDuplicateID)
	}
	pos := len(c.movies)
	c.movies = append(c.movies, m)
	c.movieByID[m.ID] = pos
	c.movieIdx.add(pos, m.Title)
	c.movieIdx.add(pos, m.Overview)
	c.addGenres(m.Genres)
	return nil
}

// AddShow appends a show. Shows need a non-empty name and an unused id.
func (c *Catalog) AddShow(s media.ShowEntry) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("show %d: empty name", s.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.showByID[s.ID]; ok {
		return fmt.Errorf("show %d: %w", s.ID, ErrDuplicateID)
	}
	pos := len(c.shows)
	c.shows = append(c.shows, s)
	c.showByID[s.ID] = pos
	c.showIdx.add(pos, s.Name)
	c.showIdx.add(pos, s.Overview)
	c.addGenres(s.Genres)
	return nil
}

func (c *Catalog) addGenres(names []string) {
	for _, g := range names {
		c.genres[g] = struct{}{}
	}
}

// FindMoviesMatching returns every movie whose title or overview contains
// query, case-insensitively, in catalog order.
func (c *Catalog) FindMoviesMatching(ctx context.Context, query string) ([]media.MovieEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	hits, err := c.match(c.movieIdx, query, len(c.movies))
	if err != nil {
		return nil, fmt.Errorf("movie index: %w", err)
	}
	var out []media.MovieEntry
	for pos, hit := range hits {
		if hit {
			out = append(out, c.movies[pos])
		}
	}
	return out, nil
}

// FindShowsMatching returns every show whose name or overview contains
// query, case-insensitively, in catalog order.
func (c *Catalog) FindShowsMatching(ctx context.Context, query string) ([]media.ShowEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	hits, err := c.match(c.showIdx, query, len(c.shows))
	if err != nil {
		return nil, fmt.Errorf("show index: %w", err)
	}
	var out []media.ShowEntry
	for pos, hit := range hits {
		if hit {
			out = append(out, c.shows[pos])
		}
	}
	return out, nil
}

// match is the index lookup; an empty query matches everything.
func (c *Catalog) match(ix *suffixIndex, query string, n int) ([]bool, error) {
	if query == "" {
		hits := make([]bool, n)
		for i := range hits {
			hits[i] = true
		}
		return hits, nil
	}
	return ix.lookup(query, n)
}

// Search returns the movies and shows whose title, overview or any genre
// contains query, case-insensitively, each in catalog order. A blank query
// matches nothing.
func (c *Catalog) Search(ctx context.Context, query string) ([]media.MovieEntry, []media.ShowEntry, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	movieHits, err := c.movieIdx.lookup(q, len(c.movies))
	if err != nil {
		return nil, nil, fmt.Errorf("movie index: %w", err)
	}
	showHits, err := c.showIdx.lookup(q, len(c.shows))
	if err != nil {
		return nil, nil, fmt.Errorf("show index: %w", err)
	}

	var movies []media.MovieEntry
	for pos, m := range c.movies {
		if movieHits[pos] || genreContains(m.Genres, q) {
			movies = append(movies, m)
		}
	}
	var shows []media.ShowEntry
	for pos, s := range c.shows {
		if showHits[pos] || genreContains(s.Genres, q) {
			shows = append(shows, s)
		}
	}
	return movies, shows, nil
}

// genreContains reports whether any genre contains the lower-cased g.
func genreContains(names []string, g string) bool {
	return slices.ContainsFunc(names, func(name string) bool {
		return strings.Contains(strings.ToLower(name), g)
	})
}

// MovieByID returns the movie with id.
func (c *Catalog) MovieByID(id int) (media.MovieEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pos, ok := c.movieByID[id]
	if !ok {
		return media.MovieEntry{}, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	return c.movies[pos], nil
}

// ShowByID returns the show with id.
func (c *Catalog) ShowByID(id int) (media.ShowEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pos, ok := c.showByID[id]
	if !ok {
		return media.ShowEntry{}, fmt.Errorf("show %d: %w", id, ErrNotFound)
	}
	return c.shows[pos], nil
}

// PopularMovies lists movies in catalog order.
func (c *Catalog) PopularMovies() media.Page[media.MovieEntry] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return media.SinglePage(slices.Clone(c.movies))
}

// PopularShows lists shows in catalog order.
func (c *Catalog) PopularShows() media.Page[media.ShowEntry] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return media.SinglePage(slices.Clone(c.shows))
}

// TopRatedMovies lists movies by vote average, best first.
func (c *Catalog) TopRatedMovies() media.Page[media.MovieEntry] {
	c.mu.RLock()
	list := slices.Clone(c.movies)
	c.mu.RUnlock()

	slices.SortStableFunc(list, func(a, b media.MovieEntry) int {
		return cmp.Compare(b.VoteAverage, a.VoteAverage)
	})
	return media.SinglePage(list)
}

// TopRatedShows lists shows by vote average, best first.
func (c *Catalog) TopRatedShows() media.Page[media.ShowEntry] {
	c.mu.RLock()
	list := slices.Clone(c.shows)
	c.mu.RUnlock()

	slices.SortStableFunc(list, func(a, b media.ShowEntry) int {
		return cmp.Compare(b.VoteAverage, a.VoteAverage)
	})
	return media.SinglePage(list)
}

// TrendingMovies lists the first TrendingLimit movies. The catalog has no
// view counts, so both windows return the same list.
func (c *Catalog) TrendingMovies(w Window) (media.Page[media.MovieEntry], error) {
	if err := w.validate(); err != nil {
		return media.Page[media.MovieEntry]{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return media.SinglePage(slices.Clone(c.movies[:min(TrendingLimit, len(c.movies))])), nil
}

// TrendingShows lists the first TrendingLimit shows.
func (c *Catalog) TrendingShows(w Window) (media.Page[media.ShowEntry], error) {
	if err := w.validate(); err != nil {
		return media.Page[media.ShowEntry]{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return media.SinglePage(slices.Clone(c.shows[:min(TrendingLimit, len(c.shows))])), nil
}

func (w Window) validate() error {
	if w != Day && w != Week {
		return fmt.Errorf("%q: %w", string(w), ErrInvalidWindow)
	}
	return nil
}

// SimilarMovies lists up to SimilarLimit other movies in catalog order.
func (c *Catalog) SimilarMovies(id int) (media.Page[media.MovieEntry], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.movieByID[id]; !ok {
		return media.Page[media.MovieEntry]{}, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	out := make([]media.MovieEntry, 0, SimilarLimit)
	for _, m := range c.movies {
		if len(out) == SimilarLimit {
			break
		}
		if m.ID != id {
			out = append(out, m)
		}
	}
	return media.SinglePage(out), nil
}

// SearchByGenre returns movies and shows with a genre containing genre,
// case-insensitively. An empty genre matches nothing.
func (c *Catalog) SearchByGenre(genre string) ([]media.MovieEntry, []media.ShowEntry) {
	if genre == "" {
		return nil, nil
	}
	g := strings.ToLower(genre)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var movies []media.MovieEntry
	for _, m := range c.movies {
		if genreContains(m.Genres, g) {
			movies = append(movies, m)
		}
	}
	var shows []media.ShowEntry
	for _, s := range c.shows {
		if genreContains(s.Genres, g) {
			shows = append(shows, s)
		}
	}
	return movies, shows
}

// Genres lists every genre in the catalog, sorted by name and numbered from 1.
func (c *Catalog) Genres() []media.Genre {
	c.mu.RLock()
	names := make([]string, 0, len(c.genres))
	for g := range c.genres {
		names = append(names, g)
	}
	c.mu.RUnlock()

	slices.Sort(names)
	return media.GenreList(names)
}

// TitleWeights maps every title and show name to its vote count, for the
// fuzzy corrector. When a title occurs twice the higher count wins.
func (c *Catalog) TitleWeights() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	weights := make(map[string]int, len(c.movies)+len(c.shows))
	put := func(title string, votes int) {
		if old, ok := weights[title]; !ok || votes > old {
			weights[title] = votes
		}
	}
	for _, m := range c.movies {
		put(m.Title, m.VoteCount)
	}
	for _, s := range c.shows {
		put(s.Name, s.VoteCount)
	}
	return weights
}

// Stats returns entry and index counts.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Movies:     len(c.movies),
		Shows:      len(c.shows),
		IndexKeys:  c.movieIdx.keys + c.showIdx.keys,
		GenreCount: len(c.genres),
	}
}
