package catalog

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/cineserve/pkg/media"
	"github.com/bastiangx/cineserve/pkg/suggest"
)

var _ suggest.CandidateProvider = (*Catalog)(nil)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	for _, m := range []media.MovieEntry{
		{ID: 1, Title: "Nosferatu", Overview: "A vampire preys on a young couple.", VoteAverage: 8.0, Genres: []string{"Horror"}},
		{ID: 2, Title: "The Gold Rush", Overview: "A prospector goes north.", VoteAverage: 8.2, Genres: []string{"Comedy"}},
		{ID: 3, Title: "Safety Last!", Overview: "A clock hangs over the street.", VoteAverage: 8.1, Genres: []string{"Comedy", "Thriller"}},
		{ID: 4, Title: "Avengers: Endgame", Overview: "Heroes assemble.", VoteAverage: 8.4, Genres: []string{"Action", "Sci-Fi"}},
		{ID: 5, Title: "Premam", Overview: "Three loves.", VoteAverage: 8.2, Genres: []string{"Romance"}},
		{ID: 6, Title: "Sairat", Overview: "Lovers on the run.", VoteAverage: 8.3, Genres: []string{"Drama", "Romance"}},
	} {
		require.NoError(t, c.AddMovie(m))
	}
	for _, s := range []media.ShowEntry{
		{ID: 101, Name: "The Mandalorian", Overview: "A bounty hunter in the outer rim.", VoteAverage: 8.5, Genres: []string{"Science Fiction"}},
		{ID: 102, Name: "Avengers", Overview: "Animated heroes.", VoteAverage: 7.0, Genres: []string{"Action"}},
		{ID: 103, Name: "Captain Video", Overview: "A ranger fights for justice.", VoteAverage: 7.2, Genres: []string{"Science Fiction"}},
	} {
		require.NoError(t, c.AddShow(s))
	}
	return c
}

func movieIDs(ms []media.MovieEntry) []int {
	ids := make([]int, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

func showIDs(ss []media.ShowEntry) []int {
	ids := make([]int, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}

func TestFindMoviesMatching(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"title prefix", "nos", []int{1}},
		{"case insensitive", "GOLD", []int{2}},
		{"mid title", "end", []int{4}},
		{"overview only", "vampire", []int{1}},
		{"title and overview across entries keep catalog order", "the", []int{2, 3, 6}},
		{"repeated suffix reported once", "a", []int{1, 2, 3, 4, 5, 6}},
		{"no match", "zzz", nil},
		{"empty query matches all", "", []int{1, 2, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.FindMoviesMatching(ctx, tt.query)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, movieIDs(got))
		})
	}
}

func TestFindShowsMatching(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	got, err := c.FindShowsMatching(ctx, "man")
	require.NoError(t, err)
	assert.Equal(t, []int{101}, showIDs(got))

	got, err = c.FindShowsMatching(ctx, "heroes")
	require.NoError(t, err)
	assert.Equal(t, []int{102}, showIDs(got))

	got, err = c.FindShowsMatching(ctx, "RANGER")
	require.NoError(t, err)
	assert.Equal(t, []int{103}, showIDs(got))
}

func TestFindMatchingCanceledContext(t *testing.T) {
	c := testCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FindMoviesMatching(ctx, "nos")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = c.FindShowsMatching(ctx, "man")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindMatchingEqualsScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abcAB é")
	word := func(n int) string {
		var b strings.Builder
		for range n {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		return b.String()
	}

	c := New()
	var movies []media.MovieEntry
	for i := range 200 {
		m := media.MovieEntry{ID: i, Title: "t" + word(1+rng.Intn(8)), Overview: word(rng.Intn(12))}
		require.NoError(t, c.AddMovie(m))
		movies = append(movies, m)
	}

	for range 300 {
		q := word(1 + rng.Intn(3))
		var want []int
		for _, m := range movies {
			lq := strings.ToLower(q)
			if strings.Contains(strings.ToLower(m.Title), lq) || strings.Contains(strings.ToLower(m.Overview), lq) {
				want = append(want, m.ID)
			}
		}
		got, err := c.FindMoviesMatching(context.Background(), q)
		require.NoError(t, err)
		if want == nil {
			assert.Empty(t, got, "query %q", q)
			continue
		}
		assert.Equal(t, want, movieIDs(got), "query %q", q)
	}
}

func TestAddRejectsBadEntries(t *testing.T) {
	c := testCatalog(t)

	err := c.AddMovie(media.MovieEntry{ID: 1, Title: "Again"})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Error(t, c.AddMovie(media.MovieEntry{ID: 99, Title: "   "}))
	assert.ErrorIs(t, c.AddShow(media.ShowEntry{ID: 101, Name: "Again"}), ErrDuplicateID)
	assert.Error(t, c.AddShow(media.ShowEntry{ID: 199}))

	st := c.Stats()
	assert.Equal(t, 6, st.Movies)
	assert.Equal(t, 3, st.Shows)
}

func TestByID(t *testing.T) {
	c := testCatalog(t)

	m, err := c.MovieByID(4)
	require.NoError(t, err)
	assert.Equal(t, "Avengers: Endgame", m.Title)

	s, err := c.ShowByID(103)
	require.NoError(t, err)
	assert.Equal(t, "Captain Video", s.Name)

	_, err = c.MovieByID(404)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.ShowByID(404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListings(t *testing.T) {
	c := testCatalog(t)

	popular := c.PopularMovies()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, movieIDs(popular.Results))
	assert.Equal(t, 1, popular.Page)
	assert.Equal(t, 1, popular.TotalPages)
	assert.Equal(t, 6, popular.TotalResults)

	assert.Equal(t, []int{101, 102, 103}, showIDs(c.PopularShows().Results))

	// 8.2 tie keeps catalog order
	assert.Equal(t, []int{4, 6, 2, 5, 3, 1}, movieIDs(c.TopRatedMovies().Results))
	assert.Equal(t, []int{101, 103, 102}, showIDs(c.TopRatedShows().Results))
}

func TestTrending(t *testing.T) {
	c := New()
	for i := 1; i <= 25; i++ {
		require.NoError(t, c.AddMovie(media.MovieEntry{ID: i, Title: strings.Repeat("x", i)}))
	}
	require.NoError(t, c.AddShow(media.ShowEntry{ID: 1, Name: "Only"}))

	for _, w := range []Window{Day, Week} {
		page, err := c.TrendingMovies(w)
		require.NoError(t, err)
		assert.Len(t, page.Results, TrendingLimit)
		assert.Equal(t, 1, page.Results[0].ID)

		shows, err := c.TrendingShows(w)
		require.NoError(t, err)
		assert.Len(t, shows.Results, 1)
	}

	_, err := c.TrendingMovies("month")
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = c.TrendingShows("")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSimilarMovies(t *testing.T) {
	c := testCatalog(t)

	page, err := c.SimilarMovies(2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5, 6}, movieIDs(page.Results))

	_, err = c.SimilarMovies(404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchByGenre(t *testing.T) {
	c := testCatalog(t)

	movies, shows := c.SearchByGenre("romance")
	assert.Equal(t, []int{5, 6}, movieIDs(movies))
	assert.Empty(t, shows)

	movies, shows = c.SearchByGenre("FICTION")
	assert.Empty(t, movies)
	assert.Equal(t, []int{101, 103}, showIDs(shows))

	movies, shows = c.SearchByGenre("")
	assert.Nil(t, movies)
	assert.Nil(t, shows)
}

func TestSearch(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	tests := []struct {
		query  string
		movies []int
		shows  []int
	}{
		{"heroes", []int{4}, []int{102}},
		{"VAMPIRE", []int{1}, []int{}},
		{"romance", []int{5, 6}, []int{}},
		{"fiction", []int{}, []int{101, 103}},
		{"avengers", []int{4}, []int{102}},
		{"zzz", []int{}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			movies, shows, err := c.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.movies, movieIDs(movies))
			assert.Equal(t, tt.shows, showIDs(shows))
		})
	}

	movies, shows, err := c.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Nil(t, movies)
	assert.Nil(t, shows)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = c.Search(canceled, "heroes")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenresAndWeights(t *testing.T) {
	c := New()
	require.NoError(t, c.AddMovie(media.MovieEntry{ID: 1, Title: "Avengers", VoteCount: 10, Genres: []string{"Action"}}))
	require.NoError(t, c.AddShow(media.ShowEntry{ID: 1, Name: "Avengers", VoteCount: 30, Genres: []string{"Action", "Animation"}}))
	require.NoError(t, c.AddShow(media.ShowEntry{ID: 2, Name: "Crown", VoteCount: 5}))

	assert.Equal(t, []media.Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "Animation"}}, c.Genres())
	assert.Equal(t, map[string]int{"Avengers": 30, "Crown": 5}, c.TitleWeights())
	assert.Equal(t, 2, c.Stats().GenreCount)
}

func TestStatsCountsIndexKeys(t *testing.T) {
	c := New()
	assert.Zero(t, c.Stats().IndexKeys)

	require.NoError(t, c.AddMovie(media.MovieEntry{ID: 1, Title: "aa"}))
	// suffixes "aa" and "a"
	assert.Equal(t, 2, c.Stats().IndexKeys)

	require.NoError(t, c.AddMovie(media.MovieEntry{ID: 2, Title: "a"}))
	assert.Equal(t, 2, c.Stats().IndexKeys)
}
