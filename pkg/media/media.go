// Package media holds the catalog value types shared by the catalog, ranker and server.
package media

// ContentType tells movies and TV shows apart.
type ContentType string

const (
	Movie ContentType = "movie"
	TV    ContentType = "tv"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	return t == Movie || t == TV
}

// Genre is a named genre with a catalog-local id.
type Genre struct {
	ID   int    `toml:"id" msgpack:"id"`
	Name string `toml:"name" msgpack:"name"`
}

// MovieEntry is a single movie in the catalog.
type MovieEntry struct {
	ID           int      `toml:"id" msgpack:"id"`
	Title        string   `toml:"title" msgpack:"title"`
	Overview     string   `toml:"overview" msgpack:"overview"`
	ReleaseDate  string   `toml:"release_date" msgpack:"release_date"`
	PosterPath   string   `toml:"poster_path" msgpack:"poster_path"`
	BackdropPath string   `toml:"backdrop_path" msgpack:"backdrop_path"`
	VoteAverage  float64  `toml:"vote_average" msgpack:"vote_average"`
	VoteCount    int      `toml:"vote_count" msgpack:"vote_count"`
	Genres       []string `toml:"genres" msgpack:"genres"`
	Runtime      int      `toml:"runtime" msgpack:"runtime"`
	Status       string   `toml:"status" msgpack:"status"`
}

// ShowEntry is a single TV show in the catalog. Its display title lives in Name.
type ShowEntry struct {
	ID               int      `toml:"id" msgpack:"id"`
	Name             string   `toml:"name" msgpack:"name"`
	Overview         string   `toml:"overview" msgpack:"overview"`
	FirstAirDate     string   `toml:"first_air_date" msgpack:"first_air_date"`
	LastAirDate      string   `toml:"last_air_date" msgpack:"last_air_date"`
	PosterPath       string   `toml:"poster_path" msgpack:"poster_path"`
	BackdropPath     string   `toml:"backdrop_path" msgpack:"backdrop_path"`
	VoteAverage      float64  `toml:"vote_average" msgpack:"vote_average"`
	VoteCount        int      `toml:"vote_count" msgpack:"vote_count"`
	Genres           []string `toml:"genres" msgpack:"genres"`
	NumberOfSeasons  int      `toml:"number_of_seasons" msgpack:"number_of_seasons"`
	NumberOfEpisodes int      `toml:"number_of_episodes" msgpack:"number_of_episodes"`
	Status           string   `toml:"status" msgpack:"status"`
}

// GenreList turns plain genre names into Genre values numbered from 1.
func GenreList(names []string) []Genre {
	genres := make([]Genre, len(names))
	for i, name := range names {
		genres[i] = Genre{ID: i + 1, Name: name}
	}
	return genres
}

// Page is a single-page list envelope.
type Page[T any] struct {
	Page         int `msgpack:"page"`
	Results      []T `msgpack:"results"`
	TotalResults int `msgpack:"total_results"`
	TotalPages   int `msgpack:"total_pages"`
}

// SinglePage wraps items as page 1 of 1.
func SinglePage[T any](items []T) Page[T] {
	return Page[T]{
		Page:         1,
		Results:      items,
		TotalResults: len(items),
		TotalPages:   1,
	}
}
