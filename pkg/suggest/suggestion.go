package suggest

import (
	"github.com/bastiangx/cineserve/pkg/media"
)

// DefaultLimit is used by front ends when the caller does not ask for a size.
const DefaultLimit = 10

// Result messages. They are for display only.
const (
	MsgNoSuggestions = "No search suggestions"
	MsgFetched       = "Search suggestions fetched"
	MsgFetchError    = "Error fetching search suggestions"
)

// Suggestion is a single ranked entry shown while the user types.
type Suggestion struct {
	ID    int               `msgpack:"i"`
	Title string            `msgpack:"t"`
	Type  media.ContentType `msgpack:"k"`
}

// Result is the envelope returned for every suggestion request.
type Result struct {
	Success bool         `msgpack:"ok"`
	Message string       `msgpack:"m"`
	Data    []Suggestion `msgpack:"s"`
}

// FromMovie projects a catalog movie onto a Suggestion.
func FromMovie(m media.MovieEntry) Suggestion {
	return Suggestion{ID: m.ID, Title: m.Title, Type: media.Movie}
}

// FromShow projects a catalog show onto a Suggestion, using its name as title.
func FromShow(s media.ShowEntry) Suggestion {
	return Suggestion{ID: s.ID, Title: s.Name, Type: media.TV}
}

func noSuggestions() Result {
	return Result{Success: true, Message: MsgNoSuggestions}
}

func fetchFailed() Result {
	return Result{Success: false, Message: MsgFetchError}
}
