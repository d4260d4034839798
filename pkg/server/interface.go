/*
Package server implements msgpack IPC for title suggestions.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. Requests are handled one at a time and responses
carry their timing.

# IPC

Every request carries an id that is echoed back, an optional action and the
action's fields. A suggestion request looks like:

	{"id": "req_001", "q": "man", "l": 10}

and is answered with the ranked titles, best first:

	{"id": "req_001", "ok": true, "m": "Search suggestions fetched",
	 "s": [{"i": 103, "t": "The Mandalorian", "k": "tv", "r": 1}],
	 "c": 1, "t": 180}

"ok" is false when the catalog lookup failed. "s" is always an array; it is
empty (never nil) when the query was blank, nothing matched or the lookup
failed.

Other actions:

	{"id": "h1", "action": "health"}              -> {"id": "h1", "status": "ok"}
	{"id": "i1", "action": "info"}                -> catalog and limit info
	{"id": "c1", "action": "correct", "q": "nosfratu"}
	    -> {"id": "c1", "q": "nosfratu", "corrected": "Nosferatu", "was_corrected": true}

Catalog browsing actions answer with the entries themselves. "k" picks movies
("movie") or shows ("tv"), "n" names an entry id and "w" a trending window
("day" or "week"):

	{"id": "m1", "action": "movie", "n": 2}            -> {"id": "m1", "movie": {...}}
	{"id": "s1", "action": "show", "n": 103}           -> {"id": "s1", "show": {...}}
	{"id": "p1", "action": "popular", "k": "movie"}    -> {"id": "p1", "movies": page}
	{"id": "r1", "action": "top_rated", "k": "tv"}     -> {"id": "r1", "shows": page}
	{"id": "t1", "action": "trending", "k": "movie", "w": "week"}
	{"id": "x1", "action": "similar", "n": 2}          -> five other movies
	{"id": "g1", "action": "genre", "q": "horror"}     -> movies and shows
	{"id": "q1", "action": "search", "q": "vampire"}   -> movies and shows
	{"id": "l1", "action": "genres"}                   -> {"id": "l1", "genres": [...]}

A page is {"page": 1, "results": [...], "total_results": n, "total_pages": 1}.
"genre" and "search" match a substring of a genre name, and "search" also
matches titles and overviews. Both always carry a movies and a shows page.
An unknown id is answered with code 404.

A request that cannot be handled gets {"id", "e": message, "c": code}.

When the server starts it writes {"status": "ready"}. It stops cleanly when
stdin is closed. Every server.reload_every requests it re-reads its config
file.
*/
package server

import "github.com/bastiangx/cineserve/pkg/media"

// Actions understood by the server. An empty action means ActionSuggest.
const (
	ActionSuggest = "suggest"
	ActionHealth  = "health"
	ActionInfo    = "info"
	ActionCorrect = "correct"

	ActionMovie    = "movie"
	ActionShow     = "show"
	ActionPopular  = "popular"
	ActionTopRated = "top_rated"
	ActionTrending = "trending"
	ActionSimilar  = "similar"
	ActionGenre    = "genre"
	ActionSearch   = "search"
	ActionGenres   = "genres"
)

// Request is any client request.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`
	Query  string `msgpack:"q"`
	Limit  int    `msgpack:"l,omitempty"`

	Kind   media.ContentType `msgpack:"k,omitempty"`
	Window string            `msgpack:"w,omitempty"`
	Target int               `msgpack:"n,omitempty"`
}

// RankedSuggestion is a suggestion with its 1-based position.
type RankedSuggestion struct {
	ID    int               `msgpack:"i"`
	Title string            `msgpack:"t"`
	Type  media.ContentType `msgpack:"k"`
	Rank  int               `msgpack:"r"`
}

// SuggestResponse answers a suggest request.
type SuggestResponse struct {
	ID          string             `msgpack:"id"`
	Success     bool               `msgpack:"ok"`
	Message     string             `msgpack:"m"`
	Suggestions []RankedSuggestion `msgpack:"s"`
	Count       int                `msgpack:"c"`
	TimeTaken   int64              `msgpack:"t"`
}

// StatusResponse answers health checks and announces readiness.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// InfoResponse describes the loaded catalog and active limits.
type InfoResponse struct {
	ID           string `msgpack:"id"`
	Status       string `msgpack:"status"`
	Movies       int    `msgpack:"movies"`
	Shows        int    `msgpack:"shows"`
	IndexKeys    int    `msgpack:"index_keys"`
	Genres       int    `msgpack:"genres"`
	MaxLimit     int    `msgpack:"max_limit"`
	MaxQuery     int    `msgpack:"max_query"`
	DefaultLimit int    `msgpack:"default_limit"`
	TimeoutMS    int    `msgpack:"timeout_ms"`
	Requests     int    `msgpack:"requests"`
}

// CorrectResponse answers a correct request.
type CorrectResponse struct {
	ID           string `msgpack:"id"`
	Query        string `msgpack:"q"`
	Corrected    string `msgpack:"corrected"`
	WasCorrected bool   `msgpack:"was_corrected"`
}

// ErrorResponse reports a request that could not be handled.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// MovieResponse answers a movie request.
type MovieResponse struct {
	ID    string           `msgpack:"id"`
	Movie media.MovieEntry `msgpack:"movie"`
}

// ShowResponse answers a show request.
type ShowResponse struct {
	ID   string          `msgpack:"id"`
	Show media.ShowEntry `msgpack:"show"`
}

// ListResponse answers the list actions. Only the pages the action
// produces are set.
type ListResponse struct {
	ID     string                        `msgpack:"id"`
	Movies *media.Page[media.MovieEntry] `msgpack:"movies,omitempty"`
	Shows  *media.Page[media.ShowEntry]  `msgpack:"shows,omitempty"`
}

// GenresResponse answers a genres request.
type GenresResponse struct {
	ID     string        `msgpack:"id"`
	Genres []media.Genre `msgpack:"genres"`
}
