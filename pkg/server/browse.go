package server

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/cineserve/pkg/catalog"
	"github.com/bastiangx/cineserve/pkg/media"
)

func (s *Server) handleMovie(req Request) {
	m, err := s.catalog.MovieByID(req.Target)
	if err != nil {
		s.sendCatalogError(req, err)
		return
	}
	s.send(MovieResponse{ID: req.ID, Movie: m})
}

func (s *Server) handleShow(req Request) {
	sh, err := s.catalog.ShowByID(req.Target)
	if err != nil {
		s.sendCatalogError(req, err)
		return
	}
	s.send(ShowResponse{ID: req.ID, Show: sh})
}

// handleList serves popular, top_rated and trending for the requested kind.
func (s *Server) handleList(req Request) {
	if !req.Kind.Valid() {
		s.sendError(req.ID, fmt.Sprintf("Unknown kind: %q", req.Kind), codeBadRequest)
		return
	}

	var (
		movies media.Page[media.MovieEntry]
		shows  media.Page[media.ShowEntry]
		err    error
	)
	switch req.Action {
	case ActionPopular:
		movies, shows = s.catalog.PopularMovies(), s.catalog.PopularShows()
	case ActionTopRated:
		movies, shows = s.catalog.TopRatedMovies(), s.catalog.TopRatedShows()
	case ActionTrending:
		w := catalog.Window(req.Window)
		if req.Kind == media.Movie {
			movies, err = s.catalog.TrendingMovies(w)
		} else {
			shows, err = s.catalog.TrendingShows(w)
		}
	}
	if err != nil {
		s.sendCatalogError(req, err)
		return
	}

	resp := ListResponse{ID: req.ID}
	if req.Kind == media.Movie {
		resp.Movies = &movies
	} else {
		resp.Shows = &shows
	}
	s.send(resp)
}

func (s *Server) handleSimilar(req Request) {
	page, err := s.catalog.SimilarMovies(req.Target)
	if err != nil {
		s.sendCatalogError(req, err)
		return
	}
	s.send(ListResponse{ID: req.ID, Movies: &page})
}

// handleSearch serves genre and search. Both pages are always present.
func (s *Server) handleSearch(ctx context.Context, req Request) {
	if utf8.RuneCountInString(req.Query) > s.config.Server.MaxQuery {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.config.Server.MaxQuery), codeBadRequest)
		return
	}

	var (
		movies []media.MovieEntry
		shows  []media.ShowEntry
		err    error
	)
	if req.Action == ActionGenre {
		movies, shows = s.catalog.SearchByGenre(req.Query)
	} else {
		movies, shows, err = s.catalog.Search(ctx, req.Query)
	}
	if err != nil {
		s.sendCatalogError(req, err)
		return
	}

	mp := media.SinglePage(nonNil(movies))
	sp := media.SinglePage(nonNil(shows))
	s.send(ListResponse{ID: req.ID, Movies: &mp, Shows: &sp})
}

func (s *Server) handleGenres(req Request) {
	s.send(GenresResponse{ID: req.ID, Genres: nonNil(s.catalog.Genres())})
}

// sendCatalogError maps catalog errors to response codes.
func (s *Server) sendCatalogError(req Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.sendError(req.ID, fmt.Sprintf("Not found: %d", req.Target), codeNotFound)
	case errors.Is(err, catalog.ErrInvalidWindow):
		s.sendError(req.ID, fmt.Sprintf("Unknown window: %q", req.Window), codeBadRequest)
	default:
		log.Errorf("Request %s (%s) failed: %v", req.ID, req.Action, err)
		s.sendError(req.ID, "Catalog lookup failed", codeInternal)
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
