package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/cineserve/internal/logger"
	"github.com/bastiangx/cineserve/pkg/catalog"
	"github.com/bastiangx/cineserve/pkg/config"
	"github.com/bastiangx/cineserve/pkg/fuzzy"
	"github.com/bastiangx/cineserve/pkg/suggest"
)

const (
	codeBadRequest = 400
	codeNotFound   = 404
	codeInternal   = 500
)

// Server answers suggestion requests over a msgpack stream.
type Server struct {
	catalog    *catalog.Catalog
	ranker     *suggest.Ranker
	matcher    *fuzzy.Matcher
	config     *config.Config
	configPath string
	logger     *log.Logger

	requestCount int
	enc          *msgpack.Encoder
	out          *bufio.Writer
}

// NewServer creates a server over cat. configPath is re-read every
// server.reload_every requests; leave it empty to never reload.
func NewServer(cat *catalog.Catalog, cfg *config.Config, configPath string) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		catalog:    cat,
		matcher:    fuzzy.NewMatcher(cat.TitleWeights()),
		config:     cfg,
		configPath: configPath,
		logger:     logger.New("server"),
	}
	s.ranker = s.newRanker()
	s.logger.Debug("server ready", "titles", s.matcher.Len(), "config", configPath)
	return s
}

func (s *Server) newRanker() *suggest.Ranker {
	return suggest.NewRanker(s.catalog,
		suggest.WithLogger(s.logger),
		suggest.WithTimeout(s.config.Timeout()))
}

// Start serves stdin/stdout until stdin is closed.
func (s *Server) Start() error {
	return s.Serve(context.Background(), os.Stdin, os.Stdout)
}

// Serve reads requests from r and writes responses to w until r is
// exhausted or ctx is done. A clean end of input returns nil.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	log.Debug("Starting Server.")
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	s.out = bufio.NewWriter(w)
	s.enc = msgpack.NewEncoder(s.out)
	s.enc.UseCompactInts(true)

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Reading request stream: %v", err)
			s.sendError("", "Invalid msgpack request", codeBadRequest)
			return fmt.Errorf("read request: %w", err)
		}

		s.requestCount++
		s.handleRequest(ctx, raw)
		s.maybeReload()
	}
}

func (s *Server) handleRequest(ctx context.Context, raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "Invalid msgpack request", codeBadRequest)
		return
	}

	switch req.Action {
	case "", ActionSuggest:
		s.handleSuggest(ctx, req)
	case ActionHealth:
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case ActionInfo:
		s.handleInfo(req)
	case ActionCorrect:
		s.handleCorrect(req)
	case ActionMovie:
		s.handleMovie(req)
	case ActionShow:
		s.handleShow(req)
	case ActionPopular, ActionTopRated, ActionTrending:
		s.handleList(req)
	case ActionSimilar:
		s.handleSimilar(req)
	case ActionGenre, ActionSearch:
		s.handleSearch(ctx, req)
	case ActionGenres:
		s.handleGenres(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), codeBadRequest)
	}
}

func (s *Server) handleSuggest(ctx context.Context, req Request) {
	if n := utf8.RuneCountInString(req.Query); n > s.config.Server.MaxQuery {
		log.Debugf("Query too long in request %s: %d runes", req.ID, n)
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.config.Server.MaxQuery), codeBadRequest)
		return
	}

	start := time.Now()
	result := s.ranker.GetSuggestions(ctx, req.Query, s.clampLimit(req.Limit))
	elapsed := time.Since(start)

	// Data is already best-first; ranks are 1-based positions.
	ranked := make([]RankedSuggestion, len(result.Data))
	for i, sg := range result.Data {
		ranked[i] = RankedSuggestion{ID: sg.ID, Title: sg.Title, Type: sg.Type, Rank: i + 1}
	}

	s.send(SuggestResponse{
		ID:          req.ID,
		Success:     result.Success,
		Message:     result.Message,
		Suggestions: ranked,
		Count:       len(ranked),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// clampLimit maps a missing or non-positive limit to the default and caps
// it at server.max_limit.
func (s *Server) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.config.Suggest.DefaultLimit
	}
	return min(limit, s.config.Server.MaxLimit)
}

func (s *Server) handleInfo(req Request) {
	st := s.catalog.Stats()
	s.send(InfoResponse{
		ID:           req.ID,
		Status:       "ok",
		Movies:       st.Movies,
		Shows:        st.Shows,
		IndexKeys:    st.IndexKeys,
		Genres:       st.GenreCount,
		MaxLimit:     s.config.Server.MaxLimit,
		MaxQuery:     s.config.Server.MaxQuery,
		DefaultLimit: s.config.Suggest.DefaultLimit,
		TimeoutMS:    s.config.Suggest.TimeoutMS,
		Requests:     s.requestCount,
	})
}

func (s *Server) handleCorrect(req Request) {
	if utf8.RuneCountInString(req.Query) > s.config.Server.MaxQuery {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.config.Server.MaxQuery), codeBadRequest)
		return
	}
	corrected, ok := s.matcher.SuggestCorrection(req.Query)
	s.send(CorrectResponse{ID: req.ID, Query: req.Query, Corrected: corrected, WasCorrected: ok})
}

// maybeReload re-reads the config file every server.reload_every requests.
func (s *Server) maybeReload() {
	every := s.config.Server.ReloadEvery
	if s.configPath == "" || every <= 0 || s.requestCount%every != 0 {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		log.Warnf("Config reload from %s failed, keeping current settings: %v", s.configPath, err)
		return
	}
	s.config = cfg
	s.ranker = s.newRanker()
	log.Debugf("Config reloaded after %d requests", s.requestCount)
}

func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return err
	}
	if err := s.out.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
		return err
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
