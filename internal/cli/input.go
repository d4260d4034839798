// Package cli reads queries from a terminal and prints ranked suggestions, for debugging the ranker.
package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/cineserve/internal/logger"
	"github.com/bastiangx/cineserve/internal/utils"
	"github.com/bastiangx/cineserve/pkg/catalog"
	"github.com/bastiangx/cineserve/pkg/fuzzy"
	"github.com/bastiangx/cineserve/pkg/media"
	"github.com/bastiangx/cineserve/pkg/suggest"
)

var titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler processes queries typed on stdin and prints what the ranker
// returns for each, with vote counts looked up in the catalog.
type InputHandler struct {
	ranker          *suggest.Ranker
	catalog         *catalog.Catalog
	matcher         *fuzzy.Matcher
	limit           int
	showCorrections bool
	out             *log.Logger
}

// NewInputHandler creates a handler printing up to limit suggestions per
// query. With showCorrections set, a query without results gets a
// "did you mean" hint.
func NewInputHandler(ranker *suggest.Ranker, cat *catalog.Catalog, limit int, showCorrections bool) *InputHandler {
	h := &InputHandler{
		ranker:          ranker,
		catalog:         cat,
		limit:           limit,
		showCorrections: showCorrections,
		out:             log.Default(),
	}
	if showCorrections {
		h.matcher = fuzzy.NewMatcher(cat.TitleWeights())
	}
	return h
}

// SetOutput redirects the handler's printing to w.
func (h *InputHandler) SetOutput(w io.Writer) {
	h.out = logger.NewWithWriter(w, "")
}

// Start reads queries from r until it is exhausted. Blank lines are skipped.
func (h *InputHandler) Start(ctx context.Context, r io.Reader) error {
	h.out.Print("CineServe CLI")
	h.out.Print("type a title and press Enter to see the suggestions (Ctrl+C to exit):")

	scanner := bufio.NewScanner(r)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		h.handleInput(ctx, query)
	}
}

func (h *InputHandler) handleInput(ctx context.Context, query string) {
	start := time.Now()
	result := h.ranker.GetSuggestions(ctx, query, h.limit)
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), query)

	if !result.Success {
		h.out.Errorf("Lookup failed for '%s': %s", query, result.Message)
		return
	}
	if len(result.Data) == 0 {
		h.out.Warnf("No suggestions found for '%s'", query)
		h.suggestCorrection(query)
		return
	}

	h.out.Printf("Found %d suggestions for '%s':", len(result.Data), query)
	for i, s := range result.Data {
		h.out.Printf("%2d. %-40s %-5s (votes: %8s)", i+1, titleStyle.Render(s.Title), s.Type, utils.FormatWithCommas(h.votes(s)))
	}
}

func (h *InputHandler) suggestCorrection(query string) {
	if h.matcher == nil {
		return
	}
	if corrected, ok := h.matcher.SuggestCorrection(query); ok {
		h.out.Printf("did you mean: %s ?", titleStyle.Render(corrected))
	}
}

// votes returns the catalog vote count for s, or 0 when it is gone.
func (h *InputHandler) votes(s suggest.Suggestion) int {
	switch s.Type {
	case media.Movie:
		if m, err := h.catalog.MovieByID(s.ID); err == nil {
			return m.VoteCount
		}
	case media.TV:
		if sh, err := h.catalog.ShowByID(s.ID); err == nil {
			return sh.VoteCount
		}
	}
	return 0
}
