package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/merchkit/downloads-backend/internal/domain"
	"github.com/merchkit/downloads-backend/internal/service/search"
)

type searchService interface {
	Search(ctx context.Context, in search.Input) ([]domain.ResultItem, error)
}

// SearchHandler serves the downloads autocomplete endpoint.
type SearchHandler struct {
	log *slog.Logger
	svc searchService
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(logger *slog.Logger, svc searchService) *SearchHandler {
	return &SearchHandler{
		log: logger.With("handler", "search"),
		svc: svc,
	}
}

// Search handles GET /api/v1/downloads/search.
//
// Query parameters:
//
//	s               search text (absent means empty)
//	current_id      repeatable product ids to exclude from results
//	no_bundles      exclude bundle products
//	variations      expand price options into rows
//	variations_only only option rows for variable-priced products
//
// The response is a JSON array of {id, name} rows in ranked order.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := search.Input{
		Text:           q.Get("s"),
		ExcludeIDs:     parseExcludeIDs(q["current_id"]),
		NoBundles:      parseLenientBool(q.Get("no_bundles")),
		Variations:     parseLenientBool(q.Get("variations")),
		VariationsOnly: parseLenientBool(q.Get("variations_only")),
	}

	results, err := h.svc.Search(r.Context(), in)
	if err != nil {
		h.log.ErrorContext(r.Context(), "search failed",
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// parseExcludeIDs coerces repeatable current_id values to non-negative
// integers, dropping anything that does not parse, and de-duplicates while
// preserving first-seen order.
func parseExcludeIDs(values []string) []int64 {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(values))
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id < 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

// parseLenientBool accepts the usual truthy strings; everything else,
// including absence, is false.
func parseLenientBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
