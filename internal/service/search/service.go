// Package search implements the downloads autocomplete: term parsing,
// cache-first orchestration, and result shaping. Catalog access and the
// query cache are injected collaborators.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/merchkit/downloads-backend/internal/auth"
	"github.com/merchkit/downloads-backend/internal/domain"
	"github.com/merchkit/downloads-backend/pkg/ctxutil"
)

type catalogRepo interface {
	SearchTitles(ctx context.Context, q domain.ProductQuery) ([]domain.ProductTitle, error)
	PriceOptions(ctx context.Context, productID int64) ([]domain.PriceOption, error)
}

// stateCache holds the outcome of the most recent search. Implementations
// must expire entries on their own; Get after expiry returns the zero state.
type stateCache interface {
	Get(ctx context.Context) (domain.SearchState, error)
	Set(ctx context.Context, state domain.SearchState) error
}

// Options tunes the service. Zero values fall back to the defaults below.
type Options struct {
	// PrivilegedStatuses is the visibility set for callers who may manage
	// the catalog.
	PrivilegedStatuses []domain.Status

	// PublicStatuses is the visibility set for everyone else.
	PublicStatuses []domain.Status

	// Limit caps the number of catalog matches per request.
	Limit int
}

const defaultLimit = 50

func (o *Options) normalize() {
	if len(o.PrivilegedStatuses) == 0 {
		o.PrivilegedStatuses = []domain.Status{
			domain.StatusPublished, domain.StatusDraft,
			domain.StatusPrivate, domain.StatusScheduled,
		}
	}
	if len(o.PublicStatuses) == 0 {
		o.PublicStatuses = []domain.Status{domain.StatusPublished}
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
}

// Service answers autocomplete requests over the product catalog.
type Service struct {
	log     *slog.Logger
	catalog catalogRepo
	cache   stateCache
	opts    Options
}

// NewService creates the search service.
func NewService(logger *slog.Logger, catalog catalogRepo, cache stateCache, opts Options) *Service {
	opts.normalize()
	return &Service{
		log:     logger.With("service", "search"),
		catalog: catalog,
		cache:   cache,
		opts:    opts,
	}
}

// Search returns the shaped result list for one request.
//
// The flow is cache-first: when the normalized text matches the cached state,
// the cached results are returned and the catalog is never touched. On a miss
// the catalog is queried (title substring containment across all parsed
// terms, visibility by caller capability, exclusions, bundle filter), results
// are shaped, and the cache is overwritten. Cache failures in either
// direction degrade to a plain recompute and never fail the request; catalog
// failures propagate.
func (s *Service) Search(ctx context.Context, in Input) ([]domain.ResultItem, error) {
	text := domain.NormalizeSearchText(in.Text)

	cached, err := s.cache.Get(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "search cache read failed, treating as miss",
			slog.String("error", err.Error()),
		)
		cached = domain.EmptySearchState()
	}
	if cached.Text == text {
		return cached.Results, nil
	}

	query := domain.ProductQuery{
		Terms:          parseSearchTerms(text),
		Statuses:       s.statusesFor(ctx),
		ExcludeIDs:     in.ExcludeIDs,
		ExcludeBundles: in.NoBundles,
		Limit:          s.opts.Limit,
	}

	titles, err := s.catalog.SearchTitles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}

	results, err := shapeResults(ctx, titles, in.Variations, in.VariationsOnly, s.catalog.PriceOptions)
	if err != nil {
		return nil, fmt.Errorf("shape results: %w", err)
	}

	if err := s.cache.Set(ctx, domain.SearchState{Text: text, Results: results}); err != nil {
		s.log.WarnContext(ctx, "search cache write failed",
			slog.String("error", err.Error()),
		)
	}

	return results, nil
}

// statusesFor picks the visibility status list from the caller identity.
func (s *Service) statusesFor(ctx context.Context) []domain.Status {
	if id, ok := ctxutil.IdentityFromCtx(ctx); ok && auth.CanManageCatalog(id.Role) {
		return s.opts.PrivilegedStatuses
	}
	return s.opts.PublicStatuses
}
