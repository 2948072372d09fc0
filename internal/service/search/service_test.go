package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/downloads-backend/internal/auth"
	"github.com/merchkit/downloads-backend/internal/domain"
	"github.com/merchkit/downloads-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockCatalog struct {
	SearchTitlesFunc  func(ctx context.Context, q domain.ProductQuery) ([]domain.ProductTitle, error)
	PriceOptionsFunc  func(ctx context.Context, productID int64) ([]domain.PriceOption, error)
	searchTitlesCalls int
}

func (m *mockCatalog) SearchTitles(ctx context.Context, q domain.ProductQuery) ([]domain.ProductTitle, error) {
	m.searchTitlesCalls++
	return m.SearchTitlesFunc(ctx, q)
}

func (m *mockCatalog) PriceOptions(ctx context.Context, productID int64) ([]domain.PriceOption, error) {
	if m.PriceOptionsFunc == nil {
		return nil, nil
	}
	return m.PriceOptionsFunc(ctx, productID)
}

type mockCache struct {
	GetFunc  func(ctx context.Context) (domain.SearchState, error)
	SetFunc  func(ctx context.Context, state domain.SearchState) error
	setCalls int
	lastSet  domain.SearchState
}

func (m *mockCache) Get(ctx context.Context) (domain.SearchState, error) {
	if m.GetFunc == nil {
		return domain.EmptySearchState(), nil
	}
	return m.GetFunc(ctx)
}

func (m *mockCache) Set(ctx context.Context, state domain.SearchState) error {
	m.setCalls++
	m.lastSet = state
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, state)
}

func newTestService(catalog *mockCatalog, cache *mockCache) *Service {
	return NewService(slog.Default(), catalog, cache, Options{})
}

func managerCtx() context.Context {
	return ctxutil.WithIdentity(context.Background(), ctxutil.Identity{
		UserID: uuid.New(),
		Role:   auth.RoleManager,
	})
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSearchCacheHitSkipsCatalog(t *testing.T) {
	cachedResults := []domain.ResultItem{{ID: "3", Name: "Sticker Pack"}}
	cache := &mockCache{
		GetFunc: func(context.Context) (domain.SearchState, error) {
			return domain.SearchState{Text: "sticker", Results: cachedResults}, nil
		},
	}
	catalog := &mockCatalog{
		SearchTitlesFunc: func(context.Context, domain.ProductQuery) ([]domain.ProductTitle, error) {
			return nil, errors.New("must not be called")
		},
	}
	svc := newTestService(catalog, cache)

	got, err := svc.Search(context.Background(), Input{Text: "sticker"})
	require.NoError(t, err)
	assert.Equal(t, cachedResults, got)
	assert.Equal(t, 0, catalog.searchTitlesCalls)
	assert.Equal(t, 0, cache.setCalls)
}

func TestSearchCacheHitComparesNormalizedText(t *testing.T) {
	// "sticker!" normalizes to "sticker " which differs from the cached
	// "sticker", so the catalog must be queried.
	cache := &mockCache{
		GetFunc: func(context.Context) (domain.SearchState, error) {
			return domain.SearchState{Text: "sticker", Results: []domain.ResultItem{}}, nil
		},
	}
	catalog := &mockCatalog{
		SearchTitlesFunc: func(context.Context, domain.ProductQuery) ([]domain.ProductTitle, error) {
			return []domain.ProductTitle{}, nil
		},
	}
	svc := newTestService(catalog, cache)

	_, err := svc.Search(context.Background(), Input{Text: "sticker!"})
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.searchTitlesCalls)
}

func TestSearchMissQueriesAndCaches(t *testing.T) {
	var gotQuery domain.ProductQuery
	catalog := &mockCatalog{
		SearchTitlesFunc: func(_ context.Context, q domain.ProductQuery) ([]domain.ProductTitle, error) {
			gotQuery = q
			return []domain.ProductTitle{{ID: 7, Title: "Poster Bundle"}}, nil
		},
	}
	cache := &mockCache{}
	svc := newTestService(catalog, cache)

	got, err := svc.Search(context.Background(), Input{
		Text:       "poster, deluxe!",
		ExcludeIDs: []int64{7, 9},
		NoBundles:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"poster", "deluxe"}, gotQuery.Terms)
	assert.Equal(t, []domain.Status{domain.StatusPublished}, gotQuery.Statuses)
	assert.Equal(t, []int64{7, 9}, gotQuery.ExcludeIDs)
	assert.True(t, gotQuery.ExcludeBundles)
	assert.Equal(t, 50, gotQuery.Limit)

	assert.Equal(t, []domain.ResultItem{{ID: "7", Name: "Poster Bundle"}}, got)

	require.Equal(t, 1, cache.setCalls)
	assert.Equal(t, "poster  deluxe ", cache.lastSet.Text)
	assert.Equal(t, got, cache.lastSet.Results)
}

func TestSearchPrivilegedStatuses(t *testing.T) {
	var gotQuery domain.ProductQuery
	catalog := &mockCatalog{
		SearchTitlesFunc: func(_ context.Context, q domain.ProductQuery) ([]domain.ProductTitle, error) {
			gotQuery = q
			return []domain.ProductTitle{}, nil
		},
	}
	svc := newTestService(catalog, &mockCache{})

	_, err := svc.Search(managerCtx(), Input{Text: "draft theme"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Status{
		domain.StatusPublished, domain.StatusDraft,
		domain.StatusPrivate, domain.StatusScheduled,
	}, gotQuery.Statuses)
}

func TestSearchViewerGetsPublicStatuses(t *testing.T) {
	var gotQuery domain.ProductQuery
	catalog := &mockCatalog{
		SearchTitlesFunc: func(_ context.Context, q domain.ProductQuery) ([]domain.ProductTitle, error) {
			gotQuery = q
			return []domain.ProductTitle{}, nil
		},
	}
	svc := newTestService(catalog, &mockCache{})

	ctx := ctxutil.WithIdentity(context.Background(), ctxutil.Identity{
		UserID: uuid.New(),
		Role:   auth.RoleViewer,
	})
	_, err := svc.Search(ctx, Input{Text: "theme"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Status{domain.StatusPublished}, gotQuery.Statuses)
}

func TestSearchEmptyTermsStillQueries(t *testing.T) {
	// A cold cache holds text "", which only matches an equally empty query.
	// Text that normalizes to nothing but isn't empty ("!" becomes " ") must
	// hit the catalog with no term restriction.
	var gotQuery domain.ProductQuery
	catalog := &mockCatalog{
		SearchTitlesFunc: func(_ context.Context, q domain.ProductQuery) ([]domain.ProductTitle, error) {
			gotQuery = q
			return []domain.ProductTitle{}, nil
		},
	}
	svc := newTestService(catalog, &mockCache{})

	_, err := svc.Search(context.Background(), Input{Text: "!"})
	require.NoError(t, err)
	assert.Empty(t, gotQuery.Terms)
}

func TestSearchColdCacheEmptyTextShortCircuits(t *testing.T) {
	// The zero cache state has text "", so an empty query is a hit and
	// returns the empty result list without touching the catalog.
	catalog := &mockCatalog{
		SearchTitlesFunc: func(context.Context, domain.ProductQuery) ([]domain.ProductTitle, error) {
			return nil, errors.New("must not be called")
		},
	}
	svc := newTestService(catalog, &mockCache{})

	got, err := svc.Search(context.Background(), Input{Text: ""})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, catalog.searchTitlesCalls)
}

func TestSearchCacheReadErrorIsAMiss(t *testing.T) {
	cache := &mockCache{
		GetFunc: func(context.Context) (domain.SearchState, error) {
			return domain.SearchState{}, errors.New("redis down")
		},
	}
	catalog := &mockCatalog{
		SearchTitlesFunc: func(context.Context, domain.ProductQuery) ([]domain.ProductTitle, error) {
			return []domain.ProductTitle{{ID: 1, Title: "Wallpaper"}}, nil
		},
	}
	svc := newTestService(catalog, cache)

	got, err := svc.Search(context.Background(), Input{Text: "wallpaper"})
	require.NoError(t, err)
	assert.Equal(t, []domain.ResultItem{{ID: "1", Name: "Wallpaper"}}, got)
	assert.Equal(t, 1, catalog.searchTitlesCalls)
}

func TestSearchCacheWriteErrorIsIgnored(t *testing.T) {
	cache := &mockCache{
		SetFunc: func(context.Context, domain.SearchState) error {
			return errors.New("redis down")
		},
	}
	catalog := &mockCatalog{
		SearchTitlesFunc: func(context.Context, domain.ProductQuery) ([]domain.ProductTitle, error) {
			return []domain.ProductTitle{{ID: 1, Title: "Wallpaper"}}, nil
		},
	}
	svc := newTestService(catalog, cache)

	got, err := svc.Search(context.Background(), Input{Text: "wallpaper"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearchCatalogErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	catalog := &mockCatalog{
		SearchTitlesFunc: func(context.Context, domain.ProductQuery) ([]domain.ProductTitle, error) {
			return nil, boom
		},
	}
	cache := &mockCache{}
	svc := newTestService(catalog, cache)

	_, err := svc.Search(context.Background(), Input{Text: "poster"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.setCalls)
}

func TestSearchRepeatedQueryUsesCachedResults(t *testing.T) {
	// Simulates the TTL window: the first call populates the cache, the
	// second call with identical raw text returns the same list without a
	// second catalog round-trip.
	store := domain.EmptySearchState()
	cache := &mockCache{
		GetFunc: func(context.Context) (domain.SearchState, error) { return store, nil },
		SetFunc: func(_ context.Context, s domain.SearchState) error { store = s; return nil },
	}
	catalog := &mockCatalog{
		SearchTitlesFunc: func(context.Context, domain.ProductQuery) ([]domain.ProductTitle, error) {
			return []domain.ProductTitle{{ID: 42, Title: "Audio Loops"}}, nil
		},
	}
	svc := newTestService(catalog, cache)

	first, err := svc.Search(context.Background(), Input{Text: "audio"})
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), Input{Text: "audio"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, catalog.searchTitlesCalls)
}
