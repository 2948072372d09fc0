// Package product implements catalog queries against PostgreSQL. The search
// query is assembled with squirrel so every term is a bound parameter, never
// string-concatenated SQL.
package product

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/merchkit/downloads-backend/internal/adapter/postgres"
	"github.com/merchkit/downloads-backend/internal/domain"
)

const defaultLimit = 50

// psql builds queries with $N placeholders for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides read access to the product catalog.
type Repo struct {
	q postgres.Querier
}

// New creates a product repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// SearchTitles returns products whose title contains every query term
// (case-insensitive), restricted by status and exclusion list, ordered by
// title ascending and capped at the query limit.
//
// With ExcludeBundles set, products whose "product_type" meta equals "bundle"
// are filtered out; products without that meta row are kept.
func (r *Repo) SearchTitles(ctx context.Context, q domain.ProductQuery) ([]domain.ProductTitle, error) {
	limit := q.Limit
	if limit <= 0 || limit > defaultLimit {
		limit = defaultLimit
	}

	b := psql.Select("p.id", "p.title").
		From("products p").
		OrderBy("p.title ASC").
		Limit(uint64(limit))

	for _, term := range q.Terms {
		b = b.Where(sq.ILike{"p.title": "%" + escapeLike(term) + "%"})
	}

	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		b = b.Where(sq.Eq{"p.status": statuses})
	}

	if len(q.ExcludeIDs) > 0 {
		b = b.Where(sq.NotEq{"p.id": q.ExcludeIDs})
	}

	if q.ExcludeBundles {
		b = b.LeftJoin("product_meta m ON m.product_id = p.id AND m.meta_key = 'product_type'").
			Where(sq.Or{
				sq.Expr("m.meta_value IS NULL"),
				sq.NotEq{"m.meta_value": domain.ProductTypeBundle},
			})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "search products")
	}
	defer rows.Close()

	titles := []domain.ProductTitle{}
	for rows.Next() {
		var t domain.ProductTitle
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, fmt.Errorf("scan product title: %w", err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "search products")
	}

	return titles, nil
}

// PriceOptions returns the ordered price options of a product. An empty
// slice means single pricing.
func (r *Repo) PriceOptions(ctx context.Context, productID int64) ([]domain.PriceOption, error) {
	sql, args, err := psql.Select("option_key", "name", "amount", "position").
		From("product_price_options").
		Where(sq.Eq{"product_id": productID}).
		OrderBy("position ASC", "option_key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build price options query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "price options")
	}
	defer rows.Close()

	options := []domain.PriceOption{}
	for rows.Next() {
		var o domain.PriceOption
		if err := rows.Scan(&o.Key, &o.Name, &o.Amount, &o.Position); err != nil {
			return nil, fmt.Errorf("scan price option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "price options")
	}

	return options, nil
}

// escapeLike neutralizes LIKE wildcards in user terms so they match
// literally.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
