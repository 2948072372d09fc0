package search

import (
	"context"
	"fmt"
	"html"

	"github.com/merchkit/downloads-backend/internal/domain"
)

// allPriceOptionsSuffix marks a base row that stands for every price option
// of a variable-priced product.
const allPriceOptionsSuffix = " (All Price Options)"

// priceLookup resolves the ordered price options of a product. An empty slice
// means the product has single pricing.
type priceLookup func(ctx context.Context, productID int64) ([]domain.PriceOption, error)

// shapeResults turns catalog title matches into the flat response list.
//
// Per matched product, in input order:
//  1. variable-priced products get the "(All Price Options)" suffix on their
//     base row, except when the caller asked for variations and for variations
//     only (the base row is suppressed then anyway);
//  2. the base row is suppressed only when price options exist and
//     variationsOnly is set — a product without options always keeps its base
//     row, even under variationsOnly;
//  3. with variations enabled, each named price option becomes its own row
//     with id "<product_id>_<option_key>" and the original title (without the
//     suffix) as prefix. Options with empty names are skipped.
//
// Any lookup error aborts shaping: the response is never partial.
func shapeResults(ctx context.Context, titles []domain.ProductTitle, variations, variationsOnly bool, prices priceLookup) ([]domain.ResultItem, error) {
	results := []domain.ResultItem{}

	for _, p := range titles {
		options, err := prices(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("price options for product %d: %w", p.ID, err)
		}

		display := p.Title
		if len(options) > 0 && (!variations || !variationsOnly) {
			display += allPriceOptionsSuffix
		}

		if len(options) == 0 || !variationsOnly {
			results = append(results, domain.ResultItem{
				ID:   fmt.Sprintf("%d", p.ID),
				Name: display,
			})
		}

		if !variations || len(options) == 0 {
			continue
		}

		for _, opt := range options {
			if opt.Name == "" {
				continue
			}
			results = append(results, domain.ResultItem{
				ID:   fmt.Sprintf("%d_%s", p.ID, opt.Key),
				Name: html.EscapeString(p.Title + ": " + opt.Name),
			})
		}
	}

	return results, nil
}
