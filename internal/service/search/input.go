package search

// Input carries one autocomplete request into the service. Text is raw user
// input; normalization happens inside Search.
type Input struct {
	Text string

	// ExcludeIDs removes products already selected in the widget from the
	// results. De-duplicated by the transport layer.
	ExcludeIDs []int64

	// NoBundles excludes products whose type metadata marks them as bundles.
	// Products with no type metadata are kept.
	NoBundles bool

	// Variations expands named price options into individual rows.
	Variations bool

	// VariationsOnly suppresses the base row of variable-priced products,
	// leaving only their option rows. Products without price options keep
	// their base row regardless.
	VariationsOnly bool
}
