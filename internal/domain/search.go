package domain

// ResultItem is one selectable row of an autocomplete response.
// ID is either a bare product id ("42") or "<product_id>_<option_key>" for an
// expanded price-option row.
type ResultItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchState is the cached outcome of the most recent search. Text always
// reflects the query that produced Results; the two fields are read and
// written together, never partially.
type SearchState struct {
	Text    string       `json:"text"`
	Results []ResultItem `json:"results"`
}

// EmptySearchState returns the zero state used when nothing is cached.
func EmptySearchState() SearchState {
	return SearchState{Text: "", Results: []ResultItem{}}
}
