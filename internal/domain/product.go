package domain

// Status is the publication state of a catalog product.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusPrivate   Status = "private"
	StatusScheduled Status = "scheduled"
)

// ParseStatus validates a status string. Unknown values return false.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPublished, StatusDraft, StatusPrivate, StatusScheduled:
		return Status(s), true
	}
	return "", false
}

// ProductTypeBundle marks a product assembled from other products.
// Stored in product_meta under the "product_type" key; products without the
// key are plain downloads.
const ProductTypeBundle = "bundle"

// ProductTitle is the minimal projection returned by a catalog title search.
type ProductTitle struct {
	ID    int64
	Title string
}

// PriceOption is a named, separately priced sub-option of a product
// ("variation"). Key is stable and unique within one product; Position
// preserves the merchant-defined order.
type PriceOption struct {
	Key      string
	Name     string
	Amount   int64 // minor currency units
	Position int
}

// ProductQuery describes a catalog title search. Terms are matched with
// case-insensitive substring containment, ANDed; an empty Terms slice means
// no title restriction at all.
type ProductQuery struct {
	Terms          []string
	Statuses       []Status
	ExcludeIDs     []int64
	ExcludeBundles bool

	// Limit caps the number of rows. Non-positive means the repository
	// default (50).
	Limit int
}
