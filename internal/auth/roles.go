package auth

// Catalog roles carried in access tokens.
const (
	RoleViewer  = "viewer"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// CanManageCatalog reports whether the role may see unpublished products
// (draft, private, scheduled) in search results.
func CanManageCatalog(role string) bool {
	return role == RoleManager || role == RoleAdmin
}
