package services

// CanMutate reports whether acting may change a resource authored by owner.
// Identifiers must match exactly; an empty identifier never matches.
func CanMutate(acting, owner string) bool {
	return acting != "" && acting == owner
}
