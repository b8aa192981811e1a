package utils

import "strings"

// Wildcard grants every permission.
const Wildcard = "*:*"

// HasPermission reports whether granted covers want ("entity:action").
// "*:*" covers everything and "entity:*" covers every action on entity.
func HasPermission(granted []string, want string) bool {
	entity, _, ok := strings.Cut(want, ":")
	if !ok {
		return false
	}
	for _, g := range granted {
		g = strings.TrimSpace(g)
		if g == Wildcard || g == want || g == entity+":*" {
			return true
		}
	}
	return false
}

// HasAnyPermission is true when at least one of wants is covered.
func HasAnyPermission(granted []string, wants ...string) bool {
	for _, w := range wants {
		if HasPermission(granted, w) {
			return true
		}
	}
	return false
}
