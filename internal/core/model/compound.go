package model

import "strings"

// StdCompoundID normalizes a compound id by keeping only the first two
// dash-separated fields, e.g. "SP-123-45" -> "SP-123".
func StdCompoundID(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) > 2 {
		return strings.Join(parts[:2], "-")
	}
	return id
}
