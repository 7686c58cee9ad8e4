package engine

import "strings"

// NormalizeHandle folds a social handle so registered handles and observed
// engagers compare equal: lowercase, surrounding whitespace and the leading
// @ removed.
func NormalizeHandle(handle string) string {
	handle = strings.ToLower(strings.TrimSpace(handle))
	handle = strings.TrimPrefix(handle, "@")
	return strings.TrimSpace(handle)
}
