package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

// DisplayName trims a name and collapses inner whitespace, keeping the
// spelling and capitalisation the user typed.
func DisplayName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NameKey is the case-folded form of a display name used for uniqueness,
// so "  yellow   maize" and "Yellow Maize" collide on the unique indexes.
func NameKey(s string) string {
	return cases.Fold().String(DisplayName(s))
}
