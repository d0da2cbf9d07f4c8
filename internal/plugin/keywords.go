package plugin

import (
	"fmt"
	"strings"
)

// Keywords is an ordered set of query keywords matched by case-insensitive
// substring containment. The match is not tokenized: "created_at" contains
// CREATE.
type Keywords []string

// AnyIn reports whether the query contains at least one keyword.
func (k Keywords) AnyIn(query string) bool {
	upper := strings.ToUpper(query)
	for _, kw := range k {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// AllIn reports whether the query contains every keyword.
func (k Keywords) AllIn(query string) bool {
	upper := strings.ToUpper(query)
	for _, kw := range k {
		if !strings.Contains(upper, kw) {
			return false
		}
	}
	return true
}

// String renders the set as "[A, B, C]".
func (k Keywords) String() string {
	return fmt.Sprintf("[%s]", strings.Join(k, ", "))
}
