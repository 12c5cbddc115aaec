package catalog

import "golang.org/x/text/cases"

// fold returns the case-folded form of s. A new Caser is created per call
// because Casers keep state and are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}
