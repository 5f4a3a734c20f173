// Package slug derives URL-safe identifiers from human-readable names and
// detects collisions between them.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

// Make lowercases s, folds accented letters to their base form and collapses
// every run of non-alphanumeric characters into a single hyphen. Leading and
// trailing hyphens are dropped.
//
//	Make("BMI Calculator")      // "bmi-calculator"
//	Make("Loan / Mortgage (EU)") // "loan-mortgage-eu"
//	Make("Café Crème")           // "cafe-creme"
func Make(s string) string {
	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ErrCollision is returned when two different owners derive the same slug.
var ErrCollision = derrors.ValidationError("slug collision").Build()

// ErrEmpty is returned when a name yields no usable characters.
var ErrEmpty = derrors.ValidationError("name produces an empty slug").Build()

// Registry hands out slugs within one namespace (for example "tools" or
// "blog") and refuses duplicates.
type Registry struct {
	namespace string
	owners    map[string]string
}

// NewRegistry creates an empty registry for namespace.
func NewRegistry(namespace string) *Registry {
	return &Registry{namespace: namespace, owners: make(map[string]string)}
}

// Claim derives the slug for name and records it. Claiming a slug already
// held by a different name fails with ErrCollision.
func (r *Registry) Claim(name string) (string, error) {
	s := Make(name)
	if s == "" {
		return "", ErrEmpty.WithContext("namespace", r.namespace).WithContext("name", name)
	}
	if prev, taken := r.owners[s]; taken {
		return "", ErrCollision.
			WithContext("namespace", r.namespace).
			WithContext("slug", s).
			WithContext("name", name).
			WithContext("conflicts_with", prev)
	}
	r.owners[s] = name
	return s, nil
}

// Reserve marks slugs as taken by generated pages so that no name can
// claim them.
func (r *Registry) Reserve(slugs ...string) *Registry {
	for _, s := range slugs {
		r.owners[s] = "(reserved)"
	}
	return r
}

// Len reports how many slugs have been claimed.
func (r *Registry) Len() int { return len(r.owners) }
