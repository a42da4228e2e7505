package services

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DefaultBlockList holds the author names masked in comments.
var DefaultBlockList = []string{
	"донцова",
	"спаркс",
	"джеймс",
	"майер",
	"коэльо",
}

// Censor masks comment text that, case-folded, is exactly a blocked word.
// Matching is on the whole text: no partial matches, no punctuation stripping.
type Censor struct {
	blocked map[string]struct{}
}

// NewCensor builds a censor over words. Words are folded the same way input is.
func NewCensor(words []string) *Censor {
	c := &Censor{blocked: make(map[string]struct{}, len(words))}
	for _, w := range words {
		c.blocked[fold(w)] = struct{}{}
	}
	return c
}

// Sanitize returns text unchanged, or a run of '*' as long (in runes) as the
// folded text when it matches a blocked word.
func (c *Censor) Sanitize(text string) string {
	folded := fold(text)
	if _, ok := c.blocked[folded]; !ok {
		return text
	}
	return strings.Repeat("*", utf8.RuneCountInString(folded))
}

func fold(s string) string {
	// cases.Caser is stateful, so each call gets its own.
	return cases.Fold().String(s)
}
