package naming

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders names with locale-aware comparison. Names the locale
// considers equal are ordered by their bytes, so the order is total.
//
// A Collator must not be shared between goroutines.
type Collator struct {
	c *collate.Collator
}

// NewCollator returns a Collator for the root locale.
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.Und)}
}

// Compare returns -1, 0 or 1.
func (c *Collator) Compare(a, b string) int {
	if n := c.c.CompareString(a, b); n != 0 {
		return n
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Less reports whether a sorts before b.
func (c *Collator) Less(a, b string) bool {
	return c.Compare(a, b) < 0
}
