package core

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMarkers are the edit-operation keywords that flag a file as a
// derivative of some original. The list is ordered: prefix extraction tries
// markers in this order and stops at the first hit.
var DefaultMarkers = []string{"processed", "cut_and_crop", "cut", "crop"}

// DerivativeClassifier decides whether a file name denotes an edited copy of
// another file and recovers the presumed original's name.
//
// Two pattern families are tried against the name minus its extension, and
// the ordering between and within them is a deliberate tie-break that must
// not change: a name like "401652_cut_and_crop_9x16.mp4" satisfies both the
// "cut" and "cut_and_crop" suffix patterns, and compound markers must win.
//
//  1. prefix: ^{marker}_{digits}_(.+)$ in configured marker order
//  2. suffix: ^(.+)_{marker}(_|$) with markers sorted longest first
type DerivativeClassifier struct {
	markers  []string
	prefixes []*regexp.Regexp
	suffixes []*regexp.Regexp
}

// NewDerivativeClassifier builds a classifier for the given marker tokens.
// An empty list falls back to DefaultMarkers.
func NewDerivativeClassifier(markers ...string) *DerivativeClassifier {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}

	c := &DerivativeClassifier{markers: append([]string(nil), markers...)}
	for _, m := range c.markers {
		c.prefixes = append(c.prefixes,
			regexp.MustCompile(`(?i)^`+regexp.QuoteMeta(m)+`_(\d+)_(.+)$`))
	}

	byLength := append([]string(nil), c.markers...)
	sort.SliceStable(byLength, func(i, j int) bool {
		return len(byLength[i]) > len(byLength[j])
	})
	for _, m := range byLength {
		c.suffixes = append(c.suffixes,
			regexp.MustCompile(`(?i)^(.+)_`+regexp.QuoteMeta(m)+`(_|$)`))
	}
	return c
}

// Markers returns the configured marker tokens in their original order.
func (c *DerivativeClassifier) Markers() []string {
	return append([]string(nil), c.markers...)
}

// IsDerivative reports whether name contains any marker token.
func (c *DerivativeClassifier) IsDerivative(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range c.markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// BaseName recovers the presumed original file name from a derivative name.
// Names matching no pattern are returned unchanged: an entity is its own
// base.
func (c *DerivativeClassifier) BaseName(name string) string {
	stem, ext := SplitExtension(name)

	for _, re := range c.prefixes {
		if m := re.FindStringSubmatch(stem); m != nil {
			return m[2] + ext
		}
	}
	for _, re := range c.suffixes {
		if m := re.FindStringSubmatch(stem); m != nil {
			return m[1] + ext
		}
	}
	return name
}
