// Package sanitize strips markup from user-supplied free text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding are peeled off.
const maxPasses = 8

// Text removes every tag, including tags hidden behind (nested) entity
// encoding, and collapses whitespace. The result is plain text with
// entities decoded.
func Text(s string) string {
	cur := s
	stable := false
	for range maxPasses {
		next := html.UnescapeString(strict.Sanitize(html.UnescapeString(cur)))
		if next == cur {
			stable = true
			break
		}
		cur = next
	}
	if !stable {
		cur = strings.NewReplacer("<", "", ">", "").Replace(cur)
	}
	return strings.Join(strings.Fields(cur), " ")
}

// TextPtr is Text for optional fields. Blank input yields nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Text(*s)
	if v == "" {
		return nil
	}
	return &v
}
