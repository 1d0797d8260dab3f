package content

import (
	"html"
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	// long-form fields keep basic formatting and links
	richPolicy = bluemonday.UGCPolicy()
)

// plain strips all markup. Entities escaped by the sanitizer are decoded
// again since the value is stored as text, not HTML.
func plain(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// rich keeps text without markup exactly as given and passes anything else
// through the formatting policy.
func rich(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || html.UnescapeString(strictPolicy.Sanitize(s)) == s {
		return s
	}
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// plainList sanitizes every element and drops empties.
func plainList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = plain(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// slugify transliterates to ASCII, so "Ứng dụng" becomes "ung-dung".
func slugify(s string) string {
	return slug.Make(s)
}
