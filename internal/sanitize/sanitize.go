// Package sanitize strips user supplied HTML down to what posts and forms may contain.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy = newContentPolicy()
	textPolicy    = bluemonday.StrictPolicy()
)

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "b", "i", "u", "strong", "em")
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)
	return p
}

// Content keeps basic inline formatting and links.
func Content(s string) string {
	return strings.TrimSpace(contentPolicy.Sanitize(s))
}

// Text removes all markup.
func Text(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
