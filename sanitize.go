package mailkit

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

// EmailPolicy returns the bluemonday policy used for sanitizing rendered
// email content. It allows the formatting elements that markdown templates
// produce (headings, paragraphs, emphasis, lists, code, images, links with
// the button class) and strips scripts, event handlers, and javascript: URLs.
func EmailPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements(
			"h1", "h2", "h3", "h4",
			"p", "br", "hr",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"table", "thead", "tbody", "tr", "th", "td",
			"code", "pre", "blockquote",
		)
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
		p.AllowAttrs("src", "alt").OnElements("img")
		emailPolicy = p
	})
	return emailPolicy
}

// SanitizeHTML applies the email policy to arbitrary HTML.
// Use for user-generated content embedded into messages outside the renderer.
func SanitizeHTML(s string) string {
	return EmailPolicy().Sanitize(s)
}
