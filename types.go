package mailkit

import "fmt"

// Tags represents message tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs (using string values).
// Providers that only support tag names treat key-value tags as names;
// providers with name-value tags render presence-only tags as name="true".
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Address formats a display name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
