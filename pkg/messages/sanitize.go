package messages

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// maxSanitizePasses bounds the strip/unescape loop for nested entity encoding.
const maxSanitizePasses = 8

// Catalog entries end up in JSON consumed by a browser renderer, so markup is
// stripped while plain punctuation is restored after sanitizing. Unescaping
// can surface entity-encoded markup, so passes repeat until the text is
// stable; text that never settles is returned in its escaped form.
func sanitize(policy *bluemonday.Policy, raw string) string {
	current := strings.TrimSpace(raw)
	if current == "" || policy == nil {
		return current
	}
	for i := 0; i < maxSanitizePasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(policy.Sanitize(current)))
		if next == current {
			return next
		}
		current = next
	}
	return strings.TrimSpace(policy.Sanitize(current))
}

func defaultPolicy() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}
