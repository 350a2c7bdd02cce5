package dispatch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// Policy restricts which hosts "open" may navigate to. Patterns are globs
// over the host name with '.' as separator, so "*.example.com" matches
// "docs.example.com" but not "example.com".
type Policy struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewPolicy compiles allow and deny host patterns.
func NewPolicy(allowed, denied []string) (*Policy, error) {
	p := &Policy{}
	for _, pattern := range allowed {
		g, err := glob.Compile(strings.ToLower(pattern), '.')
		if err != nil {
			return nil, fmt.Errorf("invalid allowed host pattern '%s': %w", pattern, err)
		}
		p.allowed = append(p.allowed, g)
	}
	for _, pattern := range denied {
		g, err := glob.Compile(strings.ToLower(pattern), '.')
		if err != nil {
			return nil, fmt.Errorf("invalid denied host pattern '%s': %w", pattern, err)
		}
		p.denied = append(p.denied, g)
	}
	return p, nil
}

// Allows reports whether rawURL may be opened. Denied patterns take
// precedence; with no allowed patterns every other host is allowed.
func (p *Policy) Allows(rawURL string) bool {
	if p == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())

	for _, g := range p.denied {
		if g.Match(host) {
			return false
		}
	}
	if len(p.allowed) == 0 {
		return true
	}
	for _, g := range p.allowed {
		if g.Match(host) {
			return true
		}
	}
	return false
}

// NormalizeURL turns a spoken URL token into an absolute URL: a token
// without a scheme gets https://, and one without a dot gets .com.
func NormalizeURL(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "http") {
		return token
	}
	if !strings.Contains(token, ".") {
		token += ".com"
	}
	return "https://" + token
}
