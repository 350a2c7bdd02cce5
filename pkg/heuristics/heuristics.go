// Package heuristics maps semantic field and role names to ordered lists of
// structural probes (CSS attribute selectors) used when a page offers no
// accessible metadata for the element being looked for.
//
// The mapping is a table. Adding a new field kind means adding a row to
// fieldTable; call sites never branch on field names themselves.
package heuristics

import (
	"fmt"
	"strings"
)

// row binds a set of trigger keywords to the probes tried for matching fields.
type row struct {
	keywords []string
	probes   []string
}

// fieldTable is consulted top to bottom; the first row whose keyword occurs in
// the requested field name wins. Order matters: "email" must be checked before
// "user" so that "user email" resolves to email probes.
var fieldTable = []row{
	{
		keywords: []string{"email"},
		probes: []string{
			`input[type="email"]`,
			`input[name*="email"]`,
			`input[id*="email"]`,
			`input[placeholder*="email"]`,
			`input[aria-label*="email"]`,
		},
	},
	{
		keywords: []string{"user", "username", "login"},
		probes: []string{
			`input[name*="user"]`,
			`input[id*="user"]`,
			`input[placeholder*="user"]`,
			`input[aria-label*="user"]`,
			`input[type="text"]`,
		},
	},
	{
		keywords: []string{"pass", "password"},
		probes: []string{
			`input[type="password"]`,
			`input[name*="pass"]`,
			`input[id*="pass"]`,
			`input[placeholder*="pass"]`,
			`input[aria-label*="pass"]`,
		},
	},
	{
		keywords: []string{"search"},
		probes: []string{
			`input[type="search"]`,
			`input[name*="search"]`,
			`input[id*="search"]`,
			`input[placeholder*="Search"]`,
			`input[aria-label*="Search"]`,
			`input[placeholder*="search"]`,
			`input[aria-label*="search"]`,
			`input[type="text"]`,
		},
	},
}

// Named probe lists shared by the intents that need them.
var (
	username = []string{
		`input[type="email"]`,
		`input[name*="email"]`,
		`input[id*="email"]`,
		`input[type="text"]`,
		`input[name*="user"]`,
		`input[id*="user"]`,
	}
	password = []string{
		`input[type="password"]`,
		`input[name*="pass"]`,
		`input[id*="pass"]`,
	}
	submit = []string{
		`button[type="submit"]`,
		`input[type="submit"]`,
		`button`,
		`input[type="button"]`,
	}
	clickable = []string{
		`a`,
		`button`,
		`[role=button]`,
		`[role=link]`,
		`[tabindex="0"]`,
		`[onclick]`,
		`[data-testid]`,
		`[aria-label]`,
	}
	suggestable = []string{`button`, `a`}
	inputs      = []string{`input, textarea`}
)

// Probes returns the ordered probes for a free-form field name such as
// "email", "user name" or "shipping address".
func Probes(field string) []string {
	f := strings.ToLower(strings.TrimSpace(field))
	for _, r := range fieldTable {
		for _, kw := range r.keywords {
			if strings.Contains(f, kw) {
				return clone(r.probes)
			}
		}
	}
	return generic(f)
}

func generic(field string) []string {
	if field == "" {
		return []string{`input[type="text"]`, `textarea`}
	}
	escaped := strings.ReplaceAll(field, `"`, `\"`)
	return []string{
		fmt.Sprintf(`input[name*="%s"]`, escaped),
		fmt.Sprintf(`input[id*="%s"]`, escaped),
		fmt.Sprintf(`input[placeholder*="%s"]`, escaped),
		fmt.Sprintf(`input[aria-label*="%s"]`, escaped),
		`input[type="text"]`,
		`textarea`,
	}
}

// Username returns probes for a login identifier field (email or user name).
func Username() []string { return clone(username) }

// Password returns probes for a password field.
func Password() []string { return clone(password) }

// Submit returns probes for a form submit control.
func Submit() []string { return clone(submit) }

// Search returns probes for a site search box.
func Search() []string { return Probes("search") }

// Clickable returns the selectors scanned when collecting clickable candidates.
func Clickable() []string { return clone(clickable) }

// Suggestable returns the selectors scanned for the "try one of these" listing.
func Suggestable() []string { return clone(suggestable) }

// Inputs returns the selectors scanned when listing visible text inputs.
func Inputs() []string { return clone(inputs) }

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
