package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbes(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		wantFirst string
	}{
		{name: "email", field: "Email", wantFirst: `input[type="email"]`},
		{name: "email wins over user", field: "user email", wantFirst: `input[type="email"]`},
		{name: "username", field: "username", wantFirst: `input[name*="user"]`},
		{name: "login maps to username", field: "login", wantFirst: `input[name*="user"]`},
		{name: "password", field: "Password", wantFirst: `input[type="password"]`},
		{name: "search", field: "search bar", wantFirst: `input[type="search"]`},
		{name: "generic", field: "City", wantFirst: `input[name*="city"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probes := Probes(tt.field)
			assert.NotEmpty(t, probes)
			assert.Equal(t, tt.wantFirst, probes[0])
		})
	}
}

func TestGenericProbesEndWithTextInputs(t *testing.T) {
	probes := Probes("zip code")
	assert.Equal(t, []string{
		`input[name*="zip code"]`,
		`input[id*="zip code"]`,
		`input[placeholder*="zip code"]`,
		`input[aria-label*="zip code"]`,
		`input[type="text"]`,
		`textarea`,
	}, probes)

	assert.Equal(t, []string{`input[type="text"]`, `textarea`}, Probes("  "))
}

func TestListsAreCopies(t *testing.T) {
	first := Password()
	first[0] = "mutated"
	assert.Equal(t, `input[type="password"]`, Password()[0])

	probes := Probes("email")
	probes[0] = "mutated"
	assert.Equal(t, `input[type="email"]`, Probes("email")[0])
}

func TestClickableOrder(t *testing.T) {
	assert.Equal(t, "a", Clickable()[0])
	assert.Equal(t, "[aria-label]", Clickable()[len(Clickable())-1])
	assert.Equal(t, []string{"button", "a"}, Suggestable())
}
