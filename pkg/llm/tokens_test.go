package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"blank", "   ", 0},
		{"single short word", "hi", 1},
		{"words dominate", "a b c d e", 5},
		{"runes dominate", "abcdefghijklmnopqrst", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.in))
		})
	}
}

func TestCountTokens(t *testing.T) {
	assert.Zero(t, CountTokens(""))
	assert.Positive(t, CountTokens("Given the following HTML, what is the best selector?"))
}

func TestProviderFunc(t *testing.T) {
	var got Request
	p := ProviderFunc(func(_ context.Context, req Request) (string, error) {
		got = req
		return "ok", nil
	})

	out, err := p.Complete(context.Background(), Request{Prompt: "x", MaxTokens: 10})
	assert.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 10, got.MaxTokens)
	assert.Equal(t, "func", p.GetModel())
}
