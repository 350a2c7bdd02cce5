// Package synth asks the completion service about the current page: for a
// selector when structural lookups fail, and for single-shot summaries and
// extractions. Selector synthesis never returns an error; a failed call is
// simply an unparseable result and the caller moves to its next tier.
package synth

import (
	"context"
	"fmt"

	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/config"
	"github.com/entrhq/voicenav/pkg/llm"
	"github.com/entrhq/voicenav/pkg/llm/parser"
	"github.com/entrhq/voicenav/pkg/logging"
)

// Synthesizer builds prompts from page snapshots and interprets replies.
type Synthesizer struct {
	provider  llm.Provider
	describer llm.Provider
	cfg       config.LLMConfig
	logger    *logging.Logger
}

// New creates a synthesizer. describer answers summarize and extract
// requests; nil means provider.
func New(provider, describer llm.Provider, cfg config.LLMConfig, logger *logging.Logger) *Synthesizer {
	if describer == nil {
		describer = provider
	}
	return &Synthesizer{provider: provider, describer: describer, cfg: cfg, logger: logger}
}

// Snapshot returns the cleaned, truncated markup of page used in prompts.
func (s *Synthesizer) Snapshot(page browser.Page) (string, error) {
	raw, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return browser.Snapshot(raw, s.cfg.SnapshotChars), nil
}

// Synthesize asks for a selector matching target on page.
func (s *Synthesizer) Synthesize(ctx context.Context, page browser.Page, kind Kind, target string) parser.SelectorResult {
	if s.provider == nil {
		return parser.Unparseable
	}
	snapshot, err := s.Snapshot(page)
	if err != nil {
		s.logger.Warnf("selector synthesis for %q: %v", target, err)
		return parser.Unparseable
	}

	raw, err := s.provider.Complete(ctx, llm.Request{
		Prompt:    selectorPrompt(kind, target, snapshot),
		MaxTokens: s.cfg.SelectorMaxTokens,
	})
	if err != nil {
		s.logger.Warnf("selector synthesis for %q failed: %v", target, err)
		return parser.Unparseable
	}

	res := parser.ParseSelector(raw)
	s.logger.Debugf("selector synthesis (%s) for %q: raw=%q selector=%q strategy=%s", kind, target, raw, res.Selector, res.Strategy)
	return res
}

// Summarize describes the main content of page in a few sentences.
func (s *Synthesizer) Summarize(ctx context.Context, page browser.Page) (string, error) {
	snapshot, err := s.Snapshot(page)
	if err != nil {
		return "", err
	}
	return s.describe(ctx, summaryPrompt(snapshot), s.cfg.SummaryMaxTokens)
}

// Extract lists what page says about target.
func (s *Synthesizer) Extract(ctx context.Context, page browser.Page, target string) (string, error) {
	snapshot, err := s.Snapshot(page)
	if err != nil {
		return "", err
	}
	return s.describe(ctx, extractPrompt(target, snapshot), s.cfg.ExtractMaxTokens)
}

// Complete sends an arbitrary prompt to the primary provider.
func (s *Synthesizer) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("no completion provider configured")
	}
	return s.provider.Complete(ctx, llm.Request{Prompt: prompt, MaxTokens: maxTokens})
}

func (s *Synthesizer) describe(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if s.describer == nil {
		return "", fmt.Errorf("no completion provider configured")
	}
	out, err := s.describer.Complete(ctx, llm.Request{Prompt: prompt, MaxTokens: maxTokens})
	if err != nil {
		return "", fmt.Errorf("describe request failed: %w", err)
	}
	return out, nil
}
