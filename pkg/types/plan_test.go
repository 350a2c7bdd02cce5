package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepNormalizedAndCommand(t *testing.T) {
	s := Step{Action: " Click ", Target: " JQ Tutorial "}.Normalized()
	assert.Equal(t, ActionClick, s.Action)
	assert.Equal(t, "JQ Tutorial", s.Target)
	assert.Equal(t, "click JQ Tutorial", s.Command())

	assert.Equal(t, "summarize", Step{Action: ActionSummarize}.Command())
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusListening.Active())
	assert.True(t, StatusProcessing.Active())
	assert.False(t, StatusReady.Active())

	var got Status
	StatusFunc(func(s Status) { got = s }).SetStatus(StatusProcessing)
	assert.Equal(t, StatusProcessing, got)
}
