package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/entrhq/voicenav/pkg/types"
)

// ErrUnparseablePlan is returned when no step list can be recovered.
var ErrUnparseablePlan = errors.New("unparseable plan")

var bracketed = regexp.MustCompile(`(?s)\[.*\]`)

// ParsePlan recovers an ordered step list from a completion. It tries the
// whole text as JSON, then the outermost bracketed slice, then the
// bracketed slice after JSON repair (single quotes, trailing commas,
// unquoted keys). Steps may be {"action","target"} objects or "action:
// target" strings. Steps without an action are dropped.
func ParsePlan(raw string) (types.Plan, error) {
	text := strings.TrimSpace(StripThinking(raw))

	if plan, err := decodePlan(text); err == nil {
		return plan, nil
	}

	slice := bracketed.FindString(text)
	if slice == "" {
		return nil, fmt.Errorf("%w: no step list found", ErrUnparseablePlan)
	}
	if plan, err := decodePlan(slice); err == nil {
		return plan, nil
	}

	repaired, err := jsonrepair.JSONRepair(slice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseablePlan, err)
	}
	plan, err := decodePlan(repaired)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseablePlan, err)
	}
	return plan, nil
}

func decodePlan(text string) (types.Plan, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		var wrapped struct {
			Steps []json.RawMessage `json:"steps"`
		}
		if werr := json.Unmarshal([]byte(text), &wrapped); werr != nil || wrapped.Steps == nil {
			return nil, err
		}
		items = wrapped.Steps
	}

	plan := make(types.Plan, 0, len(items))
	for _, item := range items {
		step, ok := decodeStep(item)
		if !ok {
			continue
		}
		plan = append(plan, step)
	}
	return plan, nil
}

func decodeStep(item json.RawMessage) (types.Step, bool) {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err == nil {
		step := types.Step{
			Action: types.StepAction(stringField(fields, "action")),
			Target: stringField(fields, "target"),
		}.Normalized()
		return step, step.Action != ""
	}

	var line string
	if err := json.Unmarshal(item, &line); err == nil {
		action, target, _ := strings.Cut(line, ":")
		step := types.Step{Action: types.StepAction(action), Target: target}.Normalized()
		return step, step.Action != ""
	}
	return types.Step{}, false
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
