package record

import (
	"encoding/json"
	"errors"
	"strings"
)

// Directive is a structured modification request embedded by the model in a
// free-text reply: {"action": ..., "target": ..., "details": {...}}.
type Directive struct {
	Action  string          `json:"action"`
	Target  string          `json:"target"`
	Details json.RawMessage `json:"details"`
}

var (
	// ErrNoDirective means the reply carries no candidate JSON block.
	ErrNoDirective = errors.New("no directive in reply")

	// ErrInvalidDirective means a candidate block was found but is not
	// valid JSON. Callers surface this as a non-fatal notice.
	ErrInvalidDirective = errors.New("directive is not valid JSON")
)

// ExtractDirective scans a model reply for an embedded directive: the
// substring from the first '{' to the last '}', gated by a lexical check
// that the reply mentions "add" or "remove".
//
// The heuristic is intentionally permissive and can misfire on replies that
// contain unrelated braces; extracted directives are therefore re-validated
// against the mutator's input contract before being applied.
func ExtractDirective(text string) (*Directive, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoDirective
	}
	if !strings.Contains(text, "add") && !strings.Contains(text, "remove") {
		return nil, ErrNoDirective
	}

	candidate := text[start : end+1]

	var d Directive
	if err := json.Unmarshal([]byte(candidate), &d); err != nil {
		return nil, ErrInvalidDirective
	}

	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	d.Target = strings.TrimSpace(d.Target)
	return &d, nil
}

// DecodeDetails decodes the raw details payload into the loose value shape
// the mutator accepts (string or map).
func (d *Directive) DecodeDetails() any {
	if len(d.Details) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(d.Details, &v); err != nil {
		return map[string]any{}
	}
	return v
}

// AutoApplicable reports whether the chat layer should apply the directive
// without confirmation: only add/remove on the two list targets qualify.
// Update directives are accepted by the mutator but are not auto-detected.
func (d *Directive) AutoApplicable() bool {
	act := Action(d.Action)
	tgt := Target(d.Target)
	return (act == ActionAdd || act == ActionRemove) &&
		(tgt == TargetProblems || tgt == TargetMedications)
}
