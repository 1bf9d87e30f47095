package record

import (
	"errors"
	"testing"
)

func TestExtractDirective(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantErr    error
		wantAction string
		wantTarget string
	}{
		{
			name:    "plain text without braces",
			text:    "The patient is doing well and no changes are needed.",
			wantErr: ErrNoDirective,
		},
		{
			name:    "braces without add or remove keyword",
			text:    "Here is some JSON: {\"note\": \"just context\"}",
			wantErr: ErrNoDirective,
		},
		{
			name:       "directive embedded in prose",
			text:       "Sure, I will add that medication. {\"action\": \"add\", \"target\": \"medications\", \"details\": {\"standard_name\": \"Lisinopril\", \"standard_code_type\": \"RxNorm\", \"standard_code_value\": \"29046\"}}",
			wantAction: "add",
			wantTarget: "medications",
		},
		{
			name:       "remove directive",
			text:       "I'll remove it: {\"action\": \"remove\", \"target\": \"problems\", \"details\": {\"standard_name\": \"Hypertension\", \"standard_code_type\": \"SNOMED_CT\", \"standard_code_value\": \"38341003\"}}",
			wantAction: "remove",
			wantTarget: "problems",
		},
		{
			name:       "uppercase action is normalized",
			text:       "add this {\"action\": \"ADD\", \"target\": \"problems\", \"details\": {}}",
			wantAction: "add",
			wantTarget: "problems",
		},
		{
			name:    "malformed JSON between braces",
			text:    "I would add {this is not json} to the record",
			wantErr: ErrInvalidDirective,
		},
		{
			name:    "keyword present but closing brace before opening",
			text:    "} add {",
			wantErr: ErrNoDirective,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ExtractDirective(tt.text)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", d.Action, tt.wantAction)
			}
			if d.Target != tt.wantTarget {
				t.Errorf("Target = %q, want %q", d.Target, tt.wantTarget)
			}
		})
	}
}

func TestExtractDirectiveSpansFirstToLastBrace(t *testing.T) {
	// Surrounding prose braces make the candidate span invalid JSON; the
	// permissive heuristic reports that instead of silently succeeding.
	text := "{aside} please add {\"action\": \"add\", \"target\": \"problems\", \"details\": {}} {trailing}"
	_, err := ExtractDirective(text)
	if !errors.Is(err, ErrInvalidDirective) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidDirective)
	}
}

func TestDecodeDetails(t *testing.T) {
	d := &Directive{Details: []byte(`{"standard_name":"Lisinopril","standard_code_type":"RxNorm","standard_code_value":"29046"}`)}
	m, ok := d.DecodeDetails().(map[string]any)
	if !ok {
		t.Fatalf("DecodeDetails() is not a map")
	}
	if m["standard_name"] != "Lisinopril" {
		t.Errorf("standard_name = %v, want Lisinopril", m["standard_name"])
	}

	str := &Directive{Details: []byte(`"New summary"`)}
	if s, ok := str.DecodeDetails().(string); !ok || s != "New summary" {
		t.Errorf("DecodeDetails() = %v, want string payload", str.DecodeDetails())
	}

	empty := &Directive{}
	if _, ok := empty.DecodeDetails().(map[string]any); !ok {
		t.Errorf("empty details should decode to an empty map")
	}
}

func TestAutoApplicable(t *testing.T) {
	tests := []struct {
		action string
		target string
		want   bool
	}{
		{"add", "medications", true},
		{"add", "problems", true},
		{"remove", "problems", true},
		{"update", "problems", false},
		{"update", "quick_summary", false},
		{"add", "quick_summary", false},
		{"add", "allergies", false},
	}

	for _, tt := range tests {
		d := &Directive{Action: tt.action, Target: tt.target}
		if got := d.AutoApplicable(); got != tt.want {
			t.Errorf("AutoApplicable(%s, %s) = %v, want %v", tt.action, tt.target, got, tt.want)
		}
	}
}
