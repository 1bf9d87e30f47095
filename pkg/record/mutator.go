package record

import (
	"fmt"

	"clinical-synth-be/internal/entity"
)

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionUpdate Action = "update"
)

type Target string

const (
	TargetProblems     Target = "problems"
	TargetMedications  Target = "medications"
	TargetQuickSummary Target = "quick_summary"
)

type OutcomeStatus string

const (
	OutcomeAdded          OutcomeStatus = "added"
	OutcomeDuplicate      OutcomeStatus = "duplicate"
	OutcomeRemoved        OutcomeStatus = "removed"
	OutcomeUpdated        OutcomeStatus = "updated"
	OutcomeNotFound       OutcomeStatus = "not_found"
	OutcomeInvalidDetails OutcomeStatus = "invalid_details"
	OutcomeInvalidFormat  OutcomeStatus = "invalid_format"
	OutcomeUnsupported    OutcomeStatus = "unsupported"
)

// Outcome reports what a mutation did. Message is user-facing; it mirrors
// the toast texts the assistant surfaces in the chat response.
type Outcome struct {
	Status  OutcomeStatus
	Target  Target
	Term    string
	Removed int
	Message string
}

// Changed reports whether the mutation altered the record.
func (o Outcome) Changed() bool {
	switch o.Status {
	case OutcomeAdded, OutcomeRemoved, OutcomeUpdated:
		return true
	}
	return false
}

// Apply applies a single add/remove/update mutation to a clinical record.
// It is a pure function: the input record is never modified, malformed input
// never panics or errors out, and an unchanged copy is returned alongside a
// descriptive Outcome for every invalid case.
//
// details is a decoded JSON value: for list targets a map carrying the three
// ClinicalTerm fields, for quick_summary either a string or a map with a
// "quick_summary" or "text" key.
func Apply(rec entity.ClinicalRecord, action Action, target Target, details any) (entity.ClinicalRecord, Outcome) {
	out := cloneRecord(rec)

	switch target {
	case TargetProblems, TargetMedications:
		return applyListMutation(out, action, target, details)
	case TargetQuickSummary:
		if action == ActionUpdate {
			return applySummaryUpdate(out, details)
		}
	}

	return out, Outcome{
		Status:  OutcomeUnsupported,
		Target:  target,
		Message: fmt.Sprintf("Unsupported action or target: %s -> %s", action, target),
	}
}

func applyListMutation(rec entity.ClinicalRecord, action Action, target Target, details any) (entity.ClinicalRecord, Outcome) {
	list := listFor(&rec, target)

	term, ok := termFromDetails(details)
	if !ok {
		return rec, Outcome{
			Status:  OutcomeInvalidDetails,
			Target:  target,
			Message: "Invalid details for update: missing required fields.",
		}
	}

	switch action {
	case ActionAdd:
		for _, existing := range *list {
			if existing.Equal(term) {
				return rec, Outcome{
					Status:  OutcomeDuplicate,
					Target:  target,
					Term:    term.StandardName,
					Message: fmt.Sprintf("%s already exists in %s.", term.StandardName, target),
				}
			}
		}
		*list = append(*list, term)
		return rec, Outcome{
			Status:  OutcomeAdded,
			Target:  target,
			Term:    term.StandardName,
			Message: fmt.Sprintf("Added %s to %s.", term.StandardName, target),
		}

	case ActionRemove:
		kept := make([]entity.ClinicalTerm, 0, len(*list))
		removed := 0
		for _, existing := range *list {
			if existing.Equal(term) {
				removed++
				continue
			}
			kept = append(kept, existing)
		}
		if removed == 0 {
			return rec, Outcome{
				Status:  OutcomeNotFound,
				Target:  target,
				Term:    term.StandardName,
				Message: fmt.Sprintf("Item not found in %s for removal.", target),
			}
		}
		*list = kept
		return rec, Outcome{
			Status:  OutcomeRemoved,
			Target:  target,
			Term:    term.StandardName,
			Removed: removed,
			Message: fmt.Sprintf("Removed %s from %s.", term.StandardName, target),
		}

	case ActionUpdate:
		for i, existing := range *list {
			if existing.StandardName == term.StandardName {
				(*list)[i] = term
				return rec, Outcome{
					Status:  OutcomeUpdated,
					Target:  target,
					Term:    term.StandardName,
					Message: fmt.Sprintf("Updated %s in %s.", term.StandardName, target),
				}
			}
		}
		return rec, Outcome{
			Status:  OutcomeNotFound,
			Target:  target,
			Term:    term.StandardName,
			Message: fmt.Sprintf("Could not find %s to update in %s.", term.StandardName, target),
		}
	}

	return rec, Outcome{
		Status:  OutcomeUnsupported,
		Target:  target,
		Message: fmt.Sprintf("Unsupported action or target: %s -> %s", action, target),
	}
}

func applySummaryUpdate(rec entity.ClinicalRecord, details any) (entity.ClinicalRecord, Outcome) {
	summary := summaryFromDetails(details)
	if summary == "" {
		return rec, Outcome{
			Status:  OutcomeInvalidFormat,
			Target:  TargetQuickSummary,
			Message: "Invalid quick_summary update format.",
		}
	}
	rec.QuickSummary = summary
	return rec, Outcome{
		Status:  OutcomeUpdated,
		Target:  TargetQuickSummary,
		Message: "Updated quick summary.",
	}
}

// termFromDetails validates that details carries all three ClinicalTerm
// fields as non-empty strings. Extra keys are dropped: records are tagged
// structures, not open dictionaries.
func termFromDetails(details any) (entity.ClinicalTerm, bool) {
	m, ok := details.(map[string]any)
	if !ok {
		return entity.ClinicalTerm{}, false
	}

	name, okName := stringField(m, "standard_name")
	codeType, okType := stringField(m, "standard_code_type")
	codeValue, okValue := stringField(m, "standard_code_value")
	if !okName || !okType || !okValue {
		return entity.ClinicalTerm{}, false
	}

	return entity.ClinicalTerm{
		StandardName:      name,
		StandardCodeType:  codeType,
		StandardCodeValue: codeValue,
	}, true
}

// summaryFromDetails accepts a bare string, or a map with a "quick_summary"
// key checked before a "text" key.
func summaryFromDetails(details any) string {
	switch v := details.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := stringField(v, "quick_summary"); ok {
			return s
		}
		if s, ok := stringField(v, "text"); ok {
			return s
		}
	}
	return ""
}

func stringField(m map[string]any, key string) (string, bool) {
	raw, exists := m[key]
	if !exists {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func listFor(rec *entity.ClinicalRecord, target Target) *[]entity.ClinicalTerm {
	if target == TargetProblems {
		if rec.Problems == nil {
			rec.Problems = []entity.ClinicalTerm{}
		}
		return &rec.Problems
	}
	if rec.Medications == nil {
		rec.Medications = []entity.ClinicalTerm{}
	}
	return &rec.Medications
}

func cloneRecord(rec entity.ClinicalRecord) entity.ClinicalRecord {
	out := rec
	if rec.Problems != nil {
		out.Problems = append([]entity.ClinicalTerm(nil), rec.Problems...)
	}
	if rec.Medications != nil {
		out.Medications = append([]entity.ClinicalTerm(nil), rec.Medications...)
	}
	return out
}
