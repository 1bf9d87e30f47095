package record

import (
	"testing"

	"clinical-synth-be/internal/entity"
)

func lisinoprilDetails() map[string]any {
	return map[string]any{
		"standard_name":       "Lisinopril",
		"standard_code_type":  "RxNorm",
		"standard_code_value": "29046",
	}
}

func hypertensionTerm() entity.ClinicalTerm {
	return entity.ClinicalTerm{
		StandardName:      "Hypertension",
		StandardCodeType:  "SNOMED_CT",
		StandardCodeValue: "38341003",
	}
}

func baseRecord() entity.ClinicalRecord {
	return entity.ClinicalRecord{
		PatientId:     "P-1001",
		DateOfService: "2025-10-01",
		QuickSummary:  "Stable hypertension managed with medication.",
		Problems:      []entity.ClinicalTerm{hypertensionTerm()},
		Medications:   []entity.ClinicalTerm{},
	}
}

func TestApplyAddMedication(t *testing.T) {
	rec := entity.ClinicalRecord{Problems: []entity.ClinicalTerm{}, Medications: []entity.ClinicalTerm{}}

	got, out := Apply(rec, ActionAdd, TargetMedications, lisinoprilDetails())

	if out.Status != OutcomeAdded {
		t.Fatalf("Status = %s, want %s", out.Status, OutcomeAdded)
	}
	if len(got.Medications) != 1 {
		t.Fatalf("Medications length = %d, want 1", len(got.Medications))
	}
	want := entity.ClinicalTerm{
		StandardName:      "Lisinopril",
		StandardCodeType:  "RxNorm",
		StandardCodeValue: "29046",
	}
	if !got.Medications[0].Equal(want) {
		t.Errorf("Medications[0] = %+v, want %+v", got.Medications[0], want)
	}
	if len(rec.Medications) != 0 {
		t.Errorf("input record was mutated: %+v", rec.Medications)
	}
}

func TestApplyAddIsIdempotent(t *testing.T) {
	rec := entity.ClinicalRecord{}

	once, out1 := Apply(rec, ActionAdd, TargetProblems, map[string]any{
		"standard_name":       "Hypertension",
		"standard_code_type":  "SNOMED_CT",
		"standard_code_value": "38341003",
	})
	twice, out2 := Apply(once, ActionAdd, TargetProblems, map[string]any{
		"standard_name":       "Hypertension",
		"standard_code_type":  "SNOMED_CT",
		"standard_code_value": "38341003",
	})

	if out1.Status != OutcomeAdded {
		t.Fatalf("first add Status = %s, want %s", out1.Status, OutcomeAdded)
	}
	if out2.Status != OutcomeDuplicate {
		t.Fatalf("second add Status = %s, want %s", out2.Status, OutcomeDuplicate)
	}
	if len(twice.Problems) != 1 {
		t.Errorf("Problems length after double add = %d, want 1", len(twice.Problems))
	}
}

func TestApplyAddThenRemoveRestoresList(t *testing.T) {
	rec := baseRecord()

	added, _ := Apply(rec, ActionAdd, TargetMedications, lisinoprilDetails())
	restored, out := Apply(added, ActionRemove, TargetMedications, lisinoprilDetails())

	if out.Status != OutcomeRemoved {
		t.Fatalf("Status = %s, want %s", out.Status, OutcomeRemoved)
	}
	if out.Removed != 1 {
		t.Errorf("Removed = %d, want 1", out.Removed)
	}
	if len(restored.Medications) != len(rec.Medications) {
		t.Errorf("Medications length = %d, want %d", len(restored.Medications), len(rec.Medications))
	}
}

func TestApplyRemoveAbsentTermReportsNotFound(t *testing.T) {
	rec := baseRecord()

	got, out := Apply(rec, ActionRemove, TargetProblems, lisinoprilDetails())

	if out.Status != OutcomeNotFound {
		t.Fatalf("Status = %s, want %s", out.Status, OutcomeNotFound)
	}
	if len(got.Problems) != len(rec.Problems) {
		t.Errorf("Problems length = %d, want %d", len(got.Problems), len(rec.Problems))
	}
}

func TestApplyRemoveFiltersAllStructuralMatches(t *testing.T) {
	dup := hypertensionTerm()
	rec := entity.ClinicalRecord{
		Problems: []entity.ClinicalTerm{dup, {StandardName: "Diabetes", StandardCodeType: "SNOMED_CT", StandardCodeValue: "73211009"}, dup},
	}

	got, out := Apply(rec, ActionRemove, TargetProblems, map[string]any{
		"standard_name":       dup.StandardName,
		"standard_code_type":  dup.StandardCodeType,
		"standard_code_value": dup.StandardCodeValue,
	})

	if out.Status != OutcomeRemoved {
		t.Fatalf("Status = %s, want %s", out.Status, OutcomeRemoved)
	}
	if out.Removed != 2 {
		t.Errorf("Removed = %d, want 2", out.Removed)
	}
	if len(got.Problems) != 1 || got.Problems[0].StandardName != "Diabetes" {
		t.Errorf("Problems = %+v, want only Diabetes", got.Problems)
	}
}

func TestApplyUpdateMatchesByNameOnly(t *testing.T) {
	second := entity.ClinicalTerm{StandardName: "Diabetes", StandardCodeType: "SNOMED_CT", StandardCodeValue: "73211009"}
	rec := entity.ClinicalRecord{Problems: []entity.ClinicalTerm{hypertensionTerm(), second}}

	got, out := Apply(rec, ActionUpdate, TargetProblems, map[string]any{
		"standard_name":       "Hypertension",
		"standard_code_type":  "ICD-10",
		"standard_code_value": "I10",
	})

	if out.Status != OutcomeUpdated {
		t.Fatalf("Status = %s, want %s", out.Status, OutcomeUpdated)
	}
	if len(got.Problems) != 2 {
		t.Fatalf("Problems length = %d, want 2 (order and length preserved)", len(got.Problems))
	}
	if got.Problems[0].StandardCodeType != "ICD-10" || got.Problems[0].StandardCodeValue != "I10" {
		t.Errorf("Problems[0] = %+v, want replaced entry", got.Problems[0])
	}
	if !got.Problems[1].Equal(second) {
		t.Errorf("Problems[1] = %+v, want untouched %+v", got.Problems[1], second)
	}
}

func TestApplyUpdateUnknownNameReportsNotFound(t *testing.T) {
	rec := baseRecord()

	got, out := Apply(rec, ActionUpdate, TargetProblems, map[string]any{
		"standard_name":       "Asthma",
		"standard_code_type":  "SNOMED_CT",
		"standard_code_value": "195967001",
	})

	if out.Status != OutcomeNotFound {
		t.Fatalf("Status = %s, want %s", out.Status, OutcomeNotFound)
	}
	if len(got.Problems) != len(rec.Problems) {
		t.Errorf("Problems length changed on not-found update")
	}
}

func TestApplyQuickSummaryUpdate(t *testing.T) {
	tests := []struct {
		name        string
		details     any
		wantStatus  OutcomeStatus
		wantSummary string
	}{
		{
			name:        "plain string",
			details:     "New text",
			wantStatus:  OutcomeUpdated,
			wantSummary: "New text",
		},
		{
			name:        "quick_summary key",
			details:     map[string]any{"quick_summary": "From map"},
			wantStatus:  OutcomeUpdated,
			wantSummary: "From map",
		},
		{
			name:        "text key fallback",
			details:     map[string]any{"text": "From text key"},
			wantStatus:  OutcomeUpdated,
			wantSummary: "From text key",
		},
		{
			name:        "quick_summary preferred over text",
			details:     map[string]any{"quick_summary": "Primary", "text": "Secondary"},
			wantStatus:  OutcomeUpdated,
			wantSummary: "Primary",
		},
		{
			name:        "empty map keeps prior summary",
			details:     map[string]any{},
			wantStatus:  OutcomeInvalidFormat,
			wantSummary: baseRecord().QuickSummary,
		},
		{
			name:        "nil details keeps prior summary",
			details:     nil,
			wantStatus:  OutcomeInvalidFormat,
			wantSummary: baseRecord().QuickSummary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, out := Apply(baseRecord(), ActionUpdate, TargetQuickSummary, tt.details)
			if out.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", out.Status, tt.wantStatus)
			}
			if got.QuickSummary != tt.wantSummary {
				t.Errorf("QuickSummary = %q, want %q", got.QuickSummary, tt.wantSummary)
			}
		})
	}
}

func TestApplyInvalidDetails(t *testing.T) {
	tests := []struct {
		name    string
		details any
	}{
		{"missing code value", map[string]any{"standard_name": "X", "standard_code_type": "RxNorm"}},
		{"empty field", map[string]any{"standard_name": "", "standard_code_type": "RxNorm", "standard_code_value": "1"}},
		{"non-string field", map[string]any{"standard_name": "X", "standard_code_type": "RxNorm", "standard_code_value": 29046.0}},
		{"not a map", "Lisinopril"},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			got, out := Apply(rec, ActionAdd, TargetMedications, tt.details)
			if out.Status != OutcomeInvalidDetails {
				t.Errorf("Status = %s, want %s", out.Status, OutcomeInvalidDetails)
			}
			if len(got.Medications) != len(rec.Medications) {
				t.Errorf("record changed on invalid details")
			}
		})
	}
}

func TestApplyUnsupportedCombinations(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		target Target
	}{
		{"add to quick_summary", ActionAdd, TargetQuickSummary},
		{"remove from quick_summary", ActionRemove, TargetQuickSummary},
		{"unknown target", ActionAdd, Target("allergies")},
		{"unknown action", Action("merge"), TargetQuickSummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			got, out := Apply(rec, tt.action, tt.target, lisinoprilDetails())
			if out.Status != OutcomeUnsupported {
				t.Errorf("Status = %s, want %s", out.Status, OutcomeUnsupported)
			}
			if got.QuickSummary != rec.QuickSummary || len(got.Problems) != len(rec.Problems) || len(got.Medications) != len(rec.Medications) {
				t.Errorf("record changed on unsupported combination")
			}
		})
	}
}

func TestApplyUnknownActionOnListIsUnsupported(t *testing.T) {
	rec := baseRecord()
	got, out := Apply(rec, Action("replace"), TargetProblems, lisinoprilDetails())
	if out.Status != OutcomeUnsupported {
		t.Fatalf("Status = %s, want %s", out.Status, OutcomeUnsupported)
	}
	if len(got.Problems) != len(rec.Problems) {
		t.Errorf("record changed on unknown action")
	}
}

func TestApplyInitializesNilLists(t *testing.T) {
	rec := entity.ClinicalRecord{QuickSummary: "empty record"}

	got, out := Apply(rec, ActionAdd, TargetProblems, map[string]any{
		"standard_name":       "Hypertension",
		"standard_code_type":  "SNOMED_CT",
		"standard_code_value": "38341003",
	})

	if out.Status != OutcomeAdded {
		t.Fatalf("Status = %s, want %s", out.Status, OutcomeAdded)
	}
	if len(got.Problems) != 1 {
		t.Errorf("Problems length = %d, want 1", len(got.Problems))
	}
	if rec.Problems != nil {
		t.Errorf("input record grew a problems list")
	}
}

func TestOutcomeChanged(t *testing.T) {
	changed := []OutcomeStatus{OutcomeAdded, OutcomeRemoved, OutcomeUpdated}
	unchanged := []OutcomeStatus{OutcomeDuplicate, OutcomeNotFound, OutcomeInvalidDetails, OutcomeInvalidFormat, OutcomeUnsupported}

	for _, s := range changed {
		if !(Outcome{Status: s}).Changed() {
			t.Errorf("Changed() = false for %s, want true", s)
		}
	}
	for _, s := range unchanged {
		if (Outcome{Status: s}).Changed() {
			t.Errorf("Changed() = true for %s, want false", s)
		}
	}
}
