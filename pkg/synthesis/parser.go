package synthesis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"clinical-synth-be/internal/entity"
)

// ParseRecord decodes a synthesis response into a clinical record.
// Any malformed JSON is a hard failure for the call: nothing is salvaged
// from a partial response. Markdown code fences are tolerated because some
// models wrap JSON output even under a response mime type.
func ParseRecord(raw string) (entity.ClinicalRecord, error) {
	cleaned := bytes.TrimSpace([]byte(raw))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```json"))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```"))
	cleaned = bytes.TrimSuffix(cleaned, []byte("```"))
	cleaned = bytes.TrimSpace(cleaned)

	var rec entity.ClinicalRecord
	if err := json.Unmarshal(cleaned, &rec); err != nil {
		return entity.ClinicalRecord{}, fmt.Errorf("synthesis response is not valid record JSON: %w", err)
	}

	if rec.Problems == nil {
		rec.Problems = []entity.ClinicalTerm{}
	}
	if rec.Medications == nil {
		rec.Medications = []entity.ClinicalTerm{}
	}

	return rec, nil
}
