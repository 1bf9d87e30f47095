package service

import (
	"testing"

	"clinical-synth-be/internal/dto"
	"clinical-synth-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestEventTypeFor(t *testing.T) {
	tests := []struct {
		name    string
		payload dto.RecordChangedMessage
		want    string
	}{
		{
			name:    "chat change saved",
			payload: dto.RecordChangedMessage{Source: "chat", Saved: true},
			want:    events.EventRecordChanged,
		},
		{
			name:    "synthesis result",
			payload: dto.RecordChangedMessage{Source: "synthesis", Saved: true},
			want:    events.EventNoteSynthesized,
		},
		{
			name:    "failed persist",
			payload: dto.RecordChangedMessage{Source: "chat", Saved: false},
			want:    events.EventRecordSaveFailed,
		},
		{
			name:    "failed synthesis persist reports the failure",
			payload: dto.RecordChangedMessage{Source: "synthesis", Saved: false},
			want:    events.EventRecordSaveFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eventTypeFor(tt.payload))
		})
	}
}
