package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is one conversation about a patient. Sessions are created
// lazily on the first message and open with the seeded greeting.
type ChatSession struct {
	Id        uuid.UUID
	PatientId string
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
