package synthesis

import (
	"context"
)

// ImagePart is one uploaded document page.
type ImagePart struct {
	MimeType string
	Data     []byte
}

// Client turns a set of clinical document images into one structured record
// JSON string. Implementations return the raw model output; parsing and
// validation happen in ParseRecord so a malformed response is always a hard
// failure for the single call, never a partial application.
type Client interface {
	Synthesize(ctx context.Context, images []ImagePart) (string, error)
}
