package extract

import (
	"context"
	"time"
)

// Recognizer is the external OCR collaborator: image bytes -> text.
// The core never retries a failed recognition itself.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (RecognitionResult, error)
}

type RecognitionResult struct {
	Text       string
	Confidence int // 0-100
	Pages      int
	Duration   time.Duration
}
