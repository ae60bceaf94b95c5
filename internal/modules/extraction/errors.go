package extraction

import (
	"errors"
	"fmt"
)

// ErrEmptyRecognition signals that Tesseract produced no usable text from the
// photo. The pipeline falls back to the vision model on it.
var ErrEmptyRecognition = errors.New("no text recognized in image")

// MalformedResponseError reports a model reply that was not a valid JSON
// array of menu items.
type MalformedResponseError struct {
	Raw    string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed extraction response: %s", e.Reason)
}
