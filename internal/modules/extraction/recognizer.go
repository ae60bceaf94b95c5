package extraction

import (
	"context"
	"strings"

	"github.com/menulens/core/internal/config"
	"github.com/otiai10/gosseract/v2"
)

// TextRecognizer turns a photo into plain text.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TesseractRecognizer runs local Tesseract OCR. Recognition is CPU-bound cgo
// work, so concurrent calls are capped by a fixed number of worker slots.
type TesseractRecognizer struct {
	languages []string
	slots     chan struct{}
}

func NewTesseractRecognizer(opts config.OCROptions) *TesseractRecognizer {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	languages := strings.Split(opts.Languages, "+")
	cleaned := make([]string, 0, len(languages))
	for _, lang := range languages {
		if lang = strings.TrimSpace(lang); lang != "" {
			cleaned = append(cleaned, lang)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{"eng"}
	}

	return &TesseractRecognizer{
		languages: cleaned,
		slots:     make(chan struct{}, workers),
	}
}

func (r *TesseractRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	select {
	case r.slots <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	// The cgo call cannot be interrupted; on cancellation it finishes in the
	// background and releases its slot.
	go func() {
		defer func() { <-r.slots }()

		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(r.languages...); err != nil {
			done <- result{err: err}
			return
		}
		if err := client.SetImageFromBytes(image); err != nil {
			done <- result{err: err}
			return
		}
		text, err := client.Text()
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		if strings.TrimSpace(res.text) == "" {
			return "", ErrEmptyRecognition
		}
		return res.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
