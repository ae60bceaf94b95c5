// Package extraction turns menu photos into structured menu items, using
// local OCR plus a language model, with a vision-model fallback.
package extraction

import (
	"context"

	"go.uber.org/zap"
)

// Extractor orchestrates the two-stage pipeline: OCR the photo and have the
// language model structure the text; if either stage fails for any reason,
// make exactly one attempt against the vision model with the original photo.
type Extractor struct {
	recognizer TextRecognizer
	client     StructuredClient
	logger     *zap.Logger
}

func NewExtractor(recognizer TextRecognizer, client StructuredClient, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{recognizer: recognizer, client: client, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, image []byte) ([]ItemExtraction, error) {
	text, err := e.recognizer.Recognize(ctx, image)
	if err == nil {
		items, textErr := e.client.ExtractFromText(ctx, text)
		if textErr == nil {
			return items, nil
		}
		if ctx.Err() != nil {
			return nil, textErr
		}
		e.logger.Warn("text extraction failed, falling back to vision model", zap.Error(textErr))
	} else {
		if ctx.Err() != nil {
			return nil, err
		}
		e.logger.Warn("recognition failed, falling back to vision model", zap.Error(err))
	}

	return e.client.ExtractFromImage(ctx, image)
}
