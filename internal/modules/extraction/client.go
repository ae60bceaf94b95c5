package extraction

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/menulens/core/internal/config"
	"github.com/menulens/core/internal/pkg/llm"
)

const maxExtractionTokens = 4000

// StructuredClient turns OCR text or a raw photo into structured menu items.
type StructuredClient interface {
	ExtractFromText(ctx context.Context, text string) ([]ItemExtraction, error)
	ExtractFromImage(ctx context.Context, image []byte) ([]ItemExtraction, error)
}

// Client calls the configured language-model provider over its
// OpenAI-compatible chat-completions endpoint. Extraction needs the
// multimodal content shape for the vision path, so both modes share the raw
// wire call rather than the SDK dispatch used elsewhere.
type Client struct {
	provider *config.AIProvider
}

func NewClient(cfg config.AIConfig) (*Client, error) {
	provider := llm.SelectProvider(cfg, cfg.ExtractionModel)
	if provider == nil {
		return nil, errors.New("no enabled language-model provider for extraction")
	}
	if !llm.SupportsChatCompletions(provider) {
		return nil, fmt.Errorf("provider %q does not serve chat completions, extraction needs an OpenAI-compatible provider", provider.ID)
	}
	return &Client{provider: provider}, nil
}

func (c *Client) ExtractFromText(ctx context.Context, text string) ([]ItemExtraction, error) {
	messages := []llm.Message{
		{Role: "user", Content: textPrompt + "\n\n" + text},
	}
	reply, err := llm.ChatCompletion(ctx, c.provider, messages, maxExtractionTokens)
	if err != nil {
		return nil, err
	}
	return parseItems(llm.StripFences(reply))
}

func (c *Client) ExtractFromImage(ctx context.Context, image []byte) ([]ItemExtraction, error) {
	mime := http.DetectContentType(image)
	encoded := base64.StdEncoding.EncodeToString(image)

	messages := []llm.Message{
		{
			Role: "user",
			Content: []llm.ContentPart{
				{Type: "text", Text: visionPrompt},
				{Type: "image_url", ImageURL: &llm.ImageURL{URL: "data:" + mime + ";base64," + encoded}},
			},
		},
	}
	reply, err := llm.ChatCompletion(ctx, c.provider, messages, maxExtractionTokens)
	if err != nil {
		return nil, err
	}
	return parseItems(llm.StripFences(reply))
}
