// Package enrichment finds representative food photos for extracted menu
// items via Google Custom Search, with a Redis cache in front.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/menulens/core/internal/config"
)

// SourceGoogleCSE tags images found through Google Custom Search.
const SourceGoogleCSE = "google_cse"

const imagesPerItem = 3

// ImageSearcher finds image URLs for a query.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string) ([]string, error)
}

// GoogleSearcher queries the Google Custom Search JSON API in image mode.
type GoogleSearcher struct {
	apiKey   string
	engineID string
	endpoint string
	client   *http.Client
}

func NewGoogleSearcher(opts config.SearchOptions) *GoogleSearcher {
	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = "https://www.googleapis.com/customsearch/v1"
	}
	return &GoogleSearcher{
		apiKey:   strings.TrimSpace(opts.APIKey),
		engineID: strings.TrimSpace(opts.EngineID),
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *GoogleSearcher) SearchImages(ctx context.Context, query string) ([]string, error) {
	if s.apiKey == "" || s.engineID == "" {
		return nil, fmt.Errorf("image search is not configured")
	}

	params := neturl.Values{}
	params.Set("key", s.apiKey)
	params.Set("cx", s.engineID)
	params.Set("q", query)
	params.Set("searchType", "image")
	params.Set("num", strconv.Itoa(imagesPerItem))
	params.Set("imgSize", "large")
	params.Set("fileType", "jpg|png")
	params.Set("safe", "active")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("image search returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}
