package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appcfg "github.com/menulens/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectProvider(t *testing.T) {
	cfg := appcfg.AIConfig{
		Providers: []appcfg.AIProvider{
			{ID: "disabled", Enabled: false},
			{ID: "first", DefaultModel: "gpt-4o", Enabled: true},
			{ID: "second", DefaultModel: "claude-sonnet-4-5", Enabled: true},
		},
	}

	t.Run("falls back to first enabled", func(t *testing.T) {
		provider := SelectProvider(cfg, nil)
		require.NotNil(t, provider)
		assert.Equal(t, "first", provider.ID)
	})

	t.Run("honors assignment", func(t *testing.T) {
		provider := SelectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "second"})
		require.NotNil(t, provider)
		assert.Equal(t, "second", provider.ID)
	})

	t.Run("assignment can override the model", func(t *testing.T) {
		provider := SelectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "first", Model: "gpt-4o-mini"})
		require.NotNil(t, provider)
		assert.Equal(t, "gpt-4o-mini", provider.DefaultModel)
	})

	t.Run("unknown assignment falls back", func(t *testing.T) {
		provider := SelectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "ghost"})
		require.NotNil(t, provider)
		assert.Equal(t, "first", provider.ID)
	})

	t.Run("nothing enabled", func(t *testing.T) {
		assert.Nil(t, SelectProvider(appcfg.AIConfig{}, nil))
	})
}

func TestChatCompletion(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": "hello"}},
			},
		})
	}))
	defer server.Close()

	provider := &appcfg.AIProvider{
		Type:         "openai-compatible",
		APIKey:       "key",
		Endpoint:     server.URL,
		DefaultModel: "gpt-4o",
	}

	content, err := ChatCompletion(context.Background(), provider, []Message{{Role: "user", Content: "hi"}}, 100)
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
	assert.Equal(t, "/v1/chat/completions", gotPath)
}

func TestChatCompletionStripsTrailingV1(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	provider := &appcfg.AIProvider{
		Type:     "openai-compatible",
		APIKey:   "key",
		Endpoint: server.URL + "/v1",
	}

	_, err := ChatCompletion(context.Background(), provider, []Message{{Role: "user", Content: "hi"}}, 100)
	require.NoError(t, err)
	assert.Equal(t, "/v1/chat/completions", gotPath)
}

func TestChatCompletionUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	provider := &appcfg.AIProvider{Type: "openai-compatible", APIKey: "key", Endpoint: server.URL}

	_, err := ChatCompletion(context.Background(), provider, []Message{{Role: "user", Content: "hi"}}, 100)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
	assert.Contains(t, upstream.Body, "upstream exploded")
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `[{"name":"Pizza"}]`, StripFences("```json\n[{\"name\":\"Pizza\"}]\n```"))
	assert.Equal(t, `[{"name":"Pizza"}]`, StripFences("```\n[{\"name\":\"Pizza\"}]\n```"))
	assert.Equal(t, `[{"name":"Pizza"}]`, StripFences(`[{"name":"Pizza"}]`))
	assert.Equal(t, "", StripFences("``````"))
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	assert.Equal(t, "", normalizeOpenAIBaseURL(""))
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com"))
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com/v1/"))
	assert.Equal(t, "https://api.example.com/openai/v1", normalizeOpenAIBaseURL("https://api.example.com/openai"))
}
