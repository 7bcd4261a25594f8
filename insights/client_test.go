package insights_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"finance-insights-be/insights"
)

// generateRequest mirrors the provider's request envelope for assertions.
type generateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseMIMEType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

func envelopeJSON(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}]}`, text)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *insights.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := insights.NewClient(context.Background(), insights.Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := insights.NewClient(context.Background(), insights.Config{})
	assert.Error(t, err)
}

func TestGenerateSuccess(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, envelopeJSON("You saved $300 this month."))
	})

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: "How much did I save?"}}},
	}
	res := client.Generate(context.Background(), contents)

	assert.True(t, res.Succeeded)
	assert.Equal(t, "You saved $300 this month.", res.Text)

	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Equal(t, "How much did I save?", captured.Contents[0].Parts[0].Text)
}

func TestGenerateConcatenatesParts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"first "},{"text":"second"}]}}]}`)
	})

	res := client.Generate(context.Background(), []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: "q"}}},
	})

	assert.True(t, res.Succeeded)
	assert.Equal(t, "first second", res.Text)
}

func TestGenerateNon200EmbedsStatusCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"code":500,"message":"internal failure","status":"INTERNAL"}}`)
	})

	res := client.Generate(context.Background(), []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: "q"}}},
	})

	assert.False(t, res.Succeeded)
	assert.Equal(t, "Error from Google: 500", res.Text)
}

func TestGenerateRateLimitedEmbedsStatusCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	})

	res := client.Generate(context.Background(), []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: "q"}}},
	})

	assert.False(t, res.Succeeded)
	assert.Equal(t, "Error from Google: 429", res.Text)
}

func TestGenerateMissingTextPathYieldsSentinel(t *testing.T) {
	responses := []string{
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"role":"model","parts":[]}}]}`,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":""}]}}]}`,
	}

	for _, body := range responses {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		})

		res := client.Generate(context.Background(), []*genai.Content{
			{Role: "user", Parts: []*genai.Part{{Text: "q"}}},
		})

		assert.True(t, res.Succeeded, "body %s", body)
		assert.Equal(t, "No text generated.", res.Text, "body %s", body)
	}
}

func TestGenerateTransportFailureYieldsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	httpClient := srv.Client()
	url := srv.URL
	srv.Close() // nothing is listening anymore

	client, err := insights.NewClient(context.Background(), insights.Config{
		APIKey:     "test-key",
		BaseURL:    url,
		HTTPClient: httpClient,
	})
	require.NoError(t, err)

	res := client.Generate(context.Background(), []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: "q"}}},
	})

	assert.False(t, res.Succeeded)
	assert.Equal(t, "I'm having trouble connecting to the AI service.", res.Text)
}

func TestGenerateStructuredRequestsJSONMode(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, envelopeJSON(`{"ok":true}`))
	})

	text, err := client.GenerateStructured(context.Background(), "return JSON")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMIMEType)
}

func TestGenerateStructuredPropagatesHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":{"code":502,"message":"upstream","status":"UNAVAILABLE"}}`)
	})

	_, err := client.GenerateStructured(context.Background(), "return JSON")
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"plain text untouched", "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, insights.StripCodeFence(tt.in))
		})
	}
}
