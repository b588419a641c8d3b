package vision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidproof/vidproof/internal/errors"
)

func testFrames(n int) []FrameInput {
	frames := make([]FrameInput, n)
	for i := range frames {
		frames[i] = FrameInput{
			Timestamp: 0.5 + float64(i),
			MediaType: "image/jpeg",
			Data:      "ZnJhbWU=",
		}
	}
	return frames
}

func serviceReply(text string) string {
	reply := map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	}
	out, _ := json.Marshal(reply)
	return string(out)
}

func TestClientAnalyzeSendsOrderedFrames(t *testing.T) {
	var captured messageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		io.WriteString(w, serviceReply(fullResponse))
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	analysis, err := client.Analyze(context.Background(), testFrames(3), Expectation{Description: "a product demo"})
	require.NoError(t, err)
	assert.Equal(t, 8.0, analysis.VisualQuality)

	require.Len(t, captured.Messages, 1)
	blocks := captured.Messages[0].Content
	// 3 tag+image pairs plus the rubric.
	require.Len(t, blocks, 7)
	assert.Equal(t, "Frame 1/3 at 0.50s", blocks[0].Text)
	assert.Equal(t, "image", blocks[1].Type)
	assert.Equal(t, "image/jpeg", blocks[1].Source.MediaType)
	assert.Equal(t, "Frame 3/3 at 2.50s", blocks[4].Text)
	assert.Contains(t, blocks[6].Text, "a product demo")
}

func TestClientAnalyzeFencedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, serviceReply("```json\n"+fullResponse+"\n```"))
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	analysis, err := client.Analyze(context.Background(), testFrames(1), Expectation{})
	require.NoError(t, err)
	assert.True(t, analysis.Passed)
}

func TestClientAnalyzeServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"type":"api_error","message":"overloaded"}}`)
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), testFrames(1), Expectation{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindServiceError), "error = %v", err)
}

func TestClientAnalyzeErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"type":"invalid_request_error","message":"image too large"}}`)
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), testFrames(1), Expectation{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindServiceError))
	assert.Contains(t, err.Error(), "image too large")
}

func TestClientAnalyzeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		io.WriteString(w, serviceReply(fullResponse))
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{APIKey: "test-key", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), testFrames(1), Expectation{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindServiceError), "error = %v", err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestClientAnalyzeUnparseableText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, serviceReply("the frames look fine to me"))
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), testFrames(1), Expectation{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindParseError), "error = %v", err)
}

func TestClientAnalyzeNoFrames(t *testing.T) {
	client, err := NewClient(ClientOptions{APIKey: "test-key"})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), nil, Expectation{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindServiceError))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}
