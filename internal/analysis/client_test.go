package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rohmanhakim/newsguard/internal/analysis"
	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMetadataSink is a test double for metadata.MetadataSink
type mockMetadataSink struct {
	metadata.NoopSink
	requestEvents []requestEvent
	errorEvents   []errorEvent
}

type requestEvent struct {
	requestURL  string
	httpStatus  int
	contentType string
}

type errorEvent struct {
	action  string
	cause   metadata.ErrorCause
	details string
}

func (m *mockMetadataSink) RecordRequest(requestURL string, httpStatus int, _ time.Duration, contentType string) {
	m.requestEvents = append(m.requestEvents, requestEvent{
		requestURL:  requestURL,
		httpStatus:  httpStatus,
		contentType: contentType,
	})
}

func (m *mockMetadataSink) RecordError(
	_ time.Time,
	_ string,
	action string,
	cause metadata.ErrorCause,
	details string,
	_ []metadata.Attribute,
) {
	m.errorEvents = append(m.errorEvents, errorEvent{action: action, cause: cause, details: details})
}

const sampleResult = `{
	"title": "Markets rally",
	"summary": "Stocks went up.",
	"named_people": ["Jane Doe"],
	"sentiment": {"label": "positive", "score": 0.91},
	"bias_classification": {"labels": "center", "scores": 0.8},
	"topic_classification": {"labels": "business", "scores": 0.66}
}`

func newServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClient_AnalyseArticleURL_SendsSinglePost(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotHeader http.Header
		gotBody   map[string]string
		calls     int32
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResult))
	}))
	defer server.Close()

	sink := &mockMetadataSink{}
	client := analysis.NewClient(sink, server.URL+"/", "newsguard-test/1.0", 0)

	resp := client.AnalyseArticleURL(context.Background(), "https://news.example/a")

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/analyse/", gotPath)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
	assert.Equal(t, "newsguard-test/1.0", gotHeader.Get("User-Agent"))
	assert.Equal(t, map[string]string{"url": "https://news.example/a"}, gotBody)

	require.Equal(t, analysis.OutcomeSuccess, resp.Outcome())
	assert.Nil(t, resp.Err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "Markets rally", *resp.Data.Title)
	assert.Equal(t, []string{"Jane Doe"}, resp.Data.NamedPeople)
	assert.Equal(t, 0.91, *resp.Data.Sentiment.Score)
	assert.Equal(t, "business", *resp.Data.TopicClassification.Labels)
	assert.Nil(t, resp.Data.Error)

	require.Len(t, sink.requestEvents, 1)
	assert.Equal(t, server.URL+"/analyse/", sink.requestEvents[0].requestURL)
	assert.Equal(t, http.StatusOK, sink.requestEvents[0].httpStatus)
	assert.Empty(t, sink.errorEvents)
}

func TestClient_AnalyseArticleURL_NullFields(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, `{"title": null, "summary": null, "named_people": null,
		"sentiment": {"label": null, "score": null},
		"bias_classification": {"labels": null, "scores": null},
		"topic_classification": {"labels": null, "scores": null},
		"error": "Could not extract article text."}`)
	client := analysis.NewClient(&metadata.NoopSink{}, server.URL, "ua", 0)

	resp := client.AnalyseArticleURL(context.Background(), "https://news.example/a")

	require.Equal(t, analysis.OutcomeSuccess, resp.Outcome())
	assert.Nil(t, resp.Data.Title)
	assert.Nil(t, resp.Data.NamedPeople)
	assert.Nil(t, resp.Data.Sentiment.Label)
	assert.Nil(t, resp.Data.BiasClassification.Scores)
	require.NotNil(t, resp.Data.Error)
	assert.Equal(t, "Could not extract article text.", *resp.Data.Error)
}

func TestClient_AnalyseArticleURL_EmptyResponses(t *testing.T) {
	for _, body := range []string{"", "null", "  null\n", `""`, "false", "0", "0.0", "-0"} {
		t.Run("body="+body, func(t *testing.T) {
			server, _ := newServer(t, http.StatusOK, body)
			client := analysis.NewClient(&metadata.NoopSink{}, server.URL, "ua", 0)

			resp := client.AnalyseArticleURL(context.Background(), "https://news.example/a")

			assert.Equal(t, analysis.OutcomeEmpty, resp.Outcome())
			assert.Nil(t, resp.Data)
			assert.Nil(t, resp.Err)
		})
	}
}

func TestClient_AnalyseArticleURL_ErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		cause     analysis.AnalysisErrorCause
		detail    string
		retryable bool
		sinkCause metadata.ErrorCause
	}{
		{"fastapi detail", http.StatusBadRequest, `{"detail": "Analysis failed"}`, analysis.ErrCauseRequestRejected, "Analysis failed", false, metadata.CausePolicyDisallow},
		{"bare string", http.StatusInternalServerError, `"Model unavailable"`, analysis.ErrCauseRequest5xx, "Model unavailable", true, metadata.CauseNetworkFailure},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail": [{"loc": ["body", "url"], "msg": "field required"}]}`, analysis.ErrCauseRequestRejected, "", false, metadata.CausePolicyDisallow},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, analysis.ErrCauseRequest5xx, "", true, metadata.CauseNetworkFailure},
		{"empty body", http.StatusNotFound, ``, analysis.ErrCauseRequestRejected, "", false, metadata.CausePolicyDisallow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := newServer(t, tt.status, tt.body)
			sink := &mockMetadataSink{}
			client := analysis.NewClient(sink, server.URL, "ua", 0)

			resp := client.AnalyseArticleURL(context.Background(), "https://news.example/a")

			require.Equal(t, analysis.OutcomeFailure, resp.Outcome())
			assert.Nil(t, resp.Data)
			assert.Equal(t, tt.cause, resp.Err.Cause)
			assert.Equal(t, tt.status, resp.Err.StatusCode)
			assert.Equal(t, tt.detail, resp.Err.Detail)
			assert.Equal(t, tt.retryable, resp.Err.Retryable)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries")

			require.Len(t, sink.errorEvents, 1)
			assert.Equal(t, tt.sinkCause, sink.errorEvents[0].cause)
			assert.Equal(t, "Client.AnalyseArticleURL", sink.errorEvents[0].action)
		})
	}
}

func TestClient_AnalyseArticleURL_UndecodableBody(t *testing.T) {
	for _, body := range []string{`{not json`, `"just a string"`, `[1,2,3]`, `[]`, `true`, `42`} {
		t.Run(body, func(t *testing.T) {
			server, _ := newServer(t, http.StatusOK, body)
			client := analysis.NewClient(&metadata.NoopSink{}, server.URL, "ua", 0)

			resp := client.AnalyseArticleURL(context.Background(), "https://news.example/a")

			require.Equal(t, analysis.OutcomeFailure, resp.Outcome())
			assert.Equal(t, analysis.ErrCauseDecode, resp.Err.Cause)
			assert.Empty(t, resp.Err.Detail)
			assert.NotNil(t, errors.Unwrap(resp.Err))
		})
	}
}

func TestClient_AnalyseArticleURL_NetworkFailure(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, sampleResult)
	server.Close()

	sink := &mockMetadataSink{}
	client := analysis.NewClient(sink, server.URL, "ua", 0)

	resp := client.AnalyseArticleURL(context.Background(), "https://news.example/a")

	require.Equal(t, analysis.OutcomeFailure, resp.Outcome())
	assert.Equal(t, analysis.ErrCauseNetworkFailure, resp.Err.Cause)
	assert.Zero(t, resp.Err.StatusCode)
	assert.True(t, resp.Err.Retryable)

	require.Len(t, sink.requestEvents, 1)
	assert.Zero(t, sink.requestEvents[0].httpStatus)
	require.Len(t, sink.errorEvents, 1)
	assert.Equal(t, metadata.CauseNetworkFailure, sink.errorEvents[0].cause)
}

func TestClient_AnalyseArticleURL_CancelledContext(t *testing.T) {
	server, calls := newServer(t, http.StatusOK, sampleResult)
	client := analysis.NewClient(&metadata.NoopSink{}, server.URL, "ua", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := client.AnalyseArticleURL(ctx, "https://news.example/a")

	require.Equal(t, analysis.OutcomeFailure, resp.Outcome())
	assert.True(t, errors.Is(resp.Err, context.Canceled))
	assert.False(t, resp.Err.Retryable)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestClient_AnalyseArticleURL_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := analysis.NewClient(&metadata.NoopSink{}, server.URL, "ua", 50*time.Millisecond)

	resp := client.AnalyseArticleURL(context.Background(), "https://news.example/a")

	require.Equal(t, analysis.OutcomeFailure, resp.Outcome())
	assert.Equal(t, analysis.ErrCauseNetworkFailure, resp.Err.Cause)
}

func TestClient_Endpoint(t *testing.T) {
	client := analysis.NewClient(&metadata.NoopSink{}, "http://localhost:8000", "ua", 0)
	assert.Equal(t, "http://localhost:8000/analyse/", client.Endpoint())

	client = analysis.NewClient(&metadata.NoopSink{}, "http://api.example/v1/", "ua", 0)
	assert.Equal(t, "http://api.example/v1/analyse/", client.Endpoint())
}

func TestResponse_Outcome(t *testing.T) {
	assert.Equal(t, analysis.OutcomeEmpty, analysis.Response{}.Outcome())
	assert.Equal(t, analysis.OutcomeSuccess, analysis.Response{Data: &analysis.Result{}}.Outcome())
	assert.Equal(t, analysis.OutcomeFailure, analysis.Response{Err: &analysis.AnalysisError{}}.Outcome())
	assert.Equal(t, "empty", analysis.OutcomeEmpty.String())
}
