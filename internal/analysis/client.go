package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/pkg/urlutil"
)

/*
Responsibilities

- Send one analysis request per call to POST {baseURL}/analyse/
- Classify the reply into data, error, or neither
- Extract a plain-string error detail when the service provides one

Request Semantics

- Exactly one attempt; no retries, no backoff
- No timeout beyond the transport default unless one is configured
- Cancellation only through the caller's context

The client never caches and never interprets the analysis payload.
*/

const AnalysePath = "/analyse/"

type Analyser interface {
	AnalyseArticleURL(ctx context.Context, articleURL string) Response
}

type Client struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	endpoint     string
	userAgent    string
}

func NewClient(
	metadataSink metadata.MetadataSink,
	baseURL string,
	userAgent string,
	timeout time.Duration,
) *Client {
	return &Client{
		metadataSink: metadataSink,
		httpClient:   &http.Client{Timeout: timeout},
		endpoint:     urlutil.JoinPath(baseURL, AnalysePath),
		userAgent:    userAgent,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) AnalyseArticleURL(ctx context.Context, articleURL string) Response {
	callerMethod := "Client.AnalyseArticleURL"
	startTime := time.Now()

	resp, statusCode, contentType := c.perform(ctx, articleURL)

	c.metadataSink.RecordRequest(c.endpoint, statusCode, time.Since(startTime), contentType)

	if resp.Err != nil {
		c.metadataSink.RecordError(
			time.Now(),
			"analysis",
			callerMethod,
			mapAnalysisErrorToMetadataCause(resp.Err),
			resp.Err.Message,
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, articleURL),
				metadata.NewAttr(metadata.AttrHTTPStatus, fmt.Sprint(statusCode)),
			},
		)
	}
	return resp
}

func (c *Client) perform(ctx context.Context, articleURL string) (Response, int, string) {
	payload, err := json.Marshal(analyseRequest{URL: articleURL})
	if err != nil {
		return failed(&AnalysisError{
			Message: fmt.Sprintf("failed to encode request: %v", err),
			Cause:   ErrCauseRequestBuild,
			Err:     err,
		}), 0, ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return failed(&AnalysisError{
			Message: fmt.Sprintf("failed to create request: %v", err),
			Cause:   ErrCauseRequestBuild,
			Err:     err,
		}), 0, ""
	}
	for key, value := range requestHeaders(c.userAgent) {
		req.Header.Set(key, value)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return failed(&AnalysisError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: !errors.Is(err, context.Canceled),
			Cause:     ErrCauseNetworkFailure,
			Err:       err,
		}), 0, ""
	}
	defer res.Body.Close()

	statusCode := res.StatusCode
	contentType := res.Header.Get("Content-Type")

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return failed(&AnalysisError{
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Retryable:  true,
			Cause:      ErrCauseReadBody,
			StatusCode: statusCode,
			Err:        err,
		}), statusCode, contentType
	}

	switch {
	case statusCode >= 500:
		return failed(&AnalysisError{
			Message:    fmt.Sprintf("server error: %d", statusCode),
			Retryable:  true,
			Cause:      ErrCauseRequest5xx,
			StatusCode: statusCode,
			Detail:     extractDetail(body),
		}), statusCode, contentType

	case statusCode >= 400:
		return failed(&AnalysisError{
			Message:    fmt.Sprintf("client error: %d", statusCode),
			Retryable:  false,
			Cause:      ErrCauseRequestRejected,
			StatusCode: statusCode,
			Detail:     extractDetail(body),
		}), statusCode, contentType

	case statusCode < 200 || statusCode >= 300:
		return failed(&AnalysisError{
			Message:    fmt.Sprintf("unexpected status: %d", statusCode),
			Retryable:  false,
			Cause:      ErrCauseUnexpectedCode,
			StatusCode: statusCode,
		}), statusCode, contentType
	}

	trimmed := bytes.TrimSpace(body)
	if isEmptyPayload(trimmed) {
		return Response{}, statusCode, contentType
	}

	var result Result
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return failed(&AnalysisError{
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			Retryable:  false,
			Cause:      ErrCauseDecode,
			StatusCode: statusCode,
			Err:        err,
		}), statusCode, contentType
	}

	return Response{Data: &result}, statusCode, contentType
}

// isEmptyPayload reports whether a 2xx body carries no analysis: nothing at
// all, or a falsy JSON scalar (null, false, "", 0). Arrays and objects,
// even empty ones, are payloads.
func isEmptyPayload(body []byte) bool {
	if len(body) == 0 {
		return true
	}
	switch body[0] {
	case '{', '[':
		return false
	}

	var scalar any
	if err := json.Unmarshal(body, &scalar); err != nil {
		return false
	}
	switch v := scalar.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case float64:
		return v == 0
	default:
		return false
	}
}

func failed(err *AnalysisError) Response {
	return Response{Err: err}
}

// extractDetail returns the error text from {"detail": "<string>"} or a
// bare JSON string body. Structured details are not flattened.
func extractDetail(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var bare string
	if err := json.Unmarshal(trimmed, &bare); err == nil {
		return strings.TrimSpace(bare)
	}

	var payload errorPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return ""
	}
	if detail, ok := payload.Detail.(string); ok {
		return strings.TrimSpace(detail)
	}
	return ""
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":   userAgent,
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
