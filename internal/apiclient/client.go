package apiclient

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

	"github.com/2beens/blogfront/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrEmptyBaseURL = errors.New("api base url is empty")

// Recorder observes every call made to the remote API.
type Recorder interface {
	RecordApiCall(endpoint, method string, status int, seconds float64)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	recorder   Recorder
}

func NewClient(baseURL string, httpClient *http.Client, recorder Recorder) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		recorder:   recorder,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body (if not nil) as JSON to baseURL+path and decodes the response into out (if not nil).
// Non 2xx responses are returned as *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (err error) {
	endpoint := EndpointLabel(path)
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient."+method+" "+endpoint)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("api.path", path),
	)

	status := 0
	defer func(begin time.Time) {
		if c.recorder != nil {
			c.recorder.RecordApiCall(endpoint, method, status, time.Since(begin).Seconds())
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "ok")
		}
	}(time.Now())

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Tracef("api client: %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("api client, %s %s: %s", method, path, err)
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", status))

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response bytes: %w", err)
	}

	if status < 200 || status > 299 {
		statusErr := &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: status,
			Body:       strings.TrimSpace(string(respBytes)),
		}
		switch {
		case status == http.StatusNotFound:
			log.Debugf("api client: %s", statusErr)
		case status >= 500:
			log.Errorf("api client, server error: %s", statusErr)
		default:
			log.Warnf("api client, bad request: %s", statusErr)
		}
		return statusErr
	}

	if out == nil || len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal %s %s response: %w", method, path, err)
	}

	return nil
}

// EndpointLabel replaces numeric path segments so the label stays low cardinality:
// /user/3/blog/7 => /user/:id/blog/:id
func EndpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && isNumeric(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
