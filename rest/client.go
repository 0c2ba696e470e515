package rest

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/google/uuid"
)

// RestClient executes a Request and exposes the response body. The core
// library never retries on its own: every transport failure is surfaced to
// the caller, who owns retry decisions. Implementations report any response
// status other than 200 or 206 as a *StatusError.
type RestClient interface {
	// ToWriter executes the request and streams the response body into w.
	// Returns the number of bytes written.
	ToWriter(ctx context.Context, req *Request, w io.Writer) (int64, error)

	// AsString executes the request and returns the response body decoded
	// using the transport-reported character encoding (UTF-8 by default).
	AsString(ctx context.Context, req *Request) (string, error)
}

// StatusError is returned when the service responds with a status code other
// than 200 or 206. Body carries the error-body text, if any.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("rest: HTTP error %d (%s)", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("rest: HTTP error %d (%s): %s", e.StatusCode, e.Status, e.Body)
}

// Client is the default RestClient implementation, backed by net/http.
type Client struct {
	httpClient *http.Client
	logger     log.Logger
}

// NewClient creates a RestClient backed by the given http.Client. Passing
// nil selects a plain, non-retrying client; timeouts and connection settings
// are owned by the injected http.Client.
func NewClient(httpClient *http.Client, logger log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// NewRetryingClient creates a RestClient whose transport retries transient
// failures. This is a caller opt-in: the Request/protocol layer above stays
// retry-free either way.
func NewRetryingClient(logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewLogger()
	}
	return NewClient(retryhttp.NewClient(logger).StandardClient(), logger)
}

// ToWriter executes the request and streams the response body into w.
func (c *Client) ToWriter(ctx context.Context, req *Request, w io.Writer) (int64, error) {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("close response body: %s", err)
		}
	}()
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("rest: read response of %s: %w", req, err)
	}
	return n, nil
}

// AsString executes the request and returns the response body as a string.
func (c *Client) AsString(ctx context.Context, req *Request) (string, error) {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("close response body: %s", err)
		}
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("rest: read response of %s: %w", req, err)
	}
	if cs := responseCharset(resp); cs != "" && cs != "utf-8" && cs != "us-ascii" {
		c.logger.Warnf("unsupported response charset %q, assuming UTF-8", cs)
	}
	return string(body), nil
}

func (c *Client) execute(ctx context.Context, req *Request) (*http.Response, error) {
	u, err := req.URL()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), u.String(), req.Payload())
	if err != nil {
		return nil, fmt.Errorf("rest: build request %s: %w", req, err)
	}
	for name, value := range req.Headers() {
		// net/http owns the Content-Length wire header.
		if strings.EqualFold(name, "Content-Length") {
			if length, err := strconv.ParseInt(value, 10, 64); err == nil {
				httpReq.ContentLength = length
			}
			continue
		}
		httpReq.Header.Set(name, value)
	}
	if req.FormEncodedBody() {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	if dump, err := httputil.DumpRequestOut(httpReq, false); err == nil {
		c.logger.Debugf("Request dump: %s", string(dump))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("rest: execute %s: %w", req, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		defer func() {
			if err := resp.Body.Close(); err != nil {
				c.logger.Warnf("close response body: %s", err)
			}
		}()
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}

func responseCharset(resp *http.Response) string {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}
