package httpclient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxLoggedBody = 512

// StatusError is returned for any non-2xx reply.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client is a small JSON-over-GET wrapper around fasthttp shared by the upstream API clients.
type Client struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Client whose requests never outlive timeout.
func New(timeout time.Duration, userAgent string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		client: &fasthttp.Client{
			Name:                userAgent,
			MaxIdleConnDuration: 30 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		timeout: timeout,
		logger:  logger,
	}
}

// Timeout is the per-request bound.
func (c *Client) Timeout() time.Duration { return c.timeout }

// GetJSON issues GET endpoint?query and decodes a 2xx body into out.
// The request deadline is the earlier of ctx's deadline and now+timeout.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query map[string]string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := req.URI().QueryArgs()
	for _, k := range keys {
		args.Add(k, query[k])
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	c.logger.Debug("Requesting upstream", zap.String("endpoint", endpoint))
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Warn("Upstream request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s: %w", endpoint, err)
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		c.logger.Warn("Upstream returned non-success status",
			zap.String("endpoint", endpoint),
			zap.Int("statusCode", code),
			zap.String("responseBody", truncate(body)),
		)
		return &StatusError{Endpoint: endpoint, StatusCode: code, Body: truncate(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("Failed to decode upstream response",
			zap.String("endpoint", endpoint),
			zap.String("responseBody", truncate(body)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxLoggedBody {
		return s[:maxLoggedBody] + "..."
	}
	return s
}
