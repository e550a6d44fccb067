package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"scorm_rte/internal/model"
	"scorm_rte/pkg/logger"
	"scorm_rte/pkg/monitoring"
	"scorm_rte/pkg/tracing"
)

// AckPrefix is how the LMS acknowledges a stored commit.
const AckPrefix = "store complete"

const maxBodySize = 4 << 20

type Endpoints struct {
	InitURL   string
	CommitURL string
	PassedURL string
}

type Client struct {
	endpoints Endpoints
	http      *http.Client
}

func NewClient(endpoints Endpoints, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoints: endpoints, http: httpClient}
}

func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Fetch 拉取已有的学习记录。空响应表示没有历史数据，返回 nil, nil
func (c *Client) Fetch(ctx context.Context) (*model.InitPayload, error) {
	if c.endpoints.InitURL == "" {
		logger.Log.Warn("LMS init URL is not defined")
		return nil, nil
	}

	body, err := c.do(ctx, model.SyncOpFetch, http.MethodGet, c.endpoints.InitURL, nil)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return nil, &SyncError{Op: model.SyncOpFetch, Diagnostic: string(body), Err: ErrMalformedState}
	}

	var payload model.InitPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &SyncError{Op: model.SyncOpFetch, Diagnostic: DiagParseFailed, Err: err}
	}
	return &payload, nil
}

// Commit posts the payload; only a body starting with AckPrefix counts as stored.
func (c *Client) Commit(ctx context.Context, payload *model.CommitPayload) error {
	if c.endpoints.CommitURL == "" {
		logger.Log.Warn("LMS commit URL is not defined")
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return &SyncError{Op: model.SyncOpCommit, Diagnostic: err.Error(), Err: err}
	}

	body, err := c.do(ctx, model.SyncOpCommit, http.MethodPost, c.endpoints.CommitURL, data)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(string(body), AckPrefix) {
		return &SyncError{Op: model.SyncOpCommit, Diagnostic: string(body), Err: ErrNotAcknowledged}
	}
	return nil
}

// Passed sends the one-shot passed notification. The response has no contract.
func (c *Client) Passed(ctx context.Context) error {
	if c.endpoints.PassedURL == "" {
		return nil
	}
	_, err := c.do(ctx, model.SyncOpPassed, http.MethodPost, c.endpoints.PassedURL, nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, url string, data []byte) (body []byte, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "lms."+op)
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.url", url))
	start := time.Now()
	defer func() {
		monitoring.ObserveLMSRequest(op, err == nil, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, Diagnostic(err))
			logger.Log.Warn("LMS request failed",
				zap.String("operation", op),
				zap.String("url", url),
				zap.Error(err))
		}
		span.End()
	}()

	var reader io.Reader
	if data != nil {
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &SyncError{Op: op, Diagnostic: diagUncaught + err.Error(), Err: err}
	}
	req.Header.Set("Cache-Control", "no-cache")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tracing.InjectHeaders(ctx, req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &SyncError{Op: op, Diagnostic: transportDiagnostic(ctx, err), Err: errors.Join(ErrTransport, err)}
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &SyncError{Op: op, Diagnostic: transportDiagnostic(ctx, err), Err: errors.Join(ErrTransport, err)}
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &SyncError{Op: op, Diagnostic: DiagNotFound, Err: ErrTransport}
	case resp.StatusCode == http.StatusInternalServerError:
		return nil, &SyncError{Op: op, Diagnostic: DiagServerError, Err: ErrTransport}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &SyncError{Op: op, Diagnostic: diagUncaught + string(body), Err: ErrTransport}
	}
	return body, nil
}

func transportDiagnostic(ctx context.Context, err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return DiagTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return DiagTimeout
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return DiagAborted
	}
	return DiagNotConnected
}
