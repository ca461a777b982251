package warehouse

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sre-dashboard/internal/domain"
)

var _ domain.QueryExecutor = (*Client)(nil)

const (
	opSubmit = "submit"
	opPoll   = "poll"

	maxErrorBodyBytes = 64 << 10
)

// ClientOptions tunes a Client beyond its Config.
type ClientOptions struct {
	// HTTPClient replaces the default client. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client executes SQL statements on one warehouse. It holds no per-query
// state and is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a Client. An incomplete Config is accepted here; every
// ExecuteSQL call then fails with a ConfigurationError before any request.
func NewClient(cfg Config, logger *slog.Logger, opts ...ClientOptions) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
	if len(opts) > 0 && opts[0].HTTPClient != nil {
		httpClient = opts[0].HTTPClient
	}

	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// ExecuteSQL submits query, waits for it to finish and returns the normalized
// result. Each call issues a new remote statement; nothing is retried.
func (c *Client) ExecuteSQL(ctx context.Context, query string) (*domain.QueryResult, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	submitted, err := c.submit(ctx, query)
	if err != nil {
		return nil, deadlineError(ctx, err, "", "", start)
	}

	final, err := c.awaitCompletion(ctx, submitted)
	if err != nil {
		return nil, err
	}

	if final.Result.HasMoreChunks() || (final.Manifest != nil && final.Manifest.Truncated) {
		c.logger.Warn("statement result incomplete, only the first chunk is returned",
			"statement_id", final.StatementID,
			"total_chunks", final.Manifest.chunkCount(),
			"truncated", final.Manifest != nil && final.Manifest.Truncated)
	}

	result := Normalize(final.Manifest, final.Result)
	c.logger.Debug("statement completed",
		"statement_id", final.StatementID,
		"rows", len(result.Rows),
		"duration", time.Since(start).Truncate(time.Millisecond))
	return result, nil
}

func (c *Client) submit(ctx context.Context, statement string) (*statementResponse, error) {
	body, err := json.Marshal(submitRequest{
		WarehouseID: c.cfg.WarehouseID(),
		Statement:   statement,
		WaitTimeout: waitTimeoutParam(c.cfg.WaitTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("encode submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Host+statementsPath, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: opSubmit, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, opSubmit)
	if err != nil {
		return nil, err
	}
	if resp.StatementID == "" {
		return nil, &ProtocolError{Message: "response missing statement_id"}
	}

	c.logger.Debug("statement submitted", "statement_id", resp.StatementID, "state", resp.state())
	return resp, nil
}

func (c *Client) getStatement(ctx context.Context, statementID string) (*statementResponse, error) {
	endpoint := c.cfg.Host + statementsPath + "/" + url.PathEscape(statementID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: opPoll, Err: err}
	}
	return c.do(req, opPoll)
}

// do sends an authenticated request and decodes a statement response.
func (c *Client) do(req *http.Request, op string) (*statementResponse, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	var out statementResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ProtocolError{Message: op + " response is not a statement", Err: err}
	}
	return &out, nil
}

// waitTimeoutParam formats d as the service's "<n>s" form: "0s" for zero,
// otherwise within 5s..50s.
func waitTimeoutParam(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	secs := int(d / time.Second)
	if secs < 5 {
		secs = 5
	}
	if secs > 50 {
		secs = 50
	}
	return fmt.Sprintf("%ds", secs)
}

func (m *Manifest) chunkCount() int {
	if m == nil {
		return 0
	}
	return m.TotalChunkCount
}
