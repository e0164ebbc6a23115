package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"feeScope/internal/model"
)

// Client executes GraphQL queries against a subgraph endpoint over HTTP.
// It is an explicit value passed into each fetch operation; there is no
// package-level shared instance.
type Client struct {
	endpoint     string
	httpClient   *http.Client
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// Config holds client settings. Endpoint is required.
type Config struct {
	Endpoint     string
	HTTPClient   *http.Client
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *zap.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("graph endpoint is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		httpClient:   cfg.HTTPClient,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       cfg.Logger,
	}, nil
}

type graphRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphError struct {
	Message string `json:"message"`
}

type graphResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphError    `json:"errors"`
}

// QueryPositions fetches one page of positions as of blockNumber.
func (c *Client) QueryPositions(ctx context.Context, blockNumber uint64, first, skip int) ([]model.PositionRecord, error) {
	var payload struct {
		Positions []model.PositionRecord `json:"positions"`
	}
	err := c.execute(ctx, positionsQuery, map[string]any{
		"blockNumber": blockNumber,
		"first":       first,
		"skip":        skip,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Positions, nil
}

type poolTickWire struct {
	Tick        string `json:"tick"`
	Token0Price string `json:"token0Price"`
	Token1Price string `json:"token1Price"`
}

// QueryPoolTick fetches the pool's tick and mutually-inverse prices as of
// blockNumber.
func (c *Client) QueryPoolTick(ctx context.Context, poolID string, blockNumber uint64) (model.PoolTick, error) {
	var payload struct {
		Pool *poolTickWire `json:"pool"`
	}
	err := c.execute(ctx, poolTickQuery, map[string]any{
		"poolId":      strings.ToLower(poolID),
		"blockNumber": blockNumber,
	}, &payload)
	if err != nil {
		return model.PoolTick{}, err
	}
	if payload.Pool == nil {
		return model.PoolTick{}, fmt.Errorf("%w: pool %s at block %d", model.ErrDataUnavailable, poolID, blockNumber)
	}

	tick, err := strconv.ParseInt(payload.Pool.Tick, 10, 64)
	if err != nil {
		return model.PoolTick{}, fmt.Errorf("%w: pool %s tick %q", model.ErrMalformedRecord, poolID, payload.Pool.Tick)
	}
	token0Price, err := strconv.ParseFloat(payload.Pool.Token0Price, 64)
	if err != nil {
		return model.PoolTick{}, fmt.Errorf("%w: pool %s token0Price %q", model.ErrMalformedRecord, poolID, payload.Pool.Token0Price)
	}
	token1Price, err := strconv.ParseFloat(payload.Pool.Token1Price, 64)
	if err != nil {
		return model.PoolTick{}, fmt.Errorf("%w: pool %s token1Price %q", model.ErrMalformedRecord, poolID, payload.Pool.Token1Price)
	}

	return model.PoolTick{
		Tick:        tick,
		Token0Price: token0Price,
		Token1Price: token1Price,
	}, nil
}

// execute posts the query and decodes the data payload into out. Transport
// and server-side failures are retried with exponential backoff; GraphQL
// errors (the source cannot serve the block or pool) are terminal.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	var raw []byte
	err = withRetry(ctx, c.maxRetries, c.retryBackoff, func(ctx context.Context) error {
		var err error
		raw, err = c.post(ctx, body)
		if err != nil {
			c.logger.Warn("subgraph query failed", zap.Error(err))
		}
		return err
	})
	if err != nil {
		return err
	}

	var resp graphResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("%w: %s", model.ErrDataUnavailable, resp.Errors[0].Message)
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return fmt.Errorf("%w: empty response data", model.ErrDataUnavailable)
	}

	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", model.ErrMalformedRecord, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "feescope/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subgraph request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subgraph status %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
