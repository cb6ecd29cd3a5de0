package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"sentrix/internal/domain/entity"
	upstream "sentrix/internal/entity"
	"sentrix/internal/infrastructure/httpclient"
	"sentrix/internal/infrastructure/ratelimit"
	"sentrix/internal/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	explorerStatusOK       = "1"
	noTransactionsMessage  = "No transactions found"
	txListPageSize         = "100"
	txListEndBlock         = "99999999"
	explorerUpstreamMetric = "explorer"
)

// ExplorerError is a reply whose status field is not "1".
type ExplorerError struct {
	Action  string
	Message string
	Result  string
}

func (e *ExplorerError) Error() string {
	return fmt.Sprintf("explorer %s failed: %s (%s)", e.Action, e.Message, e.Result)
}

// ExplorerClient calls the Etherscan-family account module of a network.
type ExplorerClient struct {
	http     *httpclient.Client
	throttle *ratelimit.Throttle
	logger   *zap.Logger
}

// NewExplorerClient creates an ExplorerClient. throttle may be nil.
func NewExplorerClient(http *httpclient.Client, throttle *ratelimit.Throttle, logger *zap.Logger) *ExplorerClient {
	return &ExplorerClient{
		http:     http,
		throttle: throttle,
		logger:   logger.Named("ExplorerClient"),
	}
}

// GetBalance returns the wei balance of address as a decimal integer string.
func (c *ExplorerClient) GetBalance(ctx context.Context, network entity.NetworkDefinition, address string) (string, error) {
	resp, err := c.call(ctx, network, "balance", map[string]string{
		"address": address,
		"tag":     "latest",
	})
	if err != nil {
		return "", err
	}
	if resp.Status != explorerStatusOK {
		return "", &ExplorerError{Action: "balance", Message: resp.Message, Result: resultText(resp.Result)}
	}

	var balance string
	if err := json.Unmarshal(resp.Result, &balance); err != nil {
		return "", fmt.Errorf("failed to decode balance result: %w", err)
	}
	return balance, nil
}

// ListTransactions returns up to 100 transactions of address, newest first.
func (c *ExplorerClient) ListTransactions(ctx context.Context, network entity.NetworkDefinition, address string) ([]upstream.ExplorerTx, error) {
	resp, err := c.call(ctx, network, "txlist", map[string]string{
		"address":    address,
		"startblock": "0",
		"endblock":   txListEndBlock,
		"page":       "1",
		"offset":     txListPageSize,
		"sort":       "desc",
	})
	if err != nil {
		return nil, err
	}
	if resp.Status != explorerStatusOK {
		if strings.EqualFold(resp.Message, noTransactionsMessage) {
			return []upstream.ExplorerTx{}, nil
		}
		return nil, &ExplorerError{Action: "txlist", Message: resp.Message, Result: resultText(resp.Result)}
	}

	var txs []upstream.ExplorerTx
	if err := json.Unmarshal(resp.Result, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode txlist result: %w", err)
	}
	c.logger.Debug("Fetched transactions",
		zap.String("network", network.Identifier),
		zap.Int("count", len(txs)))
	return txs, nil
}

func (c *ExplorerClient) call(ctx context.Context, network entity.NetworkDefinition, action string, params map[string]string) (*upstream.ExplorerResponse, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx, network.Identifier); err != nil {
			return nil, fmt.Errorf("explorer throttle: %w", err)
		}
	}

	query := map[string]string{
		"module": "account",
		"action": action,
		"apikey": network.ExplorerAPIKey,
	}
	for k, v := range params {
		query[k] = v
	}

	start := time.Now()
	var resp upstream.ExplorerResponse
	err := c.http.GetJSON(ctx, network.ExplorerAPIURL, query, &resp)
	metrics.UpstreamLatency.WithLabelValues(explorerUpstreamMetric).Observe(time.Since(start).Seconds())
	metrics.UpstreamCallsTotal.WithLabelValues(explorerUpstreamMetric, network.Identifier, metrics.ClassifyUpstreamError(err)).Inc()
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func resultText(raw jsoniter.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
