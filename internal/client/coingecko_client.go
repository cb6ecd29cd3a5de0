package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	upstream "sentrix/internal/entity"
	"sentrix/internal/infrastructure/httpclient"
	"sentrix/internal/metrics"
)

// CoinGeckoClient reads spot prices from the CoinGecko simple price API.
type CoinGeckoClient struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a CoinGeckoClient. An empty apiKey uses the keyless public tier.
func NewCoinGeckoClient(http *httpclient.Client, baseURL, apiKey string, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// GetPrice returns the price of assetID in vsCurrency.
func (c *CoinGeckoClient) GetPrice(ctx context.Context, assetID, vsCurrency string) (float64, error) {
	query := map[string]string{
		"ids":           assetID,
		"vs_currencies": vsCurrency,
	}
	if c.apiKey != "" {
		query["x_cg_demo_api_key"] = c.apiKey
	}

	start := time.Now()
	var resp upstream.SimplePriceResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/simple/price", query, &resp)
	metrics.UpstreamLatency.WithLabelValues("coingecko").Observe(time.Since(start).Seconds())
	metrics.UpstreamCallsTotal.WithLabelValues("coingecko", assetID, metrics.ClassifyUpstreamError(err)).Inc()
	if err != nil {
		return 0, err
	}

	price, ok := resp[assetID][vsCurrency]
	if !ok || price <= 0 {
		c.logger.Warn("CoinGecko reply has no price",
			zap.String("assetID", assetID),
			zap.String("vsCurrency", vsCurrency))
		return 0, fmt.Errorf("no %s price for %s", vsCurrency, assetID)
	}
	return price, nil
}
