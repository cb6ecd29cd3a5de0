package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"sentrix/internal/domain/entity"
	upstream "sentrix/internal/entity"
	"sentrix/internal/infrastructure/httpclient"
	"sentrix/internal/metrics"
)

// IPAPIClient geolocates IP addresses through ipapi.co.
type IPAPIClient struct {
	http    *httpclient.Client
	baseURL string
	logger  *zap.Logger
}

func NewIPAPIClient(http *httpclient.Client, baseURL string, logger *zap.Logger) *IPAPIClient {
	return &IPAPIClient{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("IPAPIClient"),
	}
}

// Locate returns the country and city of ip.
func (c *IPAPIClient) Locate(ctx context.Context, ip string) (entity.GeoLocation, error) {
	if ip == "" {
		return entity.GeoLocation{}, fmt.Errorf("empty ip")
	}

	start := time.Now()
	var resp upstream.IPAPIResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/"+url.PathEscape(ip)+"/json/", nil, &resp)
	metrics.UpstreamLatency.WithLabelValues("ipapi").Observe(time.Since(start).Seconds())
	metrics.UpstreamCallsTotal.WithLabelValues("ipapi", "", metrics.ClassifyUpstreamError(err)).Inc()
	if err != nil {
		return entity.GeoLocation{}, err
	}
	if resp.Error {
		c.logger.Debug("ipapi could not locate address", zap.String("ip", ip), zap.String("reason", resp.Reason))
		return entity.GeoLocation{}, fmt.Errorf("ipapi: %s", resp.Reason)
	}
	return entity.GeoLocation{Country: resp.CountryName, City: resp.City}, nil
}
