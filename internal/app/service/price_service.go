package service

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
	"sentrix/internal/metrics"
)

// priceServiceImpl implements port.PriceService.
type priceServiceImpl struct {
	client     port.PriceClient
	vsCurrency string
	cache      *cache.Cache
	group      singleflight.Group
	logger     port.Logger
}

// NewPriceService creates a price service. A ttl of zero disables caching; concurrent
// lookups of the same asset are still collapsed into one upstream call.
func NewPriceService(client port.PriceClient, vsCurrency string, ttl time.Duration, l port.Logger) port.PriceService {
	s := &priceServiceImpl{
		client:     client,
		vsCurrency: vsCurrency,
		logger:     l,
	}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

// NativePrice returns the price of the network's native asset. Failures fall back to the
// network's constant price.
func (s *priceServiceImpl) NativePrice(ctx context.Context, network entity.NetworkDefinition) (float64, string) {
	key := network.PriceAssetID + ":" + s.vsCurrency

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			metrics.PriceLookupsTotal.WithLabelValues(entity.PriceSourceCache).Inc()
			return v.(float64), entity.PriceSourceCache
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		price, err := s.client.GetPrice(ctx, network.PriceAssetID, s.vsCurrency)
		if err != nil {
			return 0.0, err
		}
		if s.cache != nil {
			s.cache.SetDefault(key, price)
		}
		return price, nil
	})
	if err != nil {
		s.logger.Warn("Price lookup failed, using fallback price",
			"asset", network.PriceAssetID,
			"fallback", network.FallbackPriceUSD,
			"error", err)
		metrics.PriceLookupsTotal.WithLabelValues(entity.PriceSourceFallback).Inc()
		return network.FallbackPriceUSD, entity.PriceSourceFallback
	}

	metrics.PriceLookupsTotal.WithLabelValues(entity.PriceSourceLive).Inc()
	return v.(float64), entity.PriceSourceLive
}
