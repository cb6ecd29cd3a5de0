package service

import (
	"context"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
	"sentrix/internal/metrics"
	"sentrix/internal/pkg/utils"
)

// balanceResolverImpl implements port.BalanceResolver.
type balanceResolverImpl struct {
	networks port.NetworkDefinitionProvider
	explorer port.ExplorerClient
	prices   port.PriceService
	logger   port.Logger
}

// NewBalanceResolver creates a resolver reading balances from the explorer and prices from prices.
func NewBalanceResolver(
	np port.NetworkDefinitionProvider,
	explorer port.ExplorerClient,
	prices port.PriceService,
	l port.Logger,
) port.BalanceResolver {
	return &balanceResolverImpl{
		networks: np,
		explorer: explorer,
		prices:   prices,
		logger:   l,
	}
}

// ResolveBalance never returns an error: any failure yields the zero balance with a
// degraded or empty mode.
func (s *balanceResolverImpl) ResolveBalance(ctx context.Context, address string, chainID uint64) entity.BalanceResult {
	network, _ := s.networks.Resolve(chainID)

	result := s.resolve(ctx, address, network)
	metrics.ResolutionsTotal.WithLabelValues("balance", string(result.Mode)).Inc()
	return result
}

func (s *balanceResolverImpl) resolve(ctx context.Context, address string, network entity.NetworkDefinition) entity.BalanceResult {
	if !utils.IsAddress(address) {
		s.logger.Debug("Rejecting balance lookup for malformed address", "address", address)
		return entity.ZeroBalance(address, network, entity.ModeEmpty, entity.ReasonInvalidAddress)
	}
	address = utils.NormalizeAddress(address)

	if !hasUsableKey(network.ExplorerAPIKey) {
		s.logger.Warn("No explorer API key configured, returning zero balance", "network", network.Identifier)
		return entity.ZeroBalance(address, network, entity.ModeDegraded, entity.ReasonNoCredential)
	}

	raw, err := s.explorer.GetBalance(ctx, network, address)
	if err != nil {
		s.logger.Warn("Balance lookup failed, returning zero balance",
			"network", network.Identifier,
			"address", address,
			"error", err)
		return entity.ZeroBalance(address, network, entity.ModeDegraded, entity.ReasonUpstreamError)
	}

	native, err := utils.FormatUnits(raw, network.Decimals, utils.NativePlaces)
	if err != nil {
		s.logger.Warn("Explorer returned a malformed balance", "network", network.Identifier, "raw", raw, "error", err)
		return entity.ZeroBalance(address, network, entity.ModeDegraded, entity.ReasonUpstreamError)
	}

	price, source := s.prices.NativePrice(ctx, network)
	fiat, err := utils.FiatValue(native, price)
	if err != nil {
		fiat = entity.ZeroFiatAmount
	}

	return entity.BalanceResult{
		Address:      address,
		ChainID:      network.ChainID,
		NativeSymbol: network.NativeSymbol,
		NativeAmount: native,
		FiatAmount:   fiat,
		Mode:         entity.ModeLive,
		PriceSource:  source,
	}
}
