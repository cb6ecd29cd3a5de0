package port

import (
	"context"

	"sentrix/internal/domain/entity"
	upstream "sentrix/internal/entity"
)

// NetworkDefinitionProvider is the single source of per-chain metadata.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns every supported network ordered by chain id.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// Resolve returns the definition for chainID. Unknown ids resolve to the default
	// chain and report false.
	Resolve(chainID uint64) (entity.NetworkDefinition, bool)

	// GetNetworkDefinitionByName looks a network up by its identifier, e.g. "polygon".
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)

	// TxExplorerURL returns the explorer page of a transaction on chainID.
	TxExplorerURL(chainID uint64, hash string) string
}

// ExplorerClient talks to an Etherscan-family account API.
type ExplorerClient interface {
	// GetBalance returns the smallest-unit balance of address as a decimal integer string.
	GetBalance(ctx context.Context, network entity.NetworkDefinition, address string) (string, error)

	// ListTransactions returns the raw transaction list, newest first.
	// An empty list with a nil error means the explorer had no transactions.
	ListTransactions(ctx context.Context, network entity.NetworkDefinition, address string) ([]upstream.ExplorerTx, error)
}

// PriceClient fetches spot prices.
type PriceClient interface {
	GetPrice(ctx context.Context, assetID, vsCurrency string) (float64, error)
}

// PriceService prices a network's native asset, caching successful lookups.
type PriceService interface {
	// NativePrice returns the fiat price and where it came from
	// (entity.PriceSourceLive, PriceSourceCache or PriceSourceFallback).
	NativePrice(ctx context.Context, network entity.NetworkDefinition) (float64, string)
}

// GeoLocator resolves an IP address to a coarse location.
type GeoLocator interface {
	Locate(ctx context.Context, ip string) (entity.GeoLocation, error)
}
