package entity

// DefaultChainID is used whenever a caller asks for a chain that is not in the known table.
const DefaultChainID uint64 = 1

// NetworkDefinition holds the metadata for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID          uint64  `json:"chainId" yaml:"chainId"`
	Name             string  `json:"name" yaml:"name"`
	Identifier       string  `json:"identifier" yaml:"identifier"` // e.g. "ethereum", "sepolia"
	NativeSymbol     string  `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals         int32   `json:"decimals" yaml:"decimals"`
	IsTestnet        bool    `json:"isTestnet" yaml:"isTestnet"`
	ExplorerAPIURL   string  `json:"explorerApiUrl" yaml:"explorerApiUrl"`
	ExplorerAPIKey   string  `json:"-" yaml:"-"`
	BlockExplorerURL string  `json:"blockExplorerUrl" yaml:"blockExplorerUrl"`
	PriceAssetID     string  `json:"priceAssetId" yaml:"priceAssetId"` // CoinGecko id of the native asset
	FallbackPriceUSD float64 `json:"fallbackPriceUsd" yaml:"fallbackPriceUsd"`
}

// TxURL returns the block-explorer page for a transaction hash on this network.
func (d NetworkDefinition) TxURL(hash string) string {
	return d.BlockExplorerURL + "/tx/" + hash
}
