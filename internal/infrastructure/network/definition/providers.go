package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
)

const (
	ethPriceAssetID   = "ethereum"
	maticPriceAssetID = "matic-network"

	ethFallbackPriceUSD   = 2400
	maticFallbackPriceUSD = 0.8
)

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		ExplorerAPIURL:   "https://api.etherscan.io/api",
		BlockExplorerURL: "https://etherscan.io",
		PriceAssetID:     ethPriceAssetID,
		FallbackPriceUSD: ethFallbackPriceUSD,
	}
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia Testnet",
		Identifier:       "sepolia",
		NativeSymbol:     "ETH",
		Decimals:         18,
		IsTestnet:        true,
		ExplorerAPIURL:   "https://api-sepolia.etherscan.io/api",
		BlockExplorerURL: "https://sepolia.etherscan.io",
		PriceAssetID:     ethPriceAssetID,
		FallbackPriceUSD: ethFallbackPriceUSD,
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		NativeSymbol:     "MATIC",
		Decimals:         18,
		ExplorerAPIURL:   "https://api.polygonscan.com/api",
		BlockExplorerURL: "https://polygonscan.com",
		PriceAssetID:     maticPriceAssetID,
		FallbackPriceUSD: maticFallbackPriceUSD,
	}
	PolygonMumbai = entity.NetworkDefinition{
		ChainID:          80001,
		Name:             "Polygon Mumbai",
		Identifier:       "polygon_mumbai",
		NativeSymbol:     "MATIC",
		Decimals:         18,
		IsTestnet:        true,
		ExplorerAPIURL:   "https://api-testnet.polygonscan.com/api",
		BlockExplorerURL: "https://mumbai.polygonscan.com",
		PriceAssetID:     maticPriceAssetID,
		FallbackPriceUSD: maticFallbackPriceUSD,
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		ExplorerAPIURL:   "https://api.arbiscan.io/api",
		BlockExplorerURL: "https://arbiscan.io",
		PriceAssetID:     ethPriceAssetID,
		FallbackPriceUSD: ethFallbackPriceUSD,
	}
	ArbitrumGoerli = entity.NetworkDefinition{
		ChainID:          421613,
		Name:             "Arbitrum Goerli",
		Identifier:       "arbitrum_goerli",
		NativeSymbol:     "ETH",
		Decimals:         18,
		IsTestnet:        true,
		ExplorerAPIURL:   "https://api-goerli.arbiscan.io/api",
		BlockExplorerURL: "https://goerli.arbiscan.io",
		PriceAssetID:     ethPriceAssetID,
		FallbackPriceUSD: ethFallbackPriceUSD,
	}
	Optimism = entity.NetworkDefinition{
		ChainID:          10,
		Name:             "OP Mainnet",
		Identifier:       "optimism",
		NativeSymbol:     "ETH",
		Decimals:         18,
		ExplorerAPIURL:   "https://api-optimistic.etherscan.io/api",
		BlockExplorerURL: "https://optimistic.etherscan.io",
		PriceAssetID:     ethPriceAssetID,
		FallbackPriceUSD: ethFallbackPriceUSD,
	}
	OptimismGoerli = entity.NetworkDefinition{
		ChainID:          420,
		Name:             "Optimism Goerli",
		Identifier:       "optimism_goerli",
		NativeSymbol:     "ETH",
		Decimals:         18,
		IsTestnet:        true,
		ExplorerAPIURL:   "https://api-goerli-optimistic.etherscan.io/api",
		BlockExplorerURL: "https://goerli-optimism.etherscan.io",
		PriceAssetID:     ethPriceAssetID,
		FallbackPriceUSD: ethFallbackPriceUSD,
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = []entity.NetworkDefinition{
	Ethereum,
	Sepolia,
	Polygon,
	PolygonMumbai,
	Arbitrum,
	ArbitrumGoerli,
	Optimism,
	OptimismGoerli,
}

// Override replaces endpoint settings of one network. Empty fields keep the built-in value.
type Override struct {
	ChainID          uint64
	ExplorerAPIURL   string
	ExplorerAPIKey   string
	BlockExplorerURL string
	FallbackPriceUSD float64
}

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger  port.Logger
	byChain map[uint64]entity.NetworkDefinition
	byName  map[string]uint64
}

// NewNetworkDefinitionProvider builds the chain table. defaultAPIKey is attached to every
// network that has no key of its own in overrides.
func NewNetworkDefinitionProvider(log port.Logger, defaultAPIKey string, overrides []Override) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:  log,
		byChain: make(map[uint64]entity.NetworkDefinition, len(allKnownDefinitions)),
		byName:  make(map[string]uint64, len(allKnownDefinitions)),
	}
	for _, def := range allKnownDefinitions {
		def.ExplorerAPIKey = defaultAPIKey
		p.byChain[def.ChainID] = def
		p.byName[def.Identifier] = def.ChainID
	}

	for _, o := range overrides {
		def, ok := p.byChain[o.ChainID]
		if !ok {
			p.logger.Warn(fmt.Sprintf("Override for unknown chain %d ignored", o.ChainID))
			continue
		}
		if o.ExplorerAPIURL != "" {
			def.ExplorerAPIURL = strings.TrimRight(o.ExplorerAPIURL, "/")
		}
		if o.ExplorerAPIKey != "" {
			def.ExplorerAPIKey = o.ExplorerAPIKey
		}
		if o.BlockExplorerURL != "" {
			def.BlockExplorerURL = strings.TrimRight(o.BlockExplorerURL, "/")
		}
		if o.FallbackPriceUSD > 0 {
			def.FallbackPriceUSD = o.FallbackPriceUSD
		}
		p.byChain[o.ChainID] = def
		p.logger.Debug(fmt.Sprintf("Applied override for network '%s' (ChainID: %d)", def.Name, def.ChainID))
	}

	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Known networks: %d", len(p.byChain)))
	return p
}

// GetAllNetworkDefinitions returns every known network ordered by chain id.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.byChain))
	for _, def := range p.byChain {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetNetworkDefinitionByName returns a network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	chainID, ok := p.byName[strings.ToLower(identifier)]
	if !ok {
		return entity.NetworkDefinition{}, false
	}
	return p.byChain[chainID], true
}

// Resolve returns the definition for chainID. A zero or unknown chain id resolves to the
// default chain; the second result is false for unknown ids.
func (p *NetworkDefinitionProvider) Resolve(chainID uint64) (entity.NetworkDefinition, bool) {
	if chainID == 0 {
		return p.byChain[entity.DefaultChainID], true
	}
	if def, ok := p.byChain[chainID]; ok {
		return def, true
	}
	p.logger.Warn(fmt.Sprintf("Unsupported ChainID %d, falling back to ChainID %d", chainID, entity.DefaultChainID))
	return p.byChain[entity.DefaultChainID], false
}

// TxExplorerURL returns the explorer page of a transaction on chainID.
func (p *NetworkDefinitionProvider) TxExplorerURL(chainID uint64, hash string) string {
	def, _ := p.Resolve(chainID)
	return def.TxURL(hash)
}
