package entity

// ResolutionMode tells which path produced a resolver or fetcher result.
type ResolutionMode string

const (
	// ModeLive is a result read from the upstream APIs.
	ModeLive ResolutionMode = "live"
	// ModeDegraded is a fallback result: zero balance or a fixed transaction list.
	ModeDegraded ResolutionMode = "degraded"
	// ModeEmpty is returned for input rejected before any network call.
	ModeEmpty ResolutionMode = "empty"
)

// Reasons attached to degraded results.
const (
	ReasonNoCredential   = "no_credential"
	ReasonUpstreamError  = "upstream_error"
	ReasonInvalidAddress = "invalid_address"
)

// Price sources reported with a balance.
const (
	PriceSourceLive     = "live"
	PriceSourceCache    = "cache"
	PriceSourceFallback = "fallback"
	PriceSourceNone     = "none"
)

const (
	ZeroNativeAmount = "0.000000"
	ZeroFiatAmount   = "0.00"
)

// BalanceResult is the normalized native/fiat balance pair of an address.
type BalanceResult struct {
	Address      string         `json:"address"`
	ChainID      uint64         `json:"chainId"`
	NativeSymbol string         `json:"nativeSymbol"`
	NativeAmount string         `json:"nativeAmount"`
	FiatAmount   string         `json:"fiatAmount"`
	Mode         ResolutionMode `json:"mode"`
	Reason       string         `json:"reason,omitempty"`
	PriceSource  string         `json:"priceSource"`
}

// ZeroBalance returns the fail-open result.
func ZeroBalance(address string, def NetworkDefinition, mode ResolutionMode, reason string) BalanceResult {
	return BalanceResult{
		Address:      address,
		ChainID:      def.ChainID,
		NativeSymbol: def.NativeSymbol,
		NativeAmount: ZeroNativeAmount,
		FiatAmount:   ZeroFiatAmount,
		Mode:         mode,
		Reason:       reason,
		PriceSource:  PriceSourceNone,
	}
}

// TransactionBatch is the fetcher result: transactions newest first plus how they were produced.
type TransactionBatch struct {
	Transactions []NormalizedTransaction `json:"transactions"`
	Mode         ResolutionMode          `json:"mode"`
	Reason       string                  `json:"reason,omitempty"`
}
