package entity

// SimplePriceResponse is the CoinGecko /simple/price reply: asset id → currency → price.
type SimplePriceResponse map[string]map[string]float64

// CoinGeckoError is returned by CoinGecko on rate limiting and bad keys.
type CoinGeckoError struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Error string `json:"error"`
}
