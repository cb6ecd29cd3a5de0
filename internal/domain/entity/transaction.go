package entity

import "time"

// Direction of a transaction relative to the queried address.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
	DirectionOther    Direction = "other"
)

// Category is the coarse classification stored with a persisted transaction.
type Category string

const (
	CategoryTransfer            Category = "transfer"
	CategoryContractInteraction Category = "contract_interaction"
	CategoryOther               Category = "other"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// NormalizedTransaction is one chain transaction as the fetcher returns it.
// Value is in native units (6 dp) and GasPriceGwei in gwei (0 dp); the wei
// fields keep the raw integers needed to compute fees on persistence.
type NormalizedTransaction struct {
	Hash         string    `json:"id"`
	Direction    Direction `json:"type"`
	Value        string    `json:"amount"`
	ValueWei     string    `json:"-"`
	TokenSymbol  string    `json:"token"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Timestamp    time.Time `json:"timestamp"`
	Status       string    `json:"status"`
	GasUsed      string    `json:"gasUsed"`
	GasPriceGwei string    `json:"gasPrice"`
	GasPriceWei  string    `json:"-"`
	BlockNumber  uint64    `json:"blockNumber"`
	ChainID      uint64    `json:"chainId"`
	ExplorerURL  string    `json:"explorerUrl"`
}

// Transaction is a persisted transaction row.
type Transaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	WalletID     string    `json:"walletId"`
	Hash         string    `json:"transactionHash"`
	ChainID      uint64    `json:"chainId"`
	BlockNumber  uint64    `json:"blockNumber"`
	From         string    `json:"fromAddress"`
	To           string    `json:"toAddress"`
	Value        string    `json:"value"`
	GasUsed      string    `json:"gasUsed"`
	GasPrice     string    `json:"gasPrice"`
	Fee          string    `json:"transactionFee"`
	TokenSymbol  string    `json:"tokenSymbol"`
	TokenAddress string    `json:"tokenAddress,omitempty"`
	Direction    Direction `json:"transactionType"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Category     Category  `json:"category"`
	ExplorerURL  string    `json:"explorerUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SyncResult reports one sync run. Fetched counts what the fetcher returned,
// Inserted counts rows newly written, Skipped counts rows that already existed.
type SyncResult struct {
	Fetched  int            `json:"syncedTransactions"`
	Inserted int            `json:"insertedTransactions"`
	Skipped  int            `json:"skippedTransactions"`
	Mode     ResolutionMode `json:"mode"`
}

// Page is a limit/offset window over a newest-first listing.
type Page struct {
	Limit  int
	Offset int
}
