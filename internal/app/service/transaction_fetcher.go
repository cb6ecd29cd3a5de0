package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
	upstream "sentrix/internal/entity"
	"sentrix/internal/metrics"
	"sentrix/internal/pkg/utils"
)

const placeholderGasUsed = "21000"

// cannedTx describes one entry of a fixed degraded-mode list.
type cannedTx struct {
	hash         string
	direction    entity.Direction
	value        string
	valueWei     string
	counterparty string
	gasPriceGwei string
	blockNumber  uint64
	age          time.Duration
}

// Returned when no explorer credential is configured. Newest first.
var noCredentialTxs = []cannedTx{
	{
		hash:         "0x5557a59f7f283df8dc77927f1fa7f85aff3c904daea06d4b5237dd30ebeab650",
		direction:    entity.DirectionSent,
		value:        "0.001500",
		valueWei:     "1500000000000000",
		counterparty: "0x1234567890123456789012345678901234567890",
		gasPriceGwei: "20",
		blockNumber:  19400200,
		age:          12 * time.Hour,
	},
	{
		hash:         "0xd99c5d4d7a868ec62f78ba5c55e3ecb8deb95e5dd7a9c5fd14c3f036cb0a25a9",
		direction:    entity.DirectionSent,
		value:        "0.050000",
		valueWei:     "50000000000000000",
		counterparty: "0x742d35cc6634c0532925a3b8d4c9db96c4b4d8e1",
		gasPriceGwei: "25",
		blockNumber:  19400100,
		age:          24 * time.Hour,
	},
	{
		hash:         "0xb55a488e9db73fafb7c278b4c735bb88e5465e63661a1d1371428c954dfa2fe3",
		direction:    entity.DirectionReceived,
		value:        "0.125000",
		valueWei:     "125000000000000000",
		counterparty: "0x2170ed0880ac9a755fd29b2688956bd959f933f8",
		gasPriceGwei: "30",
		blockNumber:  19400000,
		age:          48 * time.Hour,
	},
}

// Returned when the explorer call fails. Newest first.
var upstreamErrorTxs = []cannedTx{
	{
		hash:         "0xfallback2",
		direction:    entity.DirectionSent,
		value:        "0.025000",
		valueWei:     "25000000000000000",
		counterparty: "0x4444444444444444444444444444444444444444",
		gasPriceGwei: "20",
		blockNumber:  19399000,
		age:          60 * time.Hour,
	},
	{
		hash:         "0xfallback1",
		direction:    entity.DirectionReceived,
		value:        "0.055000",
		valueWei:     "55000000000000000",
		counterparty: "0x3333333333333333333333333333333333333333",
		gasPriceGwei: "22",
		blockNumber:  19398500,
		age:          72 * time.Hour,
	},
}

// transactionFetcherImpl implements port.TransactionFetcher.
type transactionFetcherImpl struct {
	networks port.NetworkDefinitionProvider
	explorer port.ExplorerClient
	logger   port.Logger
	now      func() time.Time
}

// NewTransactionFetcher creates a fetcher backed by the explorer txlist endpoint.
func NewTransactionFetcher(np port.NetworkDefinitionProvider, explorer port.ExplorerClient, l port.Logger) port.TransactionFetcher {
	return &transactionFetcherImpl{
		networks: np,
		explorer: explorer,
		logger:   l,
		now:      time.Now,
	}
}

// FetchTransactions returns transactions of address on chainID, newest first. It never fails:
// problems are reported through the batch mode and reason.
func (s *transactionFetcherImpl) FetchTransactions(ctx context.Context, address string, chainID uint64) entity.TransactionBatch {
	batch := s.fetch(ctx, address, chainID)
	metrics.ResolutionsTotal.WithLabelValues("transactions", string(batch.Mode)).Inc()
	return batch
}

func (s *transactionFetcherImpl) fetch(ctx context.Context, address string, chainID uint64) entity.TransactionBatch {
	if !utils.IsAddress(address) {
		s.logger.Debug("Rejecting transaction lookup for malformed address", "address", address)
		return entity.TransactionBatch{
			Transactions: []entity.NormalizedTransaction{},
			Mode:         entity.ModeEmpty,
			Reason:       entity.ReasonInvalidAddress,
		}
	}
	address = utils.NormalizeAddress(address)
	network, _ := s.networks.Resolve(chainID)

	if !hasUsableKey(network.ExplorerAPIKey) {
		s.logger.Warn("No explorer API key configured, returning placeholder transactions", "network", network.Identifier)
		return s.canned(noCredentialTxs, address, network, entity.ReasonNoCredential)
	}

	raw, err := s.explorer.ListTransactions(ctx, network, address)
	if err != nil {
		s.logger.Warn("Transaction lookup failed, returning fallback transactions",
			"network", network.Identifier,
			"address", address,
			"error", err)
		return s.canned(upstreamErrorTxs, address, network, entity.ReasonUpstreamError)
	}

	txs := make([]entity.NormalizedTransaction, 0, len(raw))
	for _, item := range raw {
		tx, err := normalize(item, address, network)
		if err != nil {
			s.logger.Warn("Explorer returned a malformed transaction, returning fallback transactions",
				"network", network.Identifier,
				"hash", item.Hash,
				"error", err)
			return s.canned(upstreamErrorTxs, address, network, entity.ReasonUpstreamError)
		}
		txs = append(txs, tx)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Timestamp.After(txs[j].Timestamp) })

	return entity.TransactionBatch{Transactions: txs, Mode: entity.ModeLive}
}

func normalize(item upstream.ExplorerTx, address string, network entity.NetworkDefinition) (entity.NormalizedTransaction, error) {
	if item.Hash == "" {
		return entity.NormalizedTransaction{}, fmt.Errorf("missing hash")
	}
	value, err := utils.FormatUnits(item.Value, network.Decimals, utils.NativePlaces)
	if err != nil {
		return entity.NormalizedTransaction{}, fmt.Errorf("value: %w", err)
	}
	gwei, err := utils.WeiToGwei(item.GasPrice)
	if err != nil {
		return entity.NormalizedTransaction{}, fmt.Errorf("gasPrice: %w", err)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(item.TimeStamp), 10, 64)
	if err != nil {
		return entity.NormalizedTransaction{}, fmt.Errorf("timeStamp: %w", err)
	}
	block, err := strconv.ParseUint(strings.TrimSpace(item.BlockNumber), 10, 64)
	if err != nil {
		return entity.NormalizedTransaction{}, fmt.Errorf("blockNumber: %w", err)
	}

	direction := entity.DirectionReceived
	if utils.SameAddress(item.From, address) {
		direction = entity.DirectionSent
	}
	status := entity.StatusCompleted
	if item.IsError == "1" {
		status = entity.StatusFailed
	}

	return entity.NormalizedTransaction{
		Hash:         item.Hash,
		Direction:    direction,
		Value:        value,
		ValueWei:     item.Value,
		TokenSymbol:  network.NativeSymbol,
		From:         strings.ToLower(item.From),
		To:           strings.ToLower(item.To),
		Timestamp:    time.Unix(ts, 0).UTC(),
		Status:       status,
		GasUsed:      item.GasUsed,
		GasPriceGwei: gwei,
		GasPriceWei:  item.GasPrice,
		BlockNumber:  block,
		ChainID:      network.ChainID,
		ExplorerURL:  network.TxURL(item.Hash),
	}, nil
}

func (s *transactionFetcherImpl) canned(list []cannedTx, address string, network entity.NetworkDefinition, reason string) entity.TransactionBatch {
	now := s.now().UTC()
	txs := make([]entity.NormalizedTransaction, 0, len(list))
	for _, c := range list {
		from, to := address, c.counterparty
		if c.direction == entity.DirectionReceived {
			from, to = c.counterparty, address
		}
		txs = append(txs, entity.NormalizedTransaction{
			Hash:         c.hash,
			Direction:    c.direction,
			Value:        c.value,
			ValueWei:     c.valueWei,
			TokenSymbol:  network.NativeSymbol,
			From:         from,
			To:           to,
			Timestamp:    now.Add(-c.age),
			Status:       entity.StatusCompleted,
			GasUsed:      placeholderGasUsed,
			GasPriceGwei: c.gasPriceGwei,
			GasPriceWei:  c.gasPriceGwei + "000000000",
			BlockNumber:  c.blockNumber,
			ChainID:      network.ChainID,
			ExplorerURL:  network.TxURL(c.hash),
		})
	}
	return entity.TransactionBatch{Transactions: txs, Mode: entity.ModeDegraded, Reason: reason}
}
