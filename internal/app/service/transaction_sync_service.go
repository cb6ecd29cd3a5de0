package service

import (
	"context"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
	"sentrix/internal/metrics"
	"sentrix/internal/pkg/utils"
)

// transactionSyncServiceImpl implements port.TransactionSyncService.
type transactionSyncServiceImpl struct {
	wallets      port.WalletStore
	transactions port.TransactionStore
	fetcher      port.TransactionFetcher
	logger       port.Logger
}

// NewTransactionSyncService creates the sync orchestrator.
func NewTransactionSyncService(
	ws port.WalletStore,
	ts port.TransactionStore,
	fetcher port.TransactionFetcher,
	l port.Logger,
) port.TransactionSyncService {
	return &transactionSyncServiceImpl{
		wallets:      ws,
		transactions: ts,
		fetcher:      fetcher,
		logger:       l,
	}
}

// SyncWalletTransactions fetches transactions of the caller's wallet and stores the ones not
// seen before. Only live batches are stored. On a store failure the partial counts are
// returned with the error.
func (s *transactionSyncServiceImpl) SyncWalletTransactions(ctx context.Context, walletID, address string) (entity.SyncResult, error) {
	const op = "sync wallet transactions"

	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return entity.SyncResult{}, err
	}
	if walletID == "" {
		return entity.SyncResult{}, entity.Validationf(op, "wallet id is required")
	}

	w, err := s.wallets.GetByID(ctx, acct.ID, walletID)
	if err != nil {
		return entity.SyncResult{}, wrap(op, err)
	}
	if address == "" {
		address = w.Address
	}
	if !utils.IsAddress(address) {
		return entity.SyncResult{}, entity.Validationf(op, "invalid wallet address %q", address)
	}
	if !utils.SameAddress(address, w.Address) {
		return entity.SyncResult{}, entity.Validationf(op, "address %s does not belong to wallet %s", address, w.ID)
	}
	address = utils.NormalizeAddress(address)

	batch := s.fetcher.FetchTransactions(ctx, address, w.ChainID)
	result := entity.SyncResult{Fetched: len(batch.Transactions), Mode: batch.Mode}
	metrics.SyncRunsTotal.WithLabelValues(string(batch.Mode)).Inc()

	if batch.Mode != entity.ModeLive {
		s.logger.Warn("Fetcher returned non-live transactions, nothing persisted",
			"walletID", w.ID,
			"mode", batch.Mode,
			"reason", batch.Reason)
		return result, nil
	}

	for _, item := range batch.Transactions {
		exists, err := s.transactions.Exists(ctx, item.ChainID, item.Hash)
		if err != nil {
			return result, wrap(op, err)
		}
		if exists {
			result.Skipped++
			metrics.SyncTransactionsTotal.WithLabelValues("skipped").Inc()
			continue
		}

		tx, err := BuildTransaction(acct.ID, w.ID, address, item)
		if err != nil {
			return result, entity.E(entity.KindInternal, op, err)
		}
		inserted, err := s.transactions.Insert(ctx, tx)
		if err != nil {
			return result, wrap(op, err)
		}
		if inserted {
			result.Inserted++
			metrics.SyncTransactionsTotal.WithLabelValues("inserted").Inc()
		} else {
			result.Skipped++
			metrics.SyncTransactionsTotal.WithLabelValues("skipped").Inc()
		}
	}

	s.logger.Info("Wallet transactions synced",
		"walletID", w.ID,
		"fetched", result.Fetched,
		"inserted", result.Inserted,
		"skipped", result.Skipped)
	return result, nil
}

// ListUserTransactions returns the caller's stored transactions, newest first.
func (s *transactionSyncServiceImpl) ListUserTransactions(ctx context.Context, limit, offset int) ([]entity.Transaction, error) {
	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactions.ListByUser(ctx, acct.ID, utils.ClampPage(limit, offset))
	if err != nil {
		return nil, wrap("list user transactions", err)
	}
	return txs, nil
}

// ListWalletTransactions returns stored transactions of one of the caller's wallets, newest first.
func (s *transactionSyncServiceImpl) ListWalletTransactions(ctx context.Context, walletID string, limit, offset int) ([]entity.Transaction, error) {
	const op = "list wallet transactions"

	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return nil, err
	}
	if walletID == "" {
		return nil, entity.Validationf(op, "wallet id is required")
	}
	txs, err := s.transactions.ListByWallet(ctx, acct.ID, walletID, utils.ClampPage(limit, offset))
	if err != nil {
		return nil, wrap(op, err)
	}
	return txs, nil
}

// BuildTransaction maps a fetched transaction to a stored row for the wallet at address.
func BuildTransaction(userID, walletID, address string, item entity.NormalizedTransaction) (*entity.Transaction, error) {
	fee, err := utils.MulIntegers(item.GasUsed, item.GasPriceWei)
	if err != nil {
		return nil, err
	}
	return &entity.Transaction{
		UserID:      userID,
		WalletID:    walletID,
		Hash:        item.Hash,
		ChainID:     item.ChainID,
		BlockNumber: item.BlockNumber,
		From:        item.From,
		To:          item.To,
		Value:       item.Value,
		GasUsed:     orZero(item.GasUsed),
		GasPrice:    orZero(item.GasPriceWei),
		Fee:         fee,
		TokenSymbol: item.TokenSymbol,
		Direction:   directionOf(item, address),
		Status:      item.Status,
		Timestamp:   item.Timestamp,
		Category:    categorize(item),
		ExplorerURL: item.ExplorerURL,
	}, nil
}

func directionOf(item entity.NormalizedTransaction, address string) entity.Direction {
	switch {
	case utils.SameAddress(item.From, address):
		return entity.DirectionSent
	case utils.SameAddress(item.To, address):
		return entity.DirectionReceived
	default:
		return entity.DirectionOther
	}
}

// categorize: a zero-value call to some address is a contract interaction, anything carrying
// value is a transfer.
func categorize(item entity.NormalizedTransaction) entity.Category {
	switch {
	case utils.IsZeroInteger(item.ValueWei) && item.To != "":
		return entity.CategoryContractInteraction
	case !utils.IsZeroInteger(item.ValueWei):
		return entity.CategoryTransfer
	default:
		return entity.CategoryOther
	}
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
