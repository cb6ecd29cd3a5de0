package port

import (
	"context"

	"sentrix/internal/domain/entity"
)

// TransactionFetcher returns normalized transactions for an address, newest first.
type TransactionFetcher interface {
	FetchTransactions(ctx context.Context, address string, chainID uint64) entity.TransactionBatch
}

// TransactionStore persists transactions. Rows are append-only.
type TransactionStore interface {
	Exists(ctx context.Context, chainID uint64, hash string) (bool, error)
	// Insert reports false when a row with the same (chain, hash) already exists.
	Insert(ctx context.Context, tx *entity.Transaction) (bool, error)
	ListByUser(ctx context.Context, userID string, page entity.Page) ([]entity.Transaction, error)
	ListByWallet(ctx context.Context, userID, walletID string, page entity.Page) ([]entity.Transaction, error)
}

// TransactionSyncService pulls fetched transactions into the store.
type TransactionSyncService interface {
	SyncWalletTransactions(ctx context.Context, walletID, address string) (entity.SyncResult, error)
	ListUserTransactions(ctx context.Context, limit, offset int) ([]entity.Transaction, error)
	ListWalletTransactions(ctx context.Context, walletID string, limit, offset int) ([]entity.Transaction, error)
}
