package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sentrix/internal/domain/entity"
)

const transactionColumns = `id::text, user_id, wallet_id::text, transaction_hash, chain_id, block_number,
	from_address, to_address, value::text, gas_used::text, gas_price::text, transaction_fee::text,
	token_symbol, token_address, transaction_type, status, timestamp, category, explorer_url, created_at`

// TransactionRepo implements port.TransactionStore over transactions.
type TransactionRepo struct {
	db *DB
}

func NewTransactionRepo(db *DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) Exists(ctx context.Context, chainID uint64, hash string) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE chain_id = $1 AND transaction_hash = $2)`,
		chainID, hash,
	).Scan(&exists)
	if err != nil {
		return false, mapError("check transaction", err)
	}
	return exists, nil
}

// Insert stores tx unless a row with the same (chain_id, transaction_hash) exists. It
// reports whether a row was written.
func (r *TransactionRepo) Insert(ctx context.Context, tx *entity.Transaction) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	id := uuid.New()
	tag, err := r.db.pool.Exec(ctx, `
		INSERT INTO transactions (
			id, user_id, wallet_id, transaction_hash, chain_id, block_number,
			from_address, to_address, value, gas_used, gas_price, transaction_fee,
			token_symbol, token_address, transaction_type, status, timestamp, category, explorer_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (chain_id, transaction_hash) DO NOTHING`,
		id, tx.UserID, tx.WalletID, tx.Hash, tx.ChainID, tx.BlockNumber,
		tx.From, tx.To, zeroIfEmpty(tx.Value), zeroIfEmpty(tx.GasUsed), zeroIfEmpty(tx.GasPrice), zeroIfEmpty(tx.Fee),
		tx.TokenSymbol, tx.TokenAddress, string(tx.Direction), tx.Status, tx.Timestamp, string(tx.Category), tx.ExplorerURL,
	)
	if err != nil {
		return false, mapError("insert transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	tx.ID = id.String()
	return true, nil
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID string, page entity.Page) ([]entity.Transaction, error) {
	return r.list(ctx, "list user transactions", `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1
		ORDER BY timestamp DESC, id
		LIMIT $2 OFFSET $3`, userID, page.Limit, page.Offset)
}

func (r *TransactionRepo) ListByWallet(ctx context.Context, userID, walletID string, page entity.Page) ([]entity.Transaction, error) {
	if _, err := uuid.Parse(walletID); err != nil {
		return []entity.Transaction{}, nil
	}
	return r.list(ctx, "list wallet transactions", `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1 AND wallet_id = $2
		ORDER BY timestamp DESC, id
		LIMIT $3 OFFSET $4`, userID, walletID, page.Limit, page.Offset)
}

func (r *TransactionRepo) list(ctx context.Context, op, query string, args ...any) ([]entity.Transaction, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	txs := []entity.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return txs, nil
}

func scanTransaction(row pgx.Row) (entity.Transaction, error) {
	var tx entity.Transaction
	var direction, category string
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.WalletID, &tx.Hash, &tx.ChainID, &tx.BlockNumber,
		&tx.From, &tx.To, &tx.Value, &tx.GasUsed, &tx.GasPrice, &tx.Fee,
		&tx.TokenSymbol, &tx.TokenAddress, &direction, &tx.Status, &tx.Timestamp, &category,
		&tx.ExplorerURL, &tx.CreatedAt,
	)
	tx.Direction = entity.Direction(direction)
	tx.Category = entity.Category(category)
	return tx, err
}
