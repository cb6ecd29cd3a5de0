package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sentrix/internal/domain/entity"
)

const walletColumns = `id::text, user_id, wallet_address, wallet_name, wallet_type,
	balance_eth::text, balance_usd::text, chain_id, is_primary, created_at, updated_at`

// WalletRepo implements port.WalletStore over user_wallets.
type WalletRepo struct {
	db *DB
}

func NewWalletRepo(db *DB) *WalletRepo {
	return &WalletRepo{db: db}
}

func scanWallet(row pgx.Row) (*entity.Wallet, error) {
	var w entity.Wallet
	var kind string
	err := row.Scan(&w.ID, &w.UserID, &w.Address, &w.Name, &kind,
		&w.BalanceETH, &w.BalanceUSD, &w.ChainID, &w.IsPrimary, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.Kind = entity.WalletKind(kind)
	return &w, nil
}

// Insert creates the account's wallet row. A second row for the same account fails with a
// conflict error.
func (r *WalletRepo) Insert(ctx context.Context, w *entity.Wallet) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	id := uuid.New()
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO user_wallets (
			id, user_id, wallet_address, wallet_name, wallet_type,
			balance_eth, balance_usd, chain_id, is_primary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		id, w.UserID, w.Address, w.Name, string(w.Kind),
		zeroIfEmpty(w.BalanceETH), zeroIfEmpty(w.BalanceUSD), w.ChainID, w.IsPrimary,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return mapError("insert wallet", err)
	}
	w.ID = id.String()
	return nil
}

// UpdateConnection overwrites every connection field of the account's existing row.
func (r *WalletRepo) UpdateConnection(ctx context.Context, w *entity.Wallet) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	err := r.db.pool.QueryRow(ctx, `
		UPDATE user_wallets SET
			wallet_address = $2, wallet_name = $3, wallet_type = $4,
			balance_eth = $5, balance_usd = $6, chain_id = $7, is_primary = $8,
			updated_at = now()
		WHERE user_id = $1
		RETURNING id::text, created_at, updated_at`,
		w.UserID, w.Address, w.Name, string(w.Kind),
		zeroIfEmpty(w.BalanceETH), zeroIfEmpty(w.BalanceUSD), w.ChainID, w.IsPrimary,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	return mapError("update wallet connection", err)
}

func (r *WalletRepo) GetByUser(ctx context.Context, userID string) (*entity.Wallet, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	w, err := scanWallet(r.db.pool.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM user_wallets WHERE user_id = $1`, userID))
	if err != nil {
		return nil, mapError("get wallet", err)
	}
	return w, nil
}

// GetByID returns the wallet only when it belongs to userID.
func (r *WalletRepo) GetByID(ctx context.Context, userID, walletID string) (*entity.Wallet, error) {
	if _, err := uuid.Parse(walletID); err != nil {
		return nil, entity.E(entity.KindNotFound, "get wallet by id", err)
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	w, err := scanWallet(r.db.pool.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM user_wallets WHERE id = $1 AND user_id = $2`, walletID, userID))
	if err != nil {
		return nil, mapError("get wallet by id", err)
	}
	return w, nil
}

// DeleteByUser removes the account's wallet; stored transactions cascade.
func (r *WalletRepo) DeleteByUser(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.pool.Exec(ctx, `DELETE FROM user_wallets WHERE user_id = $1`, userID)
	if err != nil {
		return false, mapError("delete wallet", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *WalletRepo) UpdateName(ctx context.Context, userID, name string) (*entity.Wallet, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	w, err := scanWallet(r.db.pool.QueryRow(ctx, `
		UPDATE user_wallets SET wallet_name = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING `+walletColumns, userID, name))
	if err != nil {
		return nil, mapError("update wallet name", err)
	}
	return w, nil
}

func (r *WalletRepo) UpdateBalance(ctx context.Context, userID, eth, usd string) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE user_wallets SET balance_eth = $2, balance_usd = $3, updated_at = now()
		WHERE user_id = $1`, userID, zeroIfEmpty(eth), zeroIfEmpty(usd))
	if err != nil {
		return false, mapError("update wallet balance", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListAll returns every wallet, oldest first. Used by the batch sync command.
func (r *WalletRepo) ListAll(ctx context.Context) ([]entity.Wallet, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.pool.Query(ctx, `SELECT `+walletColumns+` FROM user_wallets ORDER BY created_at`)
	if err != nil {
		return nil, mapError("list wallets", err)
	}
	defer rows.Close()

	wallets := []entity.Wallet{}
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, mapError("list wallets", err)
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list wallets", err)
	}
	return wallets, nil
}

func (r *WalletRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
