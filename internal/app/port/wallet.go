package port

import (
	"context"

	"sentrix/internal/domain/entity"
)

// BalanceResolver resolves the native and fiat balance of an address. It never fails:
// every upstream problem is reported through the result's Mode.
type BalanceResolver interface {
	ResolveBalance(ctx context.Context, address string, chainID uint64) entity.BalanceResult
}

// WalletStore persists the single wallet of each account.
type WalletStore interface {
	// Insert creates the wallet. A second wallet for the same account fails with entity.ErrConflict.
	Insert(ctx context.Context, w *entity.Wallet) error
	// UpdateConnection overwrites address, name, kind, chain and balances of the account's wallet.
	UpdateConnection(ctx context.Context, w *entity.Wallet) error
	// GetByUser returns entity.ErrNotFound when the account has no wallet.
	GetByUser(ctx context.Context, userID string) (*entity.Wallet, error)
	// GetByID returns the wallet only when it belongs to userID.
	GetByID(ctx context.Context, userID, walletID string) (*entity.Wallet, error)
	DeleteByUser(ctx context.Context, userID string) (bool, error)
	UpdateName(ctx context.Context, userID, name string) (*entity.Wallet, error)
	UpdateBalance(ctx context.Context, userID, balanceETH, balanceUSD string) (bool, error)
	// ListAll returns every wallet. Used by batch sync.
	ListAll(ctx context.Context) ([]entity.Wallet, error)
	Ping(ctx context.Context) error
}

// ProfileStore persists account profiles.
type ProfileStore interface {
	// Ensure creates the profile when missing and leaves an existing one untouched.
	Ensure(ctx context.Context, p *entity.Profile) error
}

// WalletService is the wallet record manager.
type WalletService interface {
	ConnectWallet(ctx context.Context, conn entity.WalletConnection) (entity.Wallet, bool, error)
	GetWallet(ctx context.Context) (*entity.Wallet, error)
	DisconnectWallet(ctx context.Context) error
	UpdateWalletName(ctx context.Context, name string) (entity.Wallet, error)
	RefreshWalletBalance(ctx context.Context) (bool, error)
}
