package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
	"sentrix/internal/metrics"
	"sentrix/internal/pkg/utils"
)

const maxWalletNameLength = 100

// walletServiceImpl implements port.WalletService.
type walletServiceImpl struct {
	wallets  port.WalletStore
	profiles port.ProfileStore
	resolver port.BalanceResolver
	logger   port.Logger
}

// NewWalletService creates the wallet record manager.
func NewWalletService(
	ws port.WalletStore,
	ps port.ProfileStore,
	resolver port.BalanceResolver,
	l port.Logger,
) port.WalletService {
	return &walletServiceImpl{
		wallets:  ws,
		profiles: ps,
		resolver: resolver,
		logger:   l,
	}
}

// ConnectWallet creates the account's wallet, or overwrites it in place when one exists.
// The second result is true when a new row was created.
func (s *walletServiceImpl) ConnectWallet(ctx context.Context, conn entity.WalletConnection) (entity.Wallet, bool, error) {
	const op = "connect wallet"

	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return entity.Wallet{}, false, err
	}
	if !utils.IsAddress(conn.Address) {
		return entity.Wallet{}, false, entity.Validationf(op, "invalid wallet address %q", conn.Address)
	}
	if !conn.Kind.Valid() {
		return entity.Wallet{}, false, entity.Validationf(op, "unsupported wallet type %q", conn.Kind)
	}
	name := strings.TrimSpace(conn.Name)
	if name == "" {
		name = conn.Kind.DefaultWalletName()
	}
	if len(name) > maxWalletNameLength {
		return entity.Wallet{}, false, entity.Validationf(op, "wallet name longer than %d characters", maxWalletNameLength)
	}
	chainID := conn.ChainID
	if chainID == 0 {
		chainID = entity.DefaultChainID
	}

	if err := s.profiles.Ensure(ctx, &entity.Profile{
		ID:       acct.ID,
		Email:    acct.Email,
		FullName: acct.FullName,
		Username: DeriveUsername(acct),
	}); err != nil {
		s.record("connect", err)
		return entity.Wallet{}, false, wrap(op, err)
	}

	balance := s.resolver.ResolveBalance(ctx, conn.Address, chainID)
	if balance.Mode != entity.ModeLive {
		s.logger.Warn("Connecting wallet with fallback balance", "userID", acct.ID, "mode", balance.Mode, "reason", balance.Reason)
	}
	if balance.ChainID != 0 {
		chainID = balance.ChainID
	}

	w := &entity.Wallet{
		UserID:     acct.ID,
		Address:    utils.NormalizeAddress(conn.Address),
		Name:       name,
		Kind:       conn.Kind,
		BalanceETH: balance.NativeAmount,
		BalanceUSD: balance.FiatAmount,
		ChainID:    chainID,
		IsPrimary:  true,
	}

	created := true
	err = s.wallets.Insert(ctx, w)
	if errors.Is(err, entity.ErrConflict) {
		created = false
		err = s.wallets.UpdateConnection(ctx, w)
		if errors.Is(err, entity.ErrNotFound) {
			// Row vanished between the two statements.
			created = true
			err = s.wallets.Insert(ctx, w)
		}
	}
	s.record("connect", err)
	if err != nil {
		return entity.Wallet{}, false, wrap(op, err)
	}

	s.logger.Info("Wallet connected", "userID", acct.ID, "walletID", w.ID, "chainID", chainID, "created", created)
	return *w, created, nil
}

// GetWallet returns the account's wallet or nil when there is none.
func (s *walletServiceImpl) GetWallet(ctx context.Context) (*entity.Wallet, error) {
	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return nil, err
	}
	w, err := s.wallets.GetByUser(ctx, acct.ID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get wallet", err)
	}
	return w, nil
}

// DisconnectWallet deletes the account's wallet. Deleting a missing wallet is not an error.
func (s *walletServiceImpl) DisconnectWallet(ctx context.Context) error {
	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return err
	}
	deleted, err := s.wallets.DeleteByUser(ctx, acct.ID)
	s.record("disconnect", err)
	if err != nil {
		return wrap("disconnect wallet", err)
	}
	s.logger.Info("Wallet disconnected", "userID", acct.ID, "deleted", deleted)
	return nil
}

// UpdateWalletName renames the account's wallet.
func (s *walletServiceImpl) UpdateWalletName(ctx context.Context, name string) (entity.Wallet, error) {
	const op = "update wallet name"

	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return entity.Wallet{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Wallet{}, entity.Validationf(op, "wallet name is required")
	}
	if len(name) > maxWalletNameLength {
		return entity.Wallet{}, entity.Validationf(op, "wallet name longer than %d characters", maxWalletNameLength)
	}

	w, err := s.wallets.UpdateName(ctx, acct.ID, name)
	s.record("rename", err)
	if err != nil {
		return entity.Wallet{}, wrap(op, err)
	}
	return *w, nil
}

// RefreshWalletBalance re-resolves and stores the wallet balance. It reports false when the
// account has no wallet.
func (s *walletServiceImpl) RefreshWalletBalance(ctx context.Context) (bool, error) {
	const op = "refresh wallet balance"

	acct, err := entity.RequireAccount(ctx)
	if err != nil {
		return false, err
	}
	w, err := s.wallets.GetByUser(ctx, acct.ID)
	if errors.Is(err, entity.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, wrap(op, err)
	}

	balance := s.resolver.ResolveBalance(ctx, w.Address, w.ChainID)
	updated, err := s.wallets.UpdateBalance(ctx, acct.ID, balance.NativeAmount, balance.FiatAmount)
	s.record("refresh", err)
	if err != nil {
		return false, wrap(op, err)
	}
	return updated, nil
}

func (s *walletServiceImpl) record(operation string, err error) {
	status := "ok"
	if err != nil {
		status = string(entity.KindOf(err))
	}
	metrics.WalletOperationsTotal.WithLabelValues(operation, status).Inc()
}

// DeriveUsername picks the profile username: token metadata first, then the alphanumeric
// part of the email local-part, then user_<first 8 chars of the id>.
func DeriveUsername(acct entity.Account) string {
	if u := strings.TrimSpace(acct.Username); u != "" {
		return u
	}
	if at := strings.IndexByte(acct.Email, '@'); at > 0 {
		local := strings.Map(func(r rune) rune {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				return r
			}
			return -1
		}, acct.Email[:at])
		if local != "" {
			return local
		}
	}
	id := acct.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "user_" + id
}

// wrap tags err with op, keeping the kind of an *entity.Error.
func wrap(op string, err error) error {
	var e *entity.Error
	if errors.As(err, &e) {
		return entity.E(e.Kind, op, err)
	}
	return entity.E(entity.KindInternal, op, err)
}
