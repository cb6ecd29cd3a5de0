package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sentrix/internal/app/provider"
	"sentrix/internal/domain/entity"
	"sentrix/internal/pkg/logger"
)

type syncOptions struct {
	account     string
	wallet      string
	address     string
	all         bool
	concurrency int
}

func newSyncCmd(a *app) *cobra.Command {
	opts := &syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch and store new transactions of a wallet, or of every wallet with --all",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.all && (opts.account == "" || opts.wallet == "") {
				return errors.New("--account and --wallet are required unless --all is set")
			}
			services, err := provider.Build(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer services.Close()

			if opts.all {
				return syncAll(cmd.Context(), cmd.OutOrStdout(), services, opts.concurrency)
			}
			ctx := entity.ContextWithAccount(cmd.Context(), entity.Account{ID: opts.account})
			res, err := services.Transactions.SyncWalletTransactions(ctx, opts.wallet, opts.address)
			printResult(cmd.OutOrStdout(), opts.wallet, res)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.account, "account", "", "account id owning the wallet")
	cmd.Flags().StringVar(&opts.wallet, "wallet", "", "wallet id")
	cmd.Flags().StringVar(&opts.address, "address", "", "address to sync (default: the wallet's address)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "sync every stored wallet")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 4, "wallets synced in parallel with --all")
	return cmd
}

func syncAll(ctx context.Context, out io.Writer, services *provider.Services, concurrency int) error {
	wallets, err := services.WalletStore.ListAll(ctx)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	var failed int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, w := range wallets {
		w := w
		g.Go(func() error {
			actx := entity.ContextWithAccount(gctx, entity.Account{ID: w.UserID})
			res, err := services.Transactions.SyncWalletTransactions(actx, w.ID, "")

			mu.Lock()
			defer mu.Unlock()
			printResult(out, w.ID, res)
			if err != nil {
				failed++
				logger.Error("Wallet sync failed", "walletID", w.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d wallets failed to sync", failed, len(wallets))
	}
	return nil
}

func printResult(out io.Writer, walletID string, res entity.SyncResult) {
	fmt.Fprintf(out, "%s\tmode=%s\tfetched=%d\tinserted=%d\tskipped=%d\n",
		walletID, res.Mode, res.Fetched, res.Inserted, res.Skipped)
}
