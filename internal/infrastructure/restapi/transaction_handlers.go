package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
)

// TransactionHandler serves balance lookups, live transaction reads, sync and history.
type TransactionHandler struct {
	resolver port.BalanceResolver
	fetcher  port.TransactionFetcher
	sync     port.TransactionSyncService
	networks port.NetworkDefinitionProvider
	logger   port.Logger
}

func NewTransactionHandler(
	resolver port.BalanceResolver,
	fetcher port.TransactionFetcher,
	sync port.TransactionSyncService,
	networks port.NetworkDefinitionProvider,
	l port.Logger,
) *TransactionHandler {
	return &TransactionHandler{resolver: resolver, fetcher: fetcher, sync: sync, networks: networks, logger: l}
}

// chainParam reads the chain from ?network=<identifier> or ?chainId=<id>.
// Both may be given only when they name the same chain.
func (h *TransactionHandler) chainParam(c *gin.Context) (uint64, error) {
	chainID, err := queryChainID(c)
	if err != nil {
		return 0, err
	}
	name := c.Query("network")
	if name == "" {
		return chainID, nil
	}
	if h.networks == nil {
		return 0, entity.Validationf("parse query", "unknown network %q", name)
	}
	def, ok := h.networks.GetNetworkDefinitionByName(name)
	if !ok {
		return 0, entity.Validationf("parse query", "unknown network %q", name)
	}
	if chainID != 0 && chainID != def.ChainID {
		return 0, entity.Validationf("parse query", "network %q does not match chainId %d", name, chainID)
	}
	return def.ChainID, nil
}

// GetBalance handles GET /balances/:address?chainId=|network=. Lookup failures are reported through the
// result mode, never as an error status.
func (h *TransactionHandler) GetBalance(c *gin.Context) {
	chainID, err := h.chainParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.resolver.ResolveBalance(c.Request.Context(), c.Param("address"), chainID))
}

// LiveTransactions handles GET /transactions/live?address=&chainId=|network=.
func (h *TransactionHandler) LiveTransactions(c *gin.Context) {
	chainID, err := h.chainParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.fetcher.FetchTransactions(c.Request.Context(), c.Query("address"), chainID))
}

type syncRequest struct {
	WalletID      string `json:"walletId"`
	WalletAddress string `json:"walletAddress"`
}

// SyncTransactions handles POST /transactions/sync.
func (h *TransactionHandler) SyncTransactions(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, entity.Validationf("sync wallet transactions", "invalid request body"))
		return
	}
	res, err := h.sync.SyncWalletTransactions(c.Request.Context(), req.WalletID, req.WalletAddress)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"syncedTransactions":   res.Fetched,
		"insertedTransactions": res.Inserted,
		"skippedTransactions":  res.Skipped,
		"mode":                 res.Mode,
	})
}

// ListTransactions handles GET /transactions.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	txs, err := h.sync.ListUserTransactions(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// ListWalletTransactions handles GET /wallets/:walletId/transactions.
func (h *TransactionHandler) ListWalletTransactions(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	txs, err := h.sync.ListWalletTransactions(c.Request.Context(), c.Param("walletId"), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
