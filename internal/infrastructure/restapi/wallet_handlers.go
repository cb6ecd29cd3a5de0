package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
)

// WalletHandler serves the wallet record endpoints.
type WalletHandler struct {
	wallets port.WalletService
	logger  port.Logger
}

func NewWalletHandler(ws port.WalletService, l port.Logger) *WalletHandler {
	return &WalletHandler{wallets: ws, logger: l}
}

// ConnectWallet handles POST /wallet/connect.
func (h *WalletHandler) ConnectWallet(c *gin.Context) {
	var req entity.WalletConnection
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, entity.Validationf("connect wallet", "invalid request body"))
		return
	}

	w, created, err := h.wallets.ConnectWallet(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "created": created, "wallet": w})
}

// GetWallet handles GET /wallet. A missing wallet is returned as null.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	w, err := h.wallets.GetWallet(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": w})
}

type renameRequest struct {
	Name string `json:"name"`
}

// RenameWallet handles PATCH /wallet.
func (h *WalletHandler) RenameWallet(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, entity.Validationf("update wallet name", "invalid request body"))
		return
	}
	w, err := h.wallets.UpdateWalletName(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "wallet": w})
}

// DisconnectWallet handles DELETE /wallet.
func (h *WalletHandler) DisconnectWallet(c *gin.Context) {
	if err := h.wallets.DisconnectWallet(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RefreshBalance handles POST /wallet/refresh.
func (h *WalletHandler) RefreshBalance(c *gin.Context) {
	updated, err := h.wallets.RefreshWalletBalance(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": updated})
}
