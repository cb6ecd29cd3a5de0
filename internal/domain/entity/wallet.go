package entity

import "time"

// WalletKind is the provenance tag of a connected wallet.
type WalletKind string

const (
	WalletMetaMask      WalletKind = "metamask"
	WalletCoinbase      WalletKind = "coinbase"
	WalletWalletConnect WalletKind = "walletconnect"
	WalletTrust         WalletKind = "trust"
	WalletInjected      WalletKind = "injected"
)

var walletDisplayNames = map[WalletKind]string{
	WalletMetaMask:      "MetaMask",
	WalletCoinbase:      "Coinbase Wallet",
	WalletWalletConnect: "WalletConnect",
	WalletTrust:         "Trust Wallet",
	WalletInjected:      "Browser Wallet",
}

// Valid reports whether k is one of the known wallet kinds.
func (k WalletKind) Valid() bool {
	_, ok := walletDisplayNames[k]
	return ok
}

// DisplayName returns the human name of the wallet kind.
func (k WalletKind) DisplayName() string {
	if name, ok := walletDisplayNames[k]; ok {
		return name
	}
	return "Unknown Wallet"
}

// DefaultWalletName is the name given to a wallet connected without one.
func (k WalletKind) DefaultWalletName() string {
	name := k.DisplayName()
	if len(name) >= 6 && name[len(name)-6:] == "Wallet" {
		return name
	}
	return name + " Wallet"
}

// Wallet is the single persisted wallet record of an account.
type Wallet struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Address    string     `json:"walletAddress"`
	Name       string     `json:"walletName"`
	Kind       WalletKind `json:"walletType"`
	BalanceETH string     `json:"balanceEth"`
	BalanceUSD string     `json:"balanceUsd"`
	ChainID    uint64     `json:"chainId"`
	IsPrimary  bool       `json:"isPrimary"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// WalletConnection is the input of a connect request.
type WalletConnection struct {
	Address string     `json:"address"`
	Name    string     `json:"name,omitempty"`
	Kind    WalletKind `json:"type"`
	ChainID uint64     `json:"chainId,omitempty"`
}
