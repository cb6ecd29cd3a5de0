package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sentrix/internal/domain/entity"
	"sentrix/internal/pkg/logger"
)

func newResolver(explorer *fakeExplorer, apiKey string, price *fakePriceClient) *balanceResolverImpl {
	prices := NewPriceService(price, "usd", time.Minute, logger.Nop{})
	return NewBalanceResolver(testNetworks(apiKey), explorer, prices, logger.Nop{}).(*balanceResolverImpl)
}

func TestResolveBalanceLive(t *testing.T) {
	explorer := &fakeExplorer{balance: "1500000000000000000"}
	r := newResolver(explorer, "real-key", &fakePriceClient{price: 2000})

	got := r.ResolveBalance(context.Background(), "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e1", 1)
	assert.Equal(t, entity.ModeLive, got.Mode)
	assert.Equal(t, "1.500000", got.NativeAmount)
	assert.Equal(t, "3000.00", got.FiatAmount)
	assert.Equal(t, entity.PriceSourceLive, got.PriceSource)
	assert.Equal(t, testAddress, got.Address)
	assert.Equal(t, "ETH", got.NativeSymbol)
}

func TestResolveBalancePriceFailureUsesFallbackPrice(t *testing.T) {
	explorer := &fakeExplorer{balance: "1000000000000000000"}
	r := newResolver(explorer, "real-key", &fakePriceClient{err: errors.New("down")})

	got := r.ResolveBalance(context.Background(), testAddress, 1)
	assert.Equal(t, entity.ModeLive, got.Mode)
	assert.Equal(t, "1.000000", got.NativeAmount)
	assert.Equal(t, "2400.00", got.FiatAmount)
	assert.Equal(t, entity.PriceSourceFallback, got.PriceSource)
}

func TestResolveBalanceExplorerFailureIsZero(t *testing.T) {
	explorer := &fakeExplorer{balanceErr: errors.New("explorer balance failed: NOTOK")}
	r := newResolver(explorer, "real-key", &fakePriceClient{price: 2000})

	got := r.ResolveBalance(context.Background(), testAddress, 1)
	assert.Equal(t, entity.ModeDegraded, got.Mode)
	assert.Equal(t, entity.ReasonUpstreamError, got.Reason)
	assert.Equal(t, "0.000000", got.NativeAmount)
	assert.Equal(t, "0.00", got.FiatAmount)
}

func TestResolveBalanceMalformedAmountIsZero(t *testing.T) {
	explorer := &fakeExplorer{balance: "Error! Invalid address format"}
	r := newResolver(explorer, "real-key", &fakePriceClient{price: 2000})

	got := r.ResolveBalance(context.Background(), testAddress, 1)
	assert.Equal(t, entity.ModeDegraded, got.Mode)
	assert.Equal(t, "0.000000", got.NativeAmount)
}

func TestResolveBalanceWithoutCredentialSkipsNetwork(t *testing.T) {
	for _, key := range []string{"", "YourEtherscanAPIKey", "etherscan_api_key"} {
		explorer := &fakeExplorer{balance: "1"}
		r := newResolver(explorer, key, &fakePriceClient{price: 2000})

		got := r.ResolveBalance(context.Background(), testAddress, 1)
		assert.Equal(t, entity.ModeDegraded, got.Mode, key)
		assert.Equal(t, entity.ReasonNoCredential, got.Reason, key)
		assert.Equal(t, 0, explorer.balanceHits, key)
	}
}

func TestResolveBalanceInvalidAddress(t *testing.T) {
	explorer := &fakeExplorer{balance: "1"}
	r := newResolver(explorer, "real-key", &fakePriceClient{price: 2000})

	got := r.ResolveBalance(context.Background(), "not-an-address", 1)
	assert.Equal(t, entity.ModeEmpty, got.Mode)
	assert.Equal(t, "0.000000", got.NativeAmount)
	assert.Equal(t, "0.00", got.FiatAmount)
	assert.Equal(t, 0, explorer.balanceHits)
}

func TestResolveBalanceUnsupportedChainUsesDefault(t *testing.T) {
	explorer := &fakeExplorer{balance: "0"}
	r := newResolver(explorer, "real-key", &fakePriceClient{price: 2000})

	got := r.ResolveBalance(context.Background(), testAddress, 56)
	assert.Equal(t, uint64(1), got.ChainID)
	assert.Equal(t, uint64(1), explorer.lastNetwork.ChainID)
}
