package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sentrix/internal/domain/entity"
	upstream "sentrix/internal/entity"
	networkdefinition "sentrix/internal/infrastructure/network/definition"
	"sentrix/internal/pkg/logger"
)

const (
	testUserID  = "8f14e45f-ceea-467f-a0e6-5d3b1c2f7a10"
	testAddress = "0x742d35cc6634c0532925a3b8d4c9db96c4b4d8e1"
	otherAddr   = "0x1111111111111111111111111111111111111111"
)

func authedCtx() context.Context {
	return entity.ContextWithAccount(context.Background(), entity.Account{
		ID:    testUserID,
		Email: "jane.doe+test@example.com",
	})
}

func testNetworks(apiKey string) *networkdefinition.NetworkDefinitionProvider {
	return networkdefinition.NewNetworkDefinitionProvider(logger.Nop{}, apiKey, nil)
}

// fakeExplorer is a scripted port.ExplorerClient.
type fakeExplorer struct {
	mu          sync.Mutex
	balance     string
	balanceErr  error
	txs         []upstream.ExplorerTx
	txErr       error
	balanceHits int
	txHits      int
	lastNetwork entity.NetworkDefinition
}

func (f *fakeExplorer) GetBalance(_ context.Context, network entity.NetworkDefinition, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceHits++
	f.lastNetwork = network
	return f.balance, f.balanceErr
}

func (f *fakeExplorer) ListTransactions(_ context.Context, network entity.NetworkDefinition, _ string) ([]upstream.ExplorerTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txHits++
	f.lastNetwork = network
	return f.txs, f.txErr
}

// fakePriceClient is a scripted port.PriceClient.
type fakePriceClient struct {
	mu    sync.Mutex
	price float64
	err   error
	delay time.Duration
	calls int
}

func (f *fakePriceClient) GetPrice(context.Context, string, string) (float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.price, f.err
}

func (f *fakePriceClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// stubResolver returns a fixed balance.
type stubResolver struct {
	result entity.BalanceResult
	// resolvedChain, when set, replaces the requested chain id in results.
	resolvedChain uint64
	calls         int
}

func (s *stubResolver) ResolveBalance(_ context.Context, address string, chainID uint64) entity.BalanceResult {
	s.calls++
	r := s.result
	r.Address = address
	r.ChainID = chainID
	if s.resolvedChain != 0 {
		r.ChainID = s.resolvedChain
	}
	return r
}

// stubFetcher returns a fixed batch.
type stubFetcher struct {
	batch       entity.TransactionBatch
	lastAddress string
	lastChain   uint64
}

func (s *stubFetcher) FetchTransactions(_ context.Context, address string, chainID uint64) entity.TransactionBatch {
	s.lastAddress = address
	s.lastChain = chainID
	return s.batch
}

// memWalletStore is an in-memory port.WalletStore keeping one row per user.
type memWalletStore struct {
	mu        sync.Mutex
	byUser    map[string]*entity.Wallet
	seq       int
	insertErr error
}

func newMemWalletStore() *memWalletStore {
	return &memWalletStore{byUser: map[string]*entity.Wallet{}}
}

func (m *memWalletStore) Insert(_ context.Context, w *entity.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.byUser[w.UserID]; ok {
		return entity.E(entity.KindConflict, "insert wallet", entity.ErrConflict)
	}
	m.seq++
	w.ID = fmt.Sprintf("wallet-%d", m.seq)
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	cp := *w
	m.byUser[w.UserID] = &cp
	return nil
}

func (m *memWalletStore) UpdateConnection(_ context.Context, w *entity.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byUser[w.UserID]
	if !ok {
		return entity.ErrNotFound
	}
	w.ID = cur.ID
	w.CreatedAt = cur.CreatedAt
	w.UpdatedAt = time.Now()
	cp := *w
	m.byUser[w.UserID] = &cp
	return nil
}

func (m *memWalletStore) GetByUser(_ context.Context, userID string) (*entity.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byUser[userID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWalletStore) GetByID(_ context.Context, userID, walletID string) (*entity.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byUser[userID]
	if !ok || w.ID != walletID {
		return nil, entity.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWalletStore) DeleteByUser(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byUser[userID]
	delete(m.byUser, userID)
	return ok, nil
}

func (m *memWalletStore) UpdateName(_ context.Context, userID, name string) (*entity.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byUser[userID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	w.Name = name
	cp := *w
	return &cp, nil
}

func (m *memWalletStore) UpdateBalance(_ context.Context, userID, eth, usd string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byUser[userID]
	if !ok {
		return false, nil
	}
	w.BalanceETH, w.BalanceUSD = eth, usd
	return true, nil
}

func (m *memWalletStore) ListAll(context.Context) ([]entity.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Wallet, 0, len(m.byUser))
	for _, w := range m.byUser {
		out = append(out, *w)
	}
	return out, nil
}

func (m *memWalletStore) Ping(context.Context) error { return nil }

func (m *memWalletStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byUser)
}

// memProfileStore records Ensure calls.
type memProfileStore struct {
	profiles map[string]entity.Profile
	err      error
}

func (m *memProfileStore) Ensure(_ context.Context, p *entity.Profile) error {
	if m.err != nil {
		return m.err
	}
	if m.profiles == nil {
		m.profiles = map[string]entity.Profile{}
	}
	if _, ok := m.profiles[p.ID]; !ok {
		m.profiles[p.ID] = *p
	}
	return nil
}

// memTxStore is an in-memory port.TransactionStore keyed by (chain, hash).
type memTxStore struct {
	mu        sync.Mutex
	rows      map[string]entity.Transaction
	failAfter int
	inserts   int
	existsErr error
}

func newMemTxStore() *memTxStore {
	return &memTxStore{rows: map[string]entity.Transaction{}, failAfter: -1}
}

func txKey(chainID uint64, hash string) string { return fmt.Sprintf("%d:%s", chainID, hash) }

func (m *memTxStore) Exists(_ context.Context, chainID uint64, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.rows[txKey(chainID, hash)]
	return ok, nil
}

func (m *memTxStore) Insert(_ context.Context, tx *entity.Transaction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter >= 0 && m.inserts >= m.failAfter {
		return false, fmt.Errorf("connection reset")
	}
	k := txKey(tx.ChainID, tx.Hash)
	if _, ok := m.rows[k]; ok {
		return false, nil
	}
	m.inserts++
	tx.ID = fmt.Sprintf("tx-%d", m.inserts)
	m.rows[k] = *tx
	return true, nil
}

func (m *memTxStore) list(filter func(entity.Transaction) bool, page entity.Page) []entity.Transaction {
	var out []entity.Transaction
	for _, r := range m.rows {
		if filter(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if page.Offset >= len(out) {
		return []entity.Transaction{}
	}
	out = out[page.Offset:]
	if len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out
}

func (m *memTxStore) ListByUser(_ context.Context, userID string, page entity.Page) ([]entity.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(t entity.Transaction) bool { return t.UserID == userID }, page), nil
}

func (m *memTxStore) ListByWallet(_ context.Context, userID, walletID string, page entity.Page) ([]entity.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(t entity.Transaction) bool { return t.UserID == userID && t.WalletID == walletID }, page), nil
}

func (m *memTxStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memSecurityStore is an in-memory port.SecurityStore.
type memSecurityStore struct {
	sessions []entity.LoginSession
	alerts   []entity.SecurityAlert
}

func (m *memSecurityStore) InsertSession(_ context.Context, s *entity.LoginSession) error {
	s.ID = fmt.Sprintf("session-%d", len(m.sessions)+1)
	s.CreatedAt = time.Now()
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memSecurityStore) RecentSessions(_ context.Context, userID string, since time.Time, limit int) ([]entity.LoginSession, error) {
	var out []entity.LoginSession
	for i := len(m.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		s := m.sessions[i]
		if s.UserID == userID && !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSecurityStore) InsertAlert(_ context.Context, a *entity.SecurityAlert) error {
	a.ID = fmt.Sprintf("alert-%d", len(m.alerts)+1)
	a.CreatedAt = time.Now()
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *memSecurityStore) ListAlerts(_ context.Context, userID string, page entity.Page) ([]entity.SecurityAlert, error) {
	var out []entity.SecurityAlert
	for i := len(m.alerts) - 1; i >= 0; i-- {
		if m.alerts[i].UserID == userID {
			out = append(out, m.alerts[i])
		}
	}
	if page.Offset >= len(out) {
		return []entity.SecurityAlert{}, nil
	}
	out = out[page.Offset:]
	if len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (m *memSecurityStore) MarkAlertRead(_ context.Context, userID, alertID string) (bool, error) {
	for i := range m.alerts {
		if m.alerts[i].ID == alertID && m.alerts[i].UserID == userID {
			m.alerts[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

// stubGeo returns a fixed location or error.
type stubGeo struct {
	loc entity.GeoLocation
	err error
}

func (s *stubGeo) Locate(context.Context, string) (entity.GeoLocation, error) {
	return s.loc, s.err
}
