package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentrix/internal/domain/entity"
	"sentrix/internal/infrastructure/auth"
	networkdefinition "sentrix/internal/infrastructure/network/definition"
	"sentrix/internal/infrastructure/ratelimit"
	"sentrix/internal/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	jwtSecret = "router-test-secret"
	accountID = "8f14e45f-ceea-467f-a0e6-5d3b1c2f7a10"
)

type stubWallets struct {
	wallet     *entity.Wallet
	created    bool
	err        error
	lastConn   entity.WalletConnection
	lastName   string
	refreshed  bool
	disconnect int
}

func (s *stubWallets) ConnectWallet(_ context.Context, conn entity.WalletConnection) (entity.Wallet, bool, error) {
	s.lastConn = conn
	if s.err != nil {
		return entity.Wallet{}, false, s.err
	}
	return entity.Wallet{Address: conn.Address, Kind: conn.Kind, IsPrimary: true}, s.created, nil
}

func (s *stubWallets) GetWallet(context.Context) (*entity.Wallet, error) { return s.wallet, s.err }

func (s *stubWallets) DisconnectWallet(context.Context) error {
	s.disconnect++
	return s.err
}

func (s *stubWallets) UpdateWalletName(_ context.Context, name string) (entity.Wallet, error) {
	s.lastName = name
	return entity.Wallet{Name: name}, s.err
}

func (s *stubWallets) RefreshWalletBalance(context.Context) (bool, error) { return s.refreshed, s.err }

type stubResolver struct{}

func (stubResolver) ResolveBalance(_ context.Context, address string, chainID uint64) entity.BalanceResult {
	return entity.BalanceResult{
		Address:      address,
		ChainID:      chainID,
		NativeAmount: entity.ZeroNativeAmount,
		FiatAmount:   entity.ZeroFiatAmount,
		Mode:         entity.ModeDegraded,
		Reason:       entity.ReasonNoCredential,
	}
}

type stubFetcher struct{}

func (stubFetcher) FetchTransactions(context.Context, string, uint64) entity.TransactionBatch {
	return entity.TransactionBatch{Transactions: []entity.NormalizedTransaction{}, Mode: entity.ModeEmpty}
}

type stubSync struct {
	result    entity.SyncResult
	err       error
	lastLimit int
	lastID    string
}

func (s *stubSync) SyncWalletTransactions(_ context.Context, walletID, _ string) (entity.SyncResult, error) {
	s.lastID = walletID
	return s.result, s.err
}

func (s *stubSync) ListUserTransactions(_ context.Context, limit, _ int) ([]entity.Transaction, error) {
	s.lastLimit = limit
	return []entity.Transaction{}, s.err
}

func (s *stubSync) ListWalletTransactions(_ context.Context, walletID string, limit, _ int) ([]entity.Transaction, error) {
	s.lastID = walletID
	s.lastLimit = limit
	return []entity.Transaction{}, s.err
}

type stubSecurity struct {
	lastInfo entity.LoginInfo
	err      error
}

func (s *stubSecurity) TrackLogin(_ context.Context, info entity.LoginInfo) (entity.LoginSession, error) {
	s.lastInfo = info
	return entity.LoginSession{IP: info.IP}, s.err
}

func (s *stubSecurity) CreateAlert(context.Context, string, string, string, string, map[string]any) (entity.SecurityAlert, error) {
	return entity.SecurityAlert{}, s.err
}

func (s *stubSecurity) ListAlerts(context.Context, int, int) ([]entity.SecurityAlert, error) {
	return []entity.SecurityAlert{}, s.err
}

func (s *stubSecurity) MarkAlertRead(context.Context, string) error { return s.err }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type fixture struct {
	router   *gin.Engine
	wallets  *stubWallets
	sync     *stubSync
	security *stubSecurity
}

func newFixture(t *testing.T, limit int, pinger Pinger, missing []string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{wallets: &stubWallets{}, sync: &stubSync{}, security: &stubSecurity{}}
	l := logger.Nop{}
	f.router = SetupRouter(RouterDeps{
		Wallets:      NewWalletHandler(f.wallets, l),
		Transactions: NewTransactionHandler(stubResolver{}, stubFetcher{}, f.sync, networkdefinition.NewNetworkDefinitionProvider(l, "", nil), l),
		Security:     NewSecurityHandler(f.security, l),
		Health:       NewHealthHandler(pinger, missing, "test", l),
		Verifier:     auth.NewVerifier(jwtSecret, "", ""),
		Limiter:      ratelimit.NewLimiter(ratelimit.NewMemoryStore(), limit, time.Minute, l),
		AccessLog:    zap.NewNop(),
		Logger:       l,
	})
	return f
}

func token(t *testing.T) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Email: "jane@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return s
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token(t))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAPIRequiresBearerToken(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConnectWalletStatus(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)

	f.wallets.created = true
	w := f.do(t, http.MethodPost, "/api/v1/wallet/connect",
		`{"address":"0x742d35cc6634c0532925a3b8d4c9db96c4b4d8e1","type":"metamask","chainId":137}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, entity.WalletMetaMask, f.wallets.lastConn.Kind)
	assert.Equal(t, uint64(137), f.wallets.lastConn.ChainID)

	body := decode(t, w)
	assert.Equal(t, true, body["created"])
	wallet := body["wallet"].(map[string]any)
	assert.Equal(t, "0x742d35cc6634c0532925a3b8d4c9db96c4b4d8e1", wallet["walletAddress"])

	f.wallets.created = false
	w = f.do(t, http.MethodPost, "/api/v1/wallet/connect", `{"address":"0x742d35cc6634c0532925a3b8d4c9db96c4b4d8e1","type":"metamask"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/wallet/connect", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorKindsMapToStatus(t *testing.T) {
	cases := map[entity.ErrorKind]int{
		entity.KindValidation:    http.StatusBadRequest,
		entity.KindNotFound:      http.StatusNotFound,
		entity.KindSchemaMissing: http.StatusServiceUnavailable,
		entity.KindInternal:      http.StatusInternalServerError,
	}
	for kind, status := range cases {
		f := newFixture(t, 100, stubPinger{}, nil)
		f.wallets.err = entity.E(kind, "get wallet", errors.New("boom"))

		w := f.do(t, http.MethodGet, "/api/v1/wallet", "")
		assert.Equal(t, status, w.Code, kind)
	}

	f := newFixture(t, 100, stubPinger{}, nil)
	f.wallets.err = entity.E(entity.KindSchemaMissing, "get wallet", entity.ErrSchemaMissing)
	w := f.do(t, http.MethodGet, "/api/v1/wallet", "")
	assert.Equal(t, "database not initialized", decode(t, w)["error"])

	f.wallets.err = entity.E(entity.KindInternal, "get wallet", errors.New("password=hunter2"))
	w = f.do(t, http.MethodGet, "/api/v1/wallet", "")
	assert.Equal(t, "Internal server error", decode(t, w)["error"])
}

func TestGetWalletWithoutWalletIsNull(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)

	w := f.do(t, http.MethodGet, "/api/v1/wallet", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Contains(t, body, "wallet")
	assert.Nil(t, body["wallet"])
}

func TestBalanceEndpoint(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)

	w := f.do(t, http.MethodGet, "/api/v1/balances/0xabc?chainId=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "0.000000", body["nativeAmount"])
	assert.Equal(t, "degraded", body["mode"])
	assert.Equal(t, float64(10), body["chainId"])

	w = f.do(t, http.MethodGet, "/api/v1/balances/0xabc?chainId=ten", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBalanceEndpointByNetworkName(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)

	w := f.do(t, http.MethodGet, "/api/v1/balances/0xabc?network=Polygon", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(137), decode(t, w)["chainId"])

	w = f.do(t, http.MethodGet, "/api/v1/balances/0xabc?network=polygon&chainId=137", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/balances/0xabc?network=polygon&chainId=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/transactions/live?address=0xabc&network=dogechain", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncEndpoint(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)
	f.sync.result = entity.SyncResult{Fetched: 2, Inserted: 1, Skipped: 1, Mode: entity.ModeLive}

	w := f.do(t, http.MethodPost, "/api/v1/transactions/sync", `{"walletId":"w-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["syncedTransactions"])
	assert.Equal(t, float64(1), body["insertedTransactions"])
	assert.Equal(t, "w-1", f.sync.lastID)
}

func TestListEndpointsPassPaging(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)

	w := f.do(t, http.MethodGet, "/api/v1/transactions?limit=20", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, f.sync.lastLimit)

	w = f.do(t, http.MethodGet, "/api/v1/wallets/w-9/transactions?limit=5&offset=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "w-9", f.sync.lastID)

	w = f.do(t, http.MethodGet, "/api/v1/transactions?offset=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackLoginDefaultsFromRequest(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/security/logins", nil)
	req.Header.Set("Authorization", "Bearer "+token(t))
	req.Header.Set("User-Agent", "Firefox/128")
	req.RemoteAddr = "203.0.113.7:5555"
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "203.0.113.7", f.security.lastInfo.IP)
	assert.Equal(t, "Firefox/128", f.security.lastInfo.UserAgent)
}

func TestMarkAlertReadNotFound(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)
	f.security.err = entity.E(entity.KindNotFound, "mark alert read", errors.New("alert x not found"))

	w := f.do(t, http.MethodPost, "/api/v1/security/alerts/x/read", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitDeniesAfterLimit(t *testing.T) {
	f := newFixture(t, 2, stubPinger{}, nil)

	w := f.do(t, http.MethodGet, "/api/v1/wallet", "")
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	f.do(t, http.MethodGet, "/api/v1/wallet", "")

	w = f.do(t, http.MethodGet, "/api/v1/wallet", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// other endpoints have their own window
	w = f.do(t, http.MethodGet, "/api/v1/transactions", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	f = newFixture(t, 100, stubPinger{err: entity.ErrSchemaMissing}, nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	f = newFixture(t, 100, stubPinger{}, []string{"JWT_SECRET"})
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "unhealthy", decode(t, w)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, 100, stubPinger{}, nil)
	f.do(t, http.MethodGet, "/api/v1/wallet", "")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sentrix_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
