package restapi

import (
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sentrix/internal/app/port"
	"sentrix/internal/infrastructure/auth"
)

var errRateLimited = errors.New("rate limit exceeded")

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Wallets      *WalletHandler
	Transactions *TransactionHandler
	Security     *SecurityHandler
	Health       *HealthHandler
	Verifier     *auth.Verifier
	// Limiter may be nil to disable per-account rate limiting.
	Limiter     port.RateLimiter
	CORSOrigins []string
	AccessLog   *zap.Logger
	Logger      port.Logger
}

// SetupRouter builds the gin engine with all API routes.
func SetupRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(d.AccessLog), Metrics())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.ExposeHeaders = []string{"X-RateLimit-Remaining"}
	corsCfg.MaxAge = 12 * time.Hour
	if len(d.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = d.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/api/health", d.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(auth.Middleware(d.Verifier, d.Logger))
	if d.Limiter != nil {
		v1.Use(RateLimit(d.Limiter, d.Logger))
	}
	{
		v1.POST("/wallet/connect", d.Wallets.ConnectWallet)
		v1.GET("/wallet", d.Wallets.GetWallet)
		v1.PATCH("/wallet", d.Wallets.RenameWallet)
		v1.DELETE("/wallet", d.Wallets.DisconnectWallet)
		v1.POST("/wallet/refresh", d.Wallets.RefreshBalance)

		v1.GET("/balances/:address", d.Transactions.GetBalance)
		v1.GET("/transactions/live", d.Transactions.LiveTransactions)
		v1.POST("/transactions/sync", d.Transactions.SyncTransactions)
		v1.GET("/transactions", d.Transactions.ListTransactions)
		v1.GET("/wallets/:walletId/transactions", d.Transactions.ListWalletTransactions)

		v1.POST("/security/logins", d.Security.TrackLogin)
		v1.GET("/security/alerts", d.Security.ListAlerts)
		v1.POST("/security/alerts/:alertId/read", d.Security.MarkAlertRead)
	}

	return router
}
