package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sentrix/internal/app/port"
	"sentrix/internal/app/service"
	"sentrix/internal/client"
	"sentrix/internal/infrastructure/configloader"
	"sentrix/internal/infrastructure/httpclient"
	networkdefinition "sentrix/internal/infrastructure/network/definition"
	"sentrix/internal/infrastructure/ratelimit"
	"sentrix/internal/infrastructure/storage/postgres"
	"sentrix/internal/pkg/logger"
)

const userAgent = "sentrix/1.0"

// Services is the assembled application graph.
type Services struct {
	Networks     *networkdefinition.NetworkDefinitionProvider
	Resolver     port.BalanceResolver
	Fetcher      port.TransactionFetcher
	Wallets      port.WalletService
	WalletStore  port.WalletStore
	Transactions port.TransactionSyncService
	Security     port.SecurityService
	// Limiter is nil when rate limiting is disabled.
	Limiter port.RateLimiter

	db    *postgres.DB
	redis *redis.Client
}

// DB exposes the datastore for migrations and health checks.
func (s *Services) DB() *postgres.DB { return s.db }

// Build opens the datastore and wires every service from cfg.
func Build(ctx context.Context, cfg *configloader.Config) (*Services, error) {
	z := logger.Zap()

	db, err := postgres.New(ctx, postgres.Options{
		URL:          cfg.Database.URL,
		MaxConns:     cfg.Database.MaxConns,
		MinConns:     cfg.Database.MinConns,
		QueryTimeout: time.Duration(cfg.Database.QueryTimeoutSeconds) * time.Second,
	}, logger.Named("postgres"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	overrides := make([]networkdefinition.Override, 0, len(cfg.Networks))
	for _, n := range cfg.Networks {
		overrides = append(overrides, networkdefinition.Override{
			ChainID:          n.ChainID,
			ExplorerAPIURL:   n.ExplorerAPIURL,
			ExplorerAPIKey:   n.ExplorerAPIKey,
			BlockExplorerURL: n.BlockExplorerURL,
			FallbackPriceUSD: n.FallbackPriceUSD,
		})
	}
	networks := networkdefinition.NewNetworkDefinitionProvider(logger.Named("networks"), cfg.Explorer.APIKey, overrides)

	explorer := client.NewExplorerClient(
		httpclient.New(cfg.ExplorerTimeout(), userAgent, z.Named("explorer_http")),
		ratelimit.NewThrottle(cfg.Explorer.RequestsPerSecond, cfg.Explorer.Burst),
		z.Named("explorer"),
	)
	coingecko := client.NewCoinGeckoClient(
		httpclient.New(time.Duration(cfg.CoinGecko.RequestTimeoutMillis)*time.Millisecond, userAgent, z.Named("coingecko_http")),
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.APIKey,
		z.Named("coingecko"),
	)
	geo := client.NewIPAPIClient(
		httpclient.New(time.Duration(cfg.Geo.RequestTimeoutMillis)*time.Millisecond, userAgent, z.Named("ipapi_http")),
		cfg.Geo.BaseURL,
		z.Named("ipapi"),
	)

	prices := service.NewPriceService(coingecko, cfg.CoinGecko.VsCurrency, cfg.PriceCacheTTL(), logger.Named("prices"))
	resolver := service.NewBalanceResolver(networks, explorer, prices, logger.Named("balance_resolver"))
	fetcher := service.NewTransactionFetcher(networks, explorer, logger.Named("transaction_fetcher"))

	wallets := postgres.NewWalletRepo(db)
	s := &Services{
		Networks:     networks,
		Resolver:     resolver,
		Fetcher:      fetcher,
		WalletStore:  wallets,
		Wallets:      service.NewWalletService(wallets, postgres.NewProfileRepo(db), resolver, logger.Named("wallets")),
		Transactions: service.NewTransactionSyncService(wallets, postgres.NewTransactionRepo(db), fetcher, logger.Named("transaction_sync")),
		Security:     service.NewSecurityService(postgres.NewSecurityRepo(db), geo, logger.Named("security")),
		db:           db,
	}

	if !cfg.RateLimit.Disabled {
		s.Limiter = s.buildLimiter(ctx, cfg, z)
	}
	return s, nil
}

func (s *Services) buildLimiter(ctx context.Context, cfg *configloader.Config, z *zap.Logger) port.RateLimiter {
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := s.redis.Ping(ctx).Err(); err != nil {
			z.Warn("Redis unreachable, rate limiter will fail open until it recovers",
				zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		store = ratelimit.NewRedisStore(s.redis)
	}
	return ratelimit.NewLimiter(store, cfg.RateLimit.MaxRequests, cfg.RateLimitWindow(), logger.Named("ratelimit"))
}

// Close releases the datastore pool and the Redis client.
func (s *Services) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}
