package bootstrap

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/VirajMandavkar/luminaire-storefront/configs"
	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/backend"
	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/cache"
	apphttp "github.com/VirajMandavkar/luminaire-storefront/internal/adapter/http"
	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/http/middleware"
	"github.com/VirajMandavkar/luminaire-storefront/internal/adapter/payment"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
	"github.com/VirajMandavkar/luminaire-storefront/internal/security"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	log := logging.New("bootstrap")

	// init redis (guest carts + identity cache)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelPing()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, nil, err
	}

	// upstream REST backend
	api := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	guests := cache.NewRedisGuestCartStore(rdb, cfg.GuestCart.TTL)
	identities := cache.NewRedisIdentityCache(rdb, cfg.Identity.TTL)

	sim := payment.NewSimulator(cfg.Payment.Delay, cfg.Payment.SuccessRate)

	reg := usecase.NewRegistry(api, guests, api, api, sim,
		usecase.WithSessionTTL(cfg.Session.TTL),
		usecase.WithCheckoutWindow(cfg.Payment.Window),
	)

	// background loops: idle session eviction + failed cart sync retries
	bgCtx, stopBG := context.WithCancel(context.Background())
	reg.StartJanitor(bgCtx, cfg.Session.SweepInterval)
	usecase.NewCartReconciler(reg, cfg.Cart.ResyncInterval).Start(bgCtx)

	tokens := security.NewTokens(cfg.Security.JWTSecret)
	resolver := middleware.NewSessionResolver(tokens, identities, api)

	router := apphttp.NewRouter(apphttp.Handlers{
		Catalog:  apphttp.NewCatalogHandler(api),
		Cart:     apphttp.NewCartHandler(reg),
		Checkout: apphttp.NewCheckoutHandler(reg),
		Orders:   apphttp.NewOrderHandler(api),
		Auth:     apphttp.NewAuthHandler(api),
		Admin:    apphttp.NewAdminHandler(api),
	}, resolver)

	log.Info("storefront wired", "backend", cfg.Backend.BaseURL, "redis", cfg.Redis.Addr)

	cleanup := func() {
		stopBG()
		_ = rdb.Close()
	}

	return &App{Router: router}, cleanup, nil
}
