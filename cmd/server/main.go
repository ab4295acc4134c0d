package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/auction"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/auth"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/chat"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/config"
	cronrunner "github.com/dogogdfive/flaunt-lol-sub003/internal/cron"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/db"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/handler"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/logger"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/presence"
	gormrepository "github.com/dogogdfive/flaunt-lol-sub003/internal/repository/gorm"

	_ "github.com/dogogdfive/flaunt-lol-sub003/docs"
)

func main() {
	cfgPath := os.Getenv("FLAUNT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("FLAUNT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	tracker := presence.NewTracker(cfg.Presence.InactivityWindow, logger)
	pricing := auction.PricingEngine{DecayExponent: cfg.Pricing.DecayExponent}
	lifecycle := &auction.Lifecycle{
		Repo:      store,
		Logger:    logger,
		Retention: time.Duration(cfg.Media.RetentionDays) * 24 * time.Hour,
	}
	gate := &chat.Gate{
		Repo:      store,
		Logger:    logger,
		Cooldown:  cfg.Chat.Cooldown,
		MaxLength: cfg.Chat.MaxLength,
		PageLimit: cfg.Chat.PageLimit,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	tokens := auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), TokenTTL: cfg.Auth.TokenTTL}
	engine.Use(auth.Middleware(tokens, store, logger))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	auctionHandler := &handler.AuctionHandler{
		Repo:      store,
		Lifecycle: lifecycle,
		Pricing:   pricing,
		Presence:  tracker,
		Logger:    logger,
	}
	auctionHandler.Register(engine)
	liveHandler := &handler.LiveHandler{
		Repo:              store,
		Lifecycle:         lifecycle,
		Pricing:           pricing,
		Presence:          tracker,
		Logger:            logger,
		TickInterval:      cfg.Stream.TickInterval,
		HeartbeatInterval: cfg.Stream.HeartbeatInterval,
	}
	liveHandler.Register(engine)
	chatHandler := &handler.ChatHandler{Gate: gate}
	chatHandler.Register(engine)
	chatFeedHandler := &handler.ChatFeedHandler{
		Gate:       gate,
		Logger:     logger,
		PollPeriod: cfg.Chat.WSPollPeriod,
	}
	chatFeedHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	_, err = cronRunner.Add(cfg.Presence.SweepSpec, func(ctx context.Context) {
		if n := tracker.Sweep(); n > 0 {
			logger.Info("presence sweep", zap.Int("removed", n))
		}
	})
	if err != nil {
		logger.Warn("cron register presence sweep failed", zap.Error(err))
	}

	retention := &auction.RetentionScanner{Repo: store, Logger: logger}
	_, err = cronRunner.Add(cfg.Media.ScanSpec, func(ctx context.Context) {
		if _, err := retention.ScanOnce(ctx); err != nil {
			logger.Warn("media retention scan failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Warn("cron register retention scan failed", zap.Error(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
