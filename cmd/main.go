package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pos/config"
	"pos/controllers"
	"pos/database"
	"pos/middleware"
	"pos/routes"
	"pos/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("connect mongo", zap.Error(err))
	}
	logger.Info("connected to mongodb", zap.String("db", cfg.DBName))

	tokens := middleware.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	sessions := controllers.NewCartSessions()
	go sessions.Run(ctx, cfg.CartTTL, time.Minute, logger)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())
	r.SetTrustedProxies(nil)
	r.SetHTMLTemplate(web.Templates())
	routes.RegisterRoutes(r, routes.Handlers{
		Auth:      controllers.NewAuthController(store.Users, store.Tokens, sessions, tokens, logger),
		POS:       controllers.NewPOSController(store.Products, store.Transactions, sessions, logger),
		Products:  controllers.NewProductController(store.Products, logger),
		Sales:     controllers.NewSalesController(store.Transactions, logger),
		Users:     controllers.NewUserController(store.Users, logger),
		Tokens:    tokens,
		Blacklist: store.Tokens,
		Accounts:  store.Users,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("disconnect mongo", zap.Error(err))
	}
}
