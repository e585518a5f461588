package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/app/service"
	"bridge_gateway/internal/infrastructure/configloader"
	"bridge_gateway/internal/infrastructure/lifi"
	evmclient "bridge_gateway/internal/infrastructure/network/client"
	networkdefinition "bridge_gateway/internal/infrastructure/network/definition"
	"bridge_gateway/internal/infrastructure/restapi"
	"bridge_gateway/internal/infrastructure/wallet"
	"bridge_gateway/internal/pkg/logger"
	"bridge_gateway/internal/pkg/metrics"

	"go.uber.org/zap"
)

func main() {
	configloader.LoadDotEnv()

	cfgPath := configloader.PathFromEnv()
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration from %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	logger.Init(zapLogger, cfg.Logging.Level)
	appLogger := logger.NewSlogAdapter()
	logger.Info("Bridge gateway starting", "config", cfgPath, "apiBase", cfg.LiFi.APIBase)

	metrics.MustRegisterMetrics()

	lifiClient := lifi.NewClient(lifi.Config{
		APIBase:     cfg.LiFi.APIBase,
		IntentsBase: cfg.LiFi.IntentsBase,
		APIKey:      cfg.LiFi.APIKey,
		Timeout:     cfg.RequestTimeout(),
		RateLimit:   cfg.RateLimit.RequestsPerSecond,
		RateBurst:   cfg.RateLimit.Burst,
	}, zapLogger)

	proxyService := service.NewProxyService(lifiClient, cfg.Windows(), appLogger)
	catalogService := service.NewCatalogService(proxyService, appLogger)
	quoteService := service.NewQuoteService(proxyService, appLogger)

	if cfg.Wallet.PrivateKey != "" {
		closeWallet := announceWallet(cfg, appLogger, zapLogger)
		defer closeWallet()
	}

	router := restapi.SetupRouter(
		restapi.NewProxyHandler(proxyService, appLogger),
		restapi.NewBridgeHandler(catalogService, quoteService, appLogger),
		restapi.RouterOptions{
			AllowOrigins: cfg.Server.CORSAllowOrigins,
			EnablePprof:  cfg.Debug.Pprof,
			Logger:       zapLogger,
		},
	)

	srv := &http.Server{
		Addr:         ":" + strings.TrimPrefix(cfg.Server.Port, ":"),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr, "pprof", cfg.Debug.Pprof)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", "error", err)
	}
	logger.Info("Bridge gateway stopped")
}

// announceWallet checks that the configured signing key parses and that the
// initial chain's RPC answers, then logs the account.
// The gateway itself never signs; the returned func releases the RPC clients.
func announceWallet(cfg *configloader.Config, appLogger port.Logger, zapLogger *zap.Logger) func() {
	networks := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Wallet.RPCOverrides)
	clients := evmclient.NewEVMClientProvider(networks, time.Duration(cfg.Wallet.RPCCallTimeoutSeconds)*time.Second, appLogger)

	w, err := wallet.NewEVMWallet(cfg.Wallet.PrivateKey, cfg.Wallet.InitialChainID, clients, zapLogger)
	if err != nil {
		logger.Warn("Configured wallet key is unusable", "error", err)
		return clients.Close
	}
	if _, err := clients.GetClient(cfg.Wallet.InitialChainID); err != nil {
		logger.Warn("Signing chain RPC is unreachable", "chainId", cfg.Wallet.InitialChainID, "error", err)
	}
	account, _ := w.Account(context.Background())
	logger.Info("Signing wallet configured",
		"account", account,
		"chainId", cfg.Wallet.InitialChainID,
		"networks", len(networks.GetAllNetworkDefinitions()))
	return clients.Close
}
