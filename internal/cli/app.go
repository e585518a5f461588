package cli

import (
	"fmt"
	"strconv"
	"strings"

	"bridge_gateway/internal/app/port"
	"bridge_gateway/internal/app/service"
	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/infrastructure/lifi"
	evmclient "bridge_gateway/internal/infrastructure/network/client"
	networkdefinition "bridge_gateway/internal/infrastructure/network/definition"
	"bridge_gateway/internal/infrastructure/wallet"
	"bridge_gateway/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// app wires the services one command invocation needs.
type app struct {
	cfg     Config
	zap     *zap.Logger
	log     port.Logger
	proxy   *service.ProxyService
	catalog *service.CatalogService
	quotes  *service.QuoteService
	closers []func()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.NewZap(cfg.LogLevel, "console")
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.Init(zapLogger, cfg.LogLevel)
	appLogger := logger.NewSlogAdapter()

	client := lifi.NewClient(lifi.Config{
		APIBase:     cfg.APIBase,
		IntentsBase: cfg.IntentsBase,
		APIKey:      cfg.APIKey,
		Timeout:     cfg.Timeout,
	}, zapLogger)
	proxy := service.NewProxyService(client, nil, appLogger)

	a := &app{
		cfg:     cfg,
		zap:     zapLogger,
		log:     appLogger,
		proxy:   proxy,
		catalog: service.NewCatalogService(proxy, appLogger),
		quotes:  service.NewQuoteService(proxy, appLogger),
	}
	a.closers = append(a.closers, func() { _ = zapLogger.Sync() })
	return a, nil
}

// openWallet opens the signing wallet configured by wallet-key.
func (a *app) openWallet() (*wallet.EVMWallet, error) {
	if a.cfg.WalletKey == "" {
		return nil, fmt.Errorf("no signing key configured, set BRIDGE_WALLET_KEY or wallet-key in the config file")
	}
	networks := networkdefinition.NewNetworkDefinitionProvider(a.log, nil)
	chainID, err := initialChain(networks, a.cfg.InitialChain)
	if err != nil {
		return nil, err
	}
	clients := evmclient.NewEVMClientProvider(networks, a.cfg.RPCCallTimeout, a.log)
	a.closers = append(a.closers, clients.Close)

	return wallet.NewEVMWallet(a.cfg.WalletKey, chainID, clients, a.zap)
}

// initialChain accepts a chain ID or a network identifier such as "polygon".
func initialChain(networks *networkdefinition.NetworkDefinitionProvider, ref string) (int64, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id, nil
	}
	def, ok := networks.GetNetworkDefinitionByName(ref)
	if !ok {
		return 0, fmt.Errorf("unknown signing network %q", ref)
	}
	return def.ChainID, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// resolveChain accepts a chain ID, key or name. An empty ref resolves to 0.
func resolveChain(chains []entity.Chain, ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, nil
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, c := range chains {
			if c.ID == id {
				return id, nil
			}
		}
		return 0, fmt.Errorf("chain %d is not supported", id)
	}
	for _, c := range chains {
		if strings.EqualFold(c.Key, ref) || strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown chain %q (try: bridgectl chains)", ref)
}

func chainName(chains []entity.Chain, id int64) string {
	for _, c := range chains {
		if c.ID == id {
			return c.Name
		}
	}
	return strconv.FormatInt(id, 10)
}
