package app

import (
	"log/slog"
	"os"

	"github.com/RafaelHerrera7/buda/internal/infra"
	"github.com/RafaelHerrera7/buda/internal/infra/buda"
	"github.com/RafaelHerrera7/buda/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config    *infra.Config
	Portfolio *service.PortfolioService
	Server    *Server
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, sets up logging and wires the service
// graph. Missing config file falls back to built-in defaults.
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping Buda portfolio service...")

	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		slog.Warn("Config file not found, using defaults", slog.String("path", configPath))
		cfg = infra.DefaultConfig()
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	client := buda.NewClient(cfg.API.Buda.RestURL, cfg.Timeout())
	cache := service.NewSnapshotCache(cfg.CacheTTL(), nil)

	b.Portfolio = service.NewPortfolioService(client, cache,
		service.WithSupportedPairs(cfg.SupportedPairs()),
		service.WithShortPositions(cfg.Valuation.AllowShortPositions),
	)

	b.Server = NewServer(cfg, b.Portfolio)
	slog.Info("✅ Service graph wired", slog.String("upstream", cfg.API.Buda.RestURL))

	return nil
}
