// cmd/intake/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eligibility-intake/internal/common/cache"
	"eligibility-intake/internal/common/config"
	apphttp "eligibility-intake/internal/common/http"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/common/observability"
	"eligibility-intake/internal/remote"
)

var (
	// Global flags
	configPath string
	baseURL    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Applicant intake client for the eligibility service",
	Long: `intake collects an applicant's matriculation scores, psychometric total and
institution/program choices, submits them to the eligibility service and shows
the per-program verdicts.

Use "intake compute" to evaluate a YAML profile or "intake serve" to run the
session API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "eligibility service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(subjectsCmd, institutionsCmd, programsCmd, computeCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runtime holds everything a command needs to talk to the service.
type runtime struct {
	cfg     *config.Config
	zap     *zap.Logger
	log     logger.Logger
	cache   cache.Cache
	service remote.Service
	obs     *observability.Observability
}

func newRuntime() (*runtime, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if baseURL != "" {
		cfg.Service.BaseURL = baseURL
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog)

	c, err := cache.New(cfg.Cache)
	if err != nil {
		log.Warn("cache unavailable, continuing without it", map[string]interface{}{
			"backend": cfg.Cache.Backend,
			"error":   err,
		})
		c = nil
	}

	httpClient := apphttp.NewClient(apphttp.Config{
		BaseURL:      cfg.Service.BaseURL,
		Timeout:      config.GetDuration(cfg.Service.Timeout),
		MaxRetries:   cfg.Service.MaxRetries,
		RetryBackoff: config.GetDuration(cfg.Service.RetryBackoffMS),
	}, log)

	service := remote.NewCachedClient(
		remote.NewClient(httpClient, log),
		c,
		config.Seconds(cfg.Cache.TTL),
		cfg.Cache.Prefix,
		log,
	)

	return &runtime{
		cfg:     cfg,
		zap:     zapLog,
		log:     log,
		cache:   c,
		service: service,
		obs:     observability.New(cfg.App.Name),
	}, nil
}

func (rt *runtime) Close() {
	rt.obs.Shutdown()
	if rt.cache != nil {
		_ = rt.cache.Close()
	}
	_ = rt.zap.Sync()
}
