package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/bft-labs/gelfhub/internal/adapters/http"
	logadapter "github.com/bft-labs/gelfhub/internal/adapters/log"
	"github.com/bft-labs/gelfhub/internal/app"
	"github.com/bft-labs/gelfhub/internal/cliconfig"
	"github.com/bft-labs/gelfhub/internal/health"
	"github.com/bft-labs/gelfhub/internal/metrics"
)

const helpDescription = `
Bridge GELF TCP log streams to a single HTTP endpoint.

gelfhub listens for null-delimited GELF records over TCP and relays each one
as an HTTP POST to the configured destination, with bounded retries and
exponential backoff. Oversize frames close the offending connection; nothing
a client sends can take the listener down.

Counters and a liveness signal are served on the admin address
(/healthz and /metrics).
`

var exampleUsage = strings.TrimSpace(`
  gelfhub --destination-url https://logs.example.com/ingest
  gelfhub --listen-port 12201 --idle-timeout 90s --compress
  gelfhub --config /etc/gelfhub/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "gelfhub",
		Short:   "Forward GELF TCP log streams to an HTTP endpoint",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default ~/.gelfhub/config.toml), then
			// apply env and flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment variables (GELFHUB_*) override file config but are
			// overridden by flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			cliconfig.SetLevel(cfg.LogLevel)
			log.Info().
				Str("listen", cfg.ListenAddr()).
				Str("destination", cfg.DestinationURL).
				Str("admin", cfg.AdminAddr).
				Dur("idle_timeout", cfg.IdleTimeout).
				Int("max_message_bytes", cfg.MaxMessageBytes).
				Int("retry_max_attempts", cfg.RetryMaxAttempts).
				Bool("compress", cfg.Compress).
				Msg("configuration")

			logger := logadapter.NewZerologAdapterWithLogger(log)
			registry := metrics.NewRegistry()

			httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
			sender := httpadapter.NewSender(httpClient, logger, registry, cfg.DestinationURL, cfg.RetryPolicy())
			if cfg.Compress {
				sender = sender.WithCompression()
			}

			listener := app.NewListener(app.ListenerConfig{
				Addr:            cfg.ListenAddr(),
				IdleTimeout:     cfg.IdleTimeout,
				MaxMessageBytes: cfg.MaxMessageBytes,
			}, sender, registry, logger)

			admin := health.NewServer(cfg.AdminAddr, registry, listener.Listening, logger)
			reporter := app.NewReporter(registry, logger, cfg.MetricsInterval)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return listener.Serve(ctx) })
			g.Go(func() error { return admin.Run(ctx) })
			g.Go(func() error { reporter.Run(ctx); return nil })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				watcher := cliconfig.NewConfigWatcher(cfgFile, cfg, func(next cliconfig.Config) {
					// Only the log level is runtime-safe; everything else
					// needs a restart.
					log.Info().Str("log_level", next.LogLevel).Msg("applying reloaded log level")
					cliconfig.SetLevel(next.LogLevel)
					if next.ListenAddr() != cfg.ListenAddr() || next.DestinationURL != cfg.DestinationURL {
						log.Warn().Msg("listen or destination changes take effect on restart")
					}
				})
				g.Go(func() error { watcher.Run(ctx); return nil })
			}

			return g.Wait()
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.gelfhub/config.toml)")
	root.Flags().StringVar(&cfg.ListenHost, "listen-host", cfg.ListenHost, "TCP host to bind for GELF ingestion")
	root.Flags().IntVar(&cfg.ListenPort, "listen-port", cfg.ListenPort, "TCP port to bind for GELF ingestion")
	root.Flags().StringVar(&cfg.DestinationURL, "destination-url", cfg.DestinationURL, "HTTP endpoint messages are forwarded to (required)")
	root.Flags().StringVar(&cfg.AdminAddr, "admin-addr", cfg.AdminAddr, "address for /healthz and /metrics (empty disables)")

	root.Flags().DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "close a connection with no complete frame for this long")
	root.Flags().IntVar(&cfg.MaxMessageBytes, "max-message-bytes", cfg.MaxMessageBytes, "maximum size of a single GELF frame")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "per-attempt HTTP timeout")

	root.Flags().IntVar(&cfg.RetryMaxAttempts, "retry-max-attempts", cfg.RetryMaxAttempts, "delivery attempts per message, including the first")
	root.Flags().DurationVar(&cfg.RetryBase, "retry-base", cfg.RetryBase, "delay before the first retry")
	root.Flags().Float64Var(&cfg.RetryMultiplier, "retry-multiplier", cfg.RetryMultiplier, "backoff multiplier between retries")
	root.Flags().DurationVar(&cfg.RetryMaxDelay, "retry-max-delay", cfg.RetryMaxDelay, "cap on the per-retry delay")

	root.Flags().BoolVar(&cfg.Compress, "compress", cfg.Compress, "gzip outbound request bodies")
	root.Flags().DurationVar(&cfg.MetricsInterval, "metrics-interval", cfg.MetricsInterval, "interval for throughput summary logs (0 disables)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("gelfhub")
		os.Exit(1)
	}
}
