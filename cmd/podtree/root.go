package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Taishi66/podtree/internal/cache"
	"github.com/Taishi66/podtree/internal/config"
	"github.com/Taishi66/podtree/internal/domain"
	"github.com/Taishi66/podtree/internal/k8s"
	"github.com/Taishi66/podtree/internal/logging"
	"github.com/Taishi66/podtree/internal/metrics"
	"github.com/Taishi66/podtree/internal/tui"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	configPath  string
	namespace   string
	metricsAddr string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "podtree",
		Short: "Live tree of pods and their containers",
		Long: `podtree shows the pods of a namespace as a tree, with each container's
state, restart count and age. It lists the pods once, then follows changes
through a watch and refreshes periodically.

Press enter or y on a pod to see its full record, r to refresh (or reconnect
after the session was lost), q to quit.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.SetVersionTemplate("podtree {{.Version}}\n")

	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "",
		"Namespace to show (default: namespace of the current kubeconfig context)")
	cmd.Flags().StringVar(&opts.configPath, "config", "",
		"Path to the config file (default: ~/.config/podtree/config.yaml)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn, error")

	return cmd
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts options) (*config.AppConfig, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("namespace") {
		cfg.Namespace = opts.namespace
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logFile, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := logging.New(cfg.Log.Format, cfg.Log.Level, logFile)
	mt := metrics.New()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(logger, cfg.Metrics.Addr, mt.Registry())
		if err := srv.Start(gCtx); err != nil {
			return err
		}
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		})
	}

	model := newModel(cfg, logger, mt)

	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gCtx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newModel connects to the cluster. A connection failure starts the TUI on
// its error screen, from which the user can retry.
func newModel(cfg *config.AppConfig, logger *slog.Logger, mt *metrics.Metrics) tui.Model {
	factory := func() (domain.PodSource, error) {
		client, err := k8s.NewClient(cfg.Namespace)
		if err != nil {
			return nil, err
		}
		return cache.NewCachedSource(client, cfg.Cache), nil
	}

	opts := []tui.Option{tui.WithLogger(logger), tui.WithMetrics(mt)}

	source, err := factory()
	if err != nil {
		logger.Error("cannot connect to cluster", "error", err)
		return tui.NewModelWithError(err, factory, cfg, opts...)
	}

	logger.Info("connected",
		"context", source.GetContext(),
		"server", source.GetServerURL(),
		"namespace", source.GetNamespace(),
	)
	return tui.NewModel(source, factory, cfg, opts...)
}
