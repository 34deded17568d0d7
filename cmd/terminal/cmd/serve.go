package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/terminal/broker"
	"github.com/rustyeddy/terminal/config"
	"github.com/rustyeddy/terminal/feed"
	"github.com/rustyeddy/terminal/journal"
	"github.com/rustyeddy/terminal/market"
	"github.com/rustyeddy/terminal/neo"
	"github.com/rustyeddy/terminal/paper"
	"github.com/rustyeddy/terminal/risk"
	"github.com/rustyeddy/terminal/server"
	"github.com/rustyeddy/terminal/terminal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the terminal server",
	Long: `Run the terminal HTTP API, websocket push channel, and feed consumer.

Paper mode is the default; set neo.session_token (or NEO_SESSION_TOKEN)
and paper: false to route orders to the broker.

Example:
  terminal serve --config terminal.yaml`,
	RunE: runServe,
}

var serveConfigPath string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func runServe(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if serveConfigPath != "" {
		cfg, err = config.LoadFromFile(serveConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	jrnl, err := newJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jrnl.Close()

	quotes := market.NewQuoteStore()
	depth := market.NewDepthStore()
	engine := paper.NewEngine()

	var live broker.Broker
	var feedClient *feed.Client
	if cfg.Neo.SessionToken != "" {
		live = neo.NewClient(cfg.Neo.BaseURL, cfg.Neo.SessionToken)
		feedClient = feed.New(cfg.Neo.FeedURL,
			feed.WebsocketDialer{Token: cfg.Neo.SessionToken},
			quotes, depth, cfg.Paper, log.Named("feed"))
	}

	svcCfg := terminal.Config{
		PaperMode: cfg.Paper,
		Engine:    engine,
		Live:      live,
		Quotes:    quotes,
		Depth:     depth,
		Journal:   jrnl,
		Limits: risk.Limits{
			MaxOrderValue:   cfg.Risk.MaxOrderValue,
			MaxDailyLoss:    cfg.Risk.MaxDailyLoss,
			MaxPositionSize: cfg.Risk.MaxPositionSize,
		},
		Logger: log.Named("terminal"),
	}
	if feedClient != nil {
		svcCfg.Feed = feedClient
	}
	svc := terminal.New(svcCfg)

	hub := server.NewHub(cfg.Paper, log.Named("hub"))
	if feedClient != nil {
		feedClient.AddSink(svc)
		feedClient.AddSink(hub)
	}

	srv := server.New(svc, hub, log.Named("http"), cfg.Server.CORSOrigin)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, cfg.Server.Addr())
	})
	if feedClient != nil {
		g.Go(func() error {
			// A dropped feed degrades the terminal to polling; it
			// does not take the server down.
			if err := feedClient.Run(ctx); err != nil && ctx.Err() == nil {
				log.Warn("feed stopped", zap.Error(err))
			}
			return nil
		})
	}

	log.Info("terminal running",
		zap.Bool("paper_mode", cfg.Paper),
		zap.String("addr", cfg.Server.Addr()),
		zap.Bool("live_configured", live != nil),
	)
	return g.Wait()
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zapCfg.Build()
}

func newJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "csv":
		return journal.NewCSV(cfg.OrdersFile, cfg.FillsFile)
	default:
		return journal.Noop{}, nil
	}
}
