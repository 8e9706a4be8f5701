package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godilite/feedback-insights/internal/app"
	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/config"
	"github.com/godilite/feedback-insights/internal/service"
)

// cli carries the state shared by every subcommand.
type cli struct {
	cfg     *config.Config
	logger  *zap.Logger
	dbPath  string
	verbose bool
}

// NewRootCmd builds the feedbackctl command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "feedbackctl",
		Short: "Import customer feedback and report category insights",
		Long: `feedbackctl loads categorised customer feedback into the local store and
prints the dashboard: category shares, monthly timelines, issue trends and an
overview with active issues for a chosen time range.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite database path (default: $DB_PATH)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(newImportCmd(c), newReportCmd(c), newClassifyCmd(c))
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) setup() error {
	c.cfg = config.LoadFromEnv()
	if c.dbPath != "" {
		c.cfg.DBPath = c.dbPath
	}

	if !c.verbose {
		c.logger = zap.NewNop()
		return nil
	}
	logger, err := config.NewLogger(c.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger
	return nil
}

// dashboard opens the local store. The returned func closes it.
func (c *cli) dashboard(ctx context.Context, renderer charts.Renderer) (*service.DashboardService, func(), error) {
	store, err := app.OpenStore(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, nil, err
	}
	d, err := app.NewDashboard(c.cfg, store, renderer, c.logger)
	if err != nil {
		_ = store.DB.Close()
		return nil, nil, err
	}
	return d, func() { _ = store.DB.Close() }, nil
}

// openInput opens path for reading; "-" is stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}
