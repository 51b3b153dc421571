package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dleads/stakeados.app-sub003/internal/adminapi"
	"github.com/dleads/stakeados.app-sub003/internal/config"
	"github.com/dleads/stakeados.app-sub003/internal/logging"
	"github.com/dleads/stakeados.app-sub003/internal/output"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagVerbose bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Operator console for the news CMS",
	Long: `newsdesk talks to the CMS admin API to review duplicate articles, plan
recurring publications, check RSS sources and start processing jobs.

Run without a subcommand to open the duplicate review screen.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(duplicatesCmd)
	rootCmd.AddCommand(refdataCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(jobsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "newsdesk %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// env is what every command needs once the config is loaded.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	out    *output.Printer
	client *adminapi.Client
}

// loadEnv reads .env and the config file, then builds the logger, printer
// and admin API client. logTo receives log lines; nil means stderr.
func loadEnv(logTo *os.File) (*env, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	if logTo == nil {
		logTo = os.Stderr
	}
	logger := logging.New(level, cfg.Log.Format, logTo)

	client, err := adminapi.New(adminapi.Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.APITimeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("admin api: %w", err)
	}

	return &env{
		cfg:    cfg,
		log:    logger,
		out:    output.NewPrinter(!flagNoColor && output.ResolveColors()),
		client: client,
	}, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
