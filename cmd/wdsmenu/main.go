// cmd/wdsmenu/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sdporres/wdssupermenu/pkg/classify"
	"github.com/sdporres/wdssupermenu/pkg/config"
	"github.com/sdporres/wdssupermenu/pkg/configstore"
	"github.com/sdporres/wdssupermenu/pkg/discovery"
	"github.com/sdporres/wdssupermenu/pkg/download"
	"github.com/sdporres/wdssupermenu/pkg/installs"
	"github.com/sdporres/wdssupermenu/pkg/logging"
	"github.com/sdporres/wdssupermenu/pkg/retry"
	"github.com/sdporres/wdssupermenu/pkg/series"
)

var (
	configPath string
	verbosity  int

	cfg     *config.Configuration
	store   configstore.Store
	logger  *logging.Logger
	catalog *series.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "wdsmenu",
	Short: "Find, organise and configure installed Wargame Design Studio games",
	Long: `wdsmenu discovers the WDS games installed on this machine, groups them
by series, copies game settings between titles and checks for new releases
of the menu itself.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	global := pflag.NewFlagSet("global", pflag.ContinueOnError)
	global.StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to Config.yaml")
	// Count the number of -v flags.
	global.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (e.g. -v, -vv)")
	rootCmd.PersistentFlags().AddFlagSet(global)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.CloseLogger()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and starts logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	store, err = configstore.OpenSystem()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Registry unavailable, using an empty store: %v\n", err)
		store = configstore.NewMemoryStore()
	}

	cfg, err = config.LoadConfig(configPath, store)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbosity > 0 {
		cfg.Verbose = true
	}
	if verbosity > 1 {
		cfg.Debug = true
	}

	if err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
	}
	logger = logging.New(cfg.Verbose)
	logging.Info("wdsmenu starting", "command", cmd.CommandPath(), "config", configPath)

	catalog = series.NewCatalog(series.Options{
		URL:       cfg.SeriesURL,
		CachePath: cfg.SeriesCachePath,
		MaxAge:    cfg.SeriesMaxAge(),
		Download:  downloadOptions(),
	})
	return nil
}

func downloadOptions() download.Options {
	return download.Options{
		Timeout: cfg.FetchTimeout(),
		Retry: retry.RetryConfig{
			MaxRetries:      cfg.FetchRetries,
			InitialInterval: 500 * time.Millisecond,
			Multiplier:      2.0,
		},
	}
}

// newScanner wires the resolver, classifier and catalog for a discovery pass.
func newScanner() (*discovery.Scanner, error) {
	resolver := installs.NewResolver(store, cfg.ExcludedDisplayNames)
	records := resolver.ReadRecords()

	policy, err := classify.ParseFallbackPolicy(cfg.ClassifierFallback)
	if err != nil {
		return nil, err
	}

	return &discovery.Scanner{
		Resolver:        resolver,
		Publisher:       cfg.Publisher,
		Classifier:      classify.New(policy, records.HasExecutable),
		Catalog:         catalog,
		Records:         records,
		ScanFixedDrives: cfg.ScanFixedDrives,
		DriveFolderName: cfg.DriveFolderName,
		Workers:         cfg.Workers,
	}, nil
}
