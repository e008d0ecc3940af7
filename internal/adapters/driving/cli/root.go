// Package cli provides the lexroster command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/app"
	"github.com/custodia-labs/lexroster/internal/config"
	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationStandalone marks commands that run without services.
const annotationStandalone = "lexroster/standalone"

var (
	configPath string
	verbose    bool
)

// Services injected by SetServices or built from configuration.
var (
	ingestService   driving.IngestService
	documentService driving.DocumentService
	searchService   driving.SearchService
	judgeService    driving.JudgeService
	rosterService   driving.RosterService

	storePinger    pinger
	engineStatus   engineReporter
	metricsHandler http.Handler
	appConfig      *config.Config

	servicesReady bool
	closeServices func(context.Context) error
)

type pinger interface {
	Ping(ctx context.Context) error
}

type engineReporter interface {
	EngineStatus() (configured, healthy bool)
}

// Services is everything the commands use.
type Services struct {
	Ingest    driving.IngestService
	Documents driving.DocumentService
	Search    driving.SearchService
	Judges    driving.JudgeService
	Rosters   driving.RosterService

	Store   pinger
	Engine  engineReporter
	Metrics http.Handler
	Config  *config.Config
}

// SetServices injects services, skipping the configuration bootstrap.
func SetServices(s Services) {
	ingestService = s.Ingest
	documentService = s.Documents
	searchService = s.Search
	judgeService = s.Judges
	rosterService = s.Rosters
	storePinger = s.Store
	engineStatus = s.Engine
	metricsHandler = s.Metrics
	appConfig = s.Config
	if appConfig == nil {
		appConfig = config.Default()
	}
	servicesReady = true
}

var rootCmd = &cobra.Command{
	Use:   "lexroster",
	Short: "Delhi district court rosters, searchable",
	Long: `lexroster ingests roster PDFs published by the Delhi district courts,
files them by court complex, zone and category, and answers document and
judge searches from a primary search engine with a fallback to the local
document store.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.lexroster/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer shutdown()

	return rootCmd.ExecuteContext(ctx)
}

// bootstrap loads configuration and wires services on first use.
func bootstrap(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if servicesReady || cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.SetPretty(cfg.Log.Pretty)
	if cfg.Log.Verbose {
		logger.SetVerbose(true)
	}

	a, err := app.New(cmd.Context(), cfg, app.Options{})
	if err != nil {
		return err
	}
	SetServices(Services{
		Ingest:    a.Ingest,
		Documents: a.Documents,
		Search:    a.Search,
		Judges:    a.Judges,
		Rosters:   a.Rosters,
		Store:     a,
		Engine:    a.Search,
		Metrics:   a.MetricsHandler(),
		Config:    cfg,
	})
	closeServices = a.Close
	return nil
}

func shutdown() {
	if closeServices == nil {
		return
	}
	if err := closeServices(context.Background()); err != nil {
		logger.Warn("Closing services: %v", err)
	}
	closeServices = nil
	servicesReady = false
}

var errNotConfigured = errors.New("service not configured")

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
