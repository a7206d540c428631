package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pfrederiksen/cineco-calendar/internal/config"
	"github.com/pfrederiksen/cineco-calendar/internal/logger"
	"github.com/pfrederiksen/cineco-calendar/internal/scraper"
	"github.com/pfrederiksen/cineco-calendar/internal/server"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagAddr     string
	flagFormat   string
	flagInput    string
	flagOutput   string
	flagTimezone string
	flagVenue    string
	flagViewer   string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cineco",
		Short: "Publish Cinegestion volunteer shows as a calendar feed",
		Long: `cineco logs into the Cinegestion back-office, keeps the volunteer shows
of one venue and publishes them as an iCalendar feed. Shows a viewer is
assigned to are marked as confirmed.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "Timezone of the listing dates (overrides CINECO_TIMEZONE)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd(), newGenerateCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve calendar feeds at /{venue}/{viewer}",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the calendar of one venue",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	cmd.Flags().StringVar(&flagVenue, "venue", "", "Venue name as written in the listing (required)")
	cmd.Flags().StringVar(&flagViewer, "viewer", "", "First name whose shows are confirmed")
	cmd.Flags().StringVar(&flagInput, "input", "", "Saved listing page to read instead of logging into Cinegestion")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&flagFormat, "format", "ics", "Output format: ics or json")

	if err := cmd.MarkFlagRequired("venue"); err != nil {
		panic(err)
	}
	return cmd
}

// runServe starts the HTTP feed and blocks until SIGINT or SIGTERM
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	setupLogger(cfg.LogLevel)

	loc, err := location(cfg)
	if err != nil {
		return err
	}
	addr := cfg.HTTPAddr
	if flagAddr != "" {
		addr = flagAddr
	}

	client := scraper.New(cfg.BaseURL, cfg.Login, cfg.Password, cfg.Timeout)
	srv := server.New(scraper.NewCache(client, cfg.CacheTTL), scraper.NewExtractor(loc))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting cineco", logger.Fields{
		"addr":      addr,
		"timezone":  loc.String(),
		"cache_ttl": cfg.CacheTTL.String(),
	})
	return srv.ListenAndServe(ctx, addr)
}

// runGenerate renders one calendar from Cinegestion or from --input
func runGenerate(cmd *cobra.Command, args []string) error {
	format := OutputFormat(flagFormat)
	if format != FormatICS && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'ics' or 'json')", flagFormat)
	}

	load := config.Load
	if flagInput != "" {
		load = config.LoadOffline
	}
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	setupLogger(cfg.LogLevel)

	loc, err := location(cfg)
	if err != nil {
		return err
	}

	var fetcher scraper.Fetcher = fileFetcher{path: flagInput}
	if flagInput == "" {
		fetcher = scraper.New(cfg.BaseURL, cfg.Login, cfg.Password, cfg.Timeout)
	}
	srv := server.New(fetcher, scraper.NewExtractor(loc))

	out := cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.OpenFile(flagOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if format == FormatJSON {
		shows, err := srv.Shows(ctx, flagVenue)
		if err != nil {
			return err
		}
		return WriteShows(out, &OutputResult{
			GeneratedAt: time.Now().UTC(),
			Venue:       flagVenue,
			Viewer:      flagViewer,
			ShowCount:   len(shows),
			Shows:       shows,
		})
	}

	cal, err := srv.Generate(ctx, flagVenue, flagViewer)
	if err != nil {
		return err
	}
	return WriteCalendar(out, cal)
}

// location applies the --timezone override to the configured zone
func location(cfg config.Config) (*time.Location, error) {
	if flagTimezone == "" {
		return cfg.Location, nil
	}
	return config.LoadLocation(flagTimezone)
}

// setupLogger logs to stderr so that generated documents can go to stdout
func setupLogger(level logger.Level) {
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))
}

// fileFetcher serves a listing page saved on disk
type fileFetcher struct {
	path string
}

func (f fileFetcher) Fetch(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading listing file: %w", err)
	}
	return string(data), nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
