package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/jparise/gh-discover/internal/config"
	"github.com/jparise/gh-discover/internal/discovery"
	"github.com/jparise/gh-discover/internal/output"
	"github.com/jparise/gh-discover/internal/timeparse"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Flags.
	color        = colorAuto
	filter       = filterValue(discovery.FilterDefault)
	language     string
	page         int
	perPage      int
	hyperlinks   bool
	minStars     int
	pushedWithin string
	excludes     []string
	jobs         int
	verbose      bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Print one page of discovered repositories",
	Long: `Print one page of repositories matching a filter:

  good-first-issue  repositories with open good first or help wanted issues
  bounty-issue      repositories with open issues that advertise a bounty
  default           popular, recently maintained repositories

Results are ordered by stars. Quality thresholds default to the DISCOVERY_*
environment variables and can be overridden with flags.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if page < 1 {
			return fmt.Errorf("--page must be at least 1, got %d", page)
		}
		if perPage < 1 || perPage > discovery.MaxPerPage {
			return fmt.Errorf("--per-page must be between 1 and %d, got %d", discovery.MaxPerPage, perPage)
		}
		if cmd.Flags().Changed("jobs") && (jobs < 1 || jobs > 100) {
			return fmt.Errorf("--jobs must be between 1 and 100, got %d", jobs)
		}
		if cmd.Flags().Changed("min-stars") && minStars < 0 {
			return fmt.Errorf("--min-stars must not be negative, got %d", minStars)
		}
		if pushedWithin != "" {
			if _, err := timeparse.ParseWindow(pushedWithin); err != nil {
				return fmt.Errorf("invalid --pushed-within %q: %w", pushedWithin, err)
			}
		}
		return nil
	},
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd.Flags())
}

func addSearchFlags(flags *pflag.FlagSet) {
	flags.Var(&filter, "filter",
		"kind of opportunity: good-first-issue, bounty-issue, default")
	flags.StringVarP(&language, "language", "l", "",
		"only show repositories whose primary language matches")
	flags.IntVar(&page, "page", 1,
		"page number")
	flags.IntVar(&perPage, "per-page", discovery.DefaultPerPage,
		"results per page (at most 50)")
	flags.Var(&color, "color",
		"colorize output: auto, always, never")
	flags.BoolVar(&hyperlinks, "hyperlinks", false,
		"link repository names in supporting terminals")
	flags.IntVar(&minStars, "min-stars", 0,
		"minimum star count (overrides DISCOVERY_MIN_STARS)")
	flags.StringVar(&pushedWithin, "pushed-within", "",
		"maximum age of the last push, e.g. 90d, 26w, 1y (overrides DISCOVERY_PUSHED_WITHIN)")
	flags.StringSliceVarP(&excludes, "exclude", "E", []string{},
		"exclude owner/name glob patterns (can be specified multiple times)")
	flags.IntVarP(&jobs, "jobs", "j", 0,
		"maximum concurrent repository lookups (overrides DISCOVERY_JOBS)")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"log pipeline progress to stderr")
}

// applySearchFlags layers explicitly set flags over the environment.
func applySearchFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("min-stars") {
		cfg.Discovery.MinStars = minStars
	}
	if pushedWithin != "" {
		window, err := timeparse.ParseWindow(pushedWithin)
		if err != nil {
			return err
		}
		cfg.Discovery.PushedWithin = window
		// An explicit window wins over an absolute date from the environment.
		cfg.Discovery.PushedSince = time.Time{}
	}
	if len(excludes) > 0 {
		cfg.Discovery.Exclude = append(cfg.Discovery.Exclude, excludes...)
	}
	if flags.Changed("jobs") {
		cfg.Discovery.Jobs = jobs
	}
	if verbose {
		cfg.Log.Level = slog.LevelDebug
	} else if cfg.Log.Level < slog.LevelWarn {
		cfg.Log.Level = slog.LevelWarn
	}
	return cfg.Validate()
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applySearchFlags(cmd.Flags(), cfg); err != nil {
		return err
	}

	var colorize bool
	switch color {
	case colorAlways:
		colorize = true
	case colorNever:
		colorize = false
	case colorAuto:
		terminal := term.FromEnv()
		colorize = terminal.IsColorEnabled()
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr())
	d, err := newDiscoverer(cfg, logger)
	if err != nil {
		return err
	}

	intent, err := discovery.NewIntent(string(filter), language, page, perPage)
	if err != nil {
		return err
	}

	result := d.Discover(ctx, intent)

	out := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize, hyperlinks)
	out.Page(result, intent.Page)

	if result.Error != "" {
		return fmt.Errorf("discovery failed")
	}
	return nil
}
