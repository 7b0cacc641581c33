package cmd

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/jparise/gh-discover/internal/config"
	"github.com/jparise/gh-discover/internal/discovery"
	"github.com/jparise/gh-discover/internal/github"
	"github.com/spf13/cobra"
)

// colorMode represents when to use colored output.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// String is used both by fmt.Print and by Cobra in help text.
func (c *colorMode) String() string {
	return string(*c)
}

// Set must have pointer receiver to validate and set the value.
func (c *colorMode) Set(v string) error {
	switch v {
	case "auto", "always", "never":
		*c = colorMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"auto\", \"always\", or \"never\"")
	}
}

// Type is only used in help text.
func (c *colorMode) Type() string {
	return "colorMode"
}

// filterValue is a discovery filter given on the command line.
type filterValue discovery.Filter

func (f *filterValue) String() string {
	return string(*f)
}

func (f *filterValue) Set(v string) error {
	switch discovery.Filter(v) {
	case discovery.FilterGoodFirstIssue, discovery.FilterBountyIssue, discovery.FilterDefault:
		*f = filterValue(v)
		return nil
	default:
		return fmt.Errorf("must be one of %q, %q, or %q",
			discovery.FilterGoodFirstIssue, discovery.FilterBountyIssue, discovery.FilterDefault)
	}
}

func (f *filterValue) Type() string {
	return "filter"
}

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gh-discover",
	Short: "Discover open-source projects to contribute to",
	Long: `gh-discover finds actively maintained GitHub repositories that offer
contribution opportunities: good first issues, help wanted issues, or bounties.

When GitHub refuses a search or returns nothing, progressively looser
strategies are tried so that a result is almost always returned.

Examples:
  gh discover search --filter good-first-issue --language go
  gh discover search --filter bounty-issue --per-page 20
  gh discover serve`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(searchCmd, serveCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// apiHost returns the host whose stored gh credential applies to apiURL.
func apiHost(apiURL string) string {
	if apiURL == "" {
		return "github.com"
	}
	u, err := url.Parse(apiURL)
	if err != nil || u.Hostname() == "" || u.Hostname() == "api.github.com" {
		return "github.com"
	}
	return u.Hostname()
}

// resolveToken prefers the configured token and falls back to the gh CLI
// credential store. An empty result is allowed; requests are then
// unauthenticated.
func resolveToken(cfg *config.Config, logger *slog.Logger) string {
	if cfg.GitHub.Token != "" {
		return cfg.GitHub.Token
	}
	host := apiHost(cfg.GitHub.APIURL)
	token, source := auth.TokenForHost(host)
	if token == "" {
		logger.Warn("no GitHub token found, using unauthenticated requests", "host", host)
		return ""
	}
	logger.Debug("using gh credential", "host", host, "source", source)
	return token
}

// newDiscoverer wires the GitHub client and the discovery pipeline.
func newDiscoverer(cfg *config.Config, logger *slog.Logger) (*discovery.Discoverer, error) {
	client, err := github.NewClient(github.ClientOptions{
		AuthToken:  resolveToken(cfg, logger),
		BaseURL:    cfg.GitHub.APIURL,
		Timeout:    cfg.GitHub.Timeout,
		MaxRetries: cfg.GitHub.MaxRetries,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return discovery.New(client, discoveryOptions(cfg, logger))
}

func discoveryOptions(cfg *config.Config, logger *slog.Logger) discovery.Options {
	return discovery.Options{
		MinStars:         cfg.Discovery.MinStars,
		PushedWithin:     cfg.Discovery.PushedWithin,
		PushedSince:      cfg.Discovery.PushedSince,
		MaxResolvedRepos: cfg.Discovery.MaxResolved,
		Jobs:             cfg.Discovery.Jobs,
		Exclude:          cfg.Discovery.Exclude,
		Logger:           logger,
	}
}
