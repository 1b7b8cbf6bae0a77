package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repolens/gh-miner/internal/config"
	"github.com/repolens/gh-miner/internal/github"
	"github.com/repolens/gh-miner/internal/pipeline"
)

func newIssuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issues",
		Short: "Extract issue fields for the configured range",
		Long:  `Walk the configured number range as issue numbers and extract the configured issue fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtraction(cmd.Context(), pipeline.KindIssues)
		},
	}
}

func newPRsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prs",
		Short: "Extract pull request and last-commit fields for the configured range",
		Long: `Walk the configured number range as pull request numbers and extract the
configured PR fields. When commit fields are configured, each merged PR's
last commit is fetched and its fields extracted too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtraction(cmd.Context(), pipeline.KindPRs)
		},
	}
}

func runExtraction(ctx context.Context, kind pipeline.Kind) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	p, err := pipeline.New(cfg, client)
	if err != nil {
		return err
	}
	p.SetVerbose(verbose)

	stats, err := p.Run(ctx, kind)
	if err != nil {
		if stats != nil && stats.Extracted > 0 {
			fmt.Printf("Partial results for %d items saved to %s\n", stats.Extracted, p.OutputPath())
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	fmt.Printf("Extracted %d of %d items (%d skipped, %d rate-limit pauses) in %dms\n",
		stats.Extracted, stats.Visited, stats.Skipped, stats.Suspended, stats.DurationMs)
	fmt.Printf("Run %s complete; results in %s\n", stats.RunID, p.OutputPath())

	return nil
}

// loadConfig finds, loads, and validates the configuration file.
func loadConfig() (*config.Config, error) {
	cfgPath := config.FindConfigPath(cfgFile)
	if cfgPath == "" {
		return nil, fmt.Errorf("config file not found")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("config error: %v\n", e)
		}
		return nil, fmt.Errorf("invalid configuration")
	}

	return cfg, nil
}

// newClient builds the rate-limited GitHub client from config.
func newClient(cfg *config.Config) (*github.Client, error) {
	limiter := github.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.MinRemaining)
	if cfg.Auth.Token != "" {
		return github.NewClientWithToken(cfg.Auth.Token, limiter)
	}
	return github.NewClient(limiter)
}
