package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repolens/gh-miner/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := config.FindConfigPath(cfgFile)
			if cfgPath == "" {
				return fmt.Errorf("config file not found")
			}

			fmt.Printf("Validating config: %s\n", cfgPath)

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Println("\nValidation errors:")
				for _, e := range errs {
					fmt.Printf("  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Println("\nConfiguration is valid!")
			fmt.Printf("  - Repository: %s (state: %s)\n", cfg.Repo, cfg.State)
			fmt.Printf("  - Range: [%d, %d]\n", cfg.RangeLow(), cfg.RangeHigh())
			fmt.Printf("  - Output directory: %s\n", cfg.OutputDir)
			fmt.Printf("  - Fields: %d issue, %d pr, %d commit\n",
				len(cfg.IssueFields), len(cfg.PRFields), len(cfg.CommitFields))
			fmt.Printf("  - Skip missing items: %v\n", cfg.SkipMissingItems())

			return nil
		},
	}
}
