package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "gh-miner",
	Short: "GitHub repository miner",
	Long: `gh-miner walks a numeric range of issues or pull requests in one
repository, extracts a configured set of fields per item, and writes an
incrementally updated JSON document.

Results are saved before every rate-limit pause and on completion, so an
interrupted run resumes from its own output file.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print per-item progress")

	rootCmd.AddCommand(newIssuesCmd())
	rootCmd.AddCommand(newPRsCmd())
	rootCmd.AddCommand(newFieldsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gh-miner version %s\n", version)
		},
	}
}
