package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repolens/gh-miner/internal/extract"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the extractable fields per item category",
		Run: func(cmd *cobra.Command, args []string) {
			categories := []struct {
				label string
				cat   extract.Category
			}{
				{"Issue fields (issue_fields)", extract.CategoryIssue},
				{"Pull request fields (pr_fields)", extract.CategoryPR},
				{"Commit fields (commit_fields)", extract.CategoryCommit},
			}

			for _, c := range categories {
				fmt.Printf("%s:\n", c.label)
				for _, name := range extract.ValidFields(c.cat) {
					fmt.Printf("  - %s\n", name)
				}
				fmt.Println()
			}

			fmt.Printf("Always collected: %s (and %s for pull requests)\n",
				extract.FieldItemNumber, extract.FieldPRMerged)
		},
	}
}
