package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rotekhq/shopware6-client/pkg/criteria"
)

func searchCmd() *cobra.Command {
	var (
		term     string
		limit    int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search <entity>",
		Short: "Search entities through the admin API",
		Long: "Sends a criteria search to /api/search/<entity> and prints the\n" +
			"matching records, paging through the result set.",
		Example: `  sw6 search product --term pliers --limit 10
  sw6 search currency`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAdminClient()
			if err != nil {
				return err
			}

			crit := criteria.New()
			crit.Term = term
			if limit > 0 {
				if err := crit.SetLimit(limit); err != nil {
					return err
				}
			}

			records, err := client.PostPaginated(cmd.Context(), "search/"+args[0], crit, pageSize, nil)
			if err != nil {
				return fmt.Errorf("searching %s: %w", args[0], err)
			}

			return printJSON(records)
		},
	}
	cmd.Flags().StringVar(&term, "term", "", "full-text search term")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records (0 = all)")
	cmd.Flags().IntVar(&pageSize, "page-size", 100, "records fetched per request")

	return cmd
}
