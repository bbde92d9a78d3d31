package cli

import (
	"github.com/spf13/cobra"

	"github.com/casuskim/casus/internal/api/response"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List word categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Categories

			if err := client.Get(cmd.Context(), "/api/v1/categories", &result); err != nil {
				return err
			}

			newCmdOutput(cmd).Print(result)
			return nil
		},
	}
}
