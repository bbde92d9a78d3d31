package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/casuskim/casus/internal/api/response"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Inspect rooms",
	}

	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomHistoryCmd())

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a room's phase and players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Room

			path := "/api/v1/rooms/" + url.PathEscape(args[0])
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			newCmdOutput(cmd).Print(result)
			return nil
		},
	}
}

func newRoomHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <code>",
		Short: "List a room's finished games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.History

			path := "/api/v1/rooms/" + url.PathEscape(args[0]) + "/history"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			} else if limit < 0 {
				return fmt.Errorf("limit must be positive")
			}
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			newCmdOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of games to list")

	return cmd
}
