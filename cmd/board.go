package cmd

import (
	"jira-sprints/report"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage agile boards",
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scrum boards",
	Long:  `Lists the scrum boards visible to the configured user, as returned by the service.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		boards, err := client.ListBoards(cmd.Context())
		if err != nil {
			return err
		}
		return report.PrintJSON(cmd.OutOrStdout(), boards)
	},
}

func init() {
	boardCmd.AddCommand(boardListCmd)
}
