package cmd

import (
	"time"

	"jira-sprints/jira"
	"jira-sprints/report"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Manage issues",
}

var issueCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an issue with a due date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		project, _ := cmd.Flags().GetString("project")
		if project == "" {
			project = cfg.ProjectKey
		}
		summary, _ := cmd.Flags().GetString("summary")
		dueFlag, _ := cmd.Flags().GetString("due")
		if project == "" || summary == "" {
			return errors.New("--project (or project_key in the configuration) and --summary are required")
		}

		due, err := time.Parse(jira.DateLayout, dueFlag)
		if err != nil {
			return errors.Newf("--due: cannot parse %q as YYYY-MM-DD", dueFlag)
		}

		issue, err := client.CreateIssue(cmd.Context(), project, summary, due)
		if err != nil {
			return err
		}
		return report.PrintJSON(cmd.OutOrStdout(), issue)
	},
}

func init() {
	issueCmd.AddCommand(issueCreateCmd)

	issueCreateCmd.Flags().StringP("project", "p", "", "project key")
	issueCreateCmd.Flags().StringP("summary", "s", "", "issue summary")
	issueCreateCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	issueCreateCmd.MarkFlagRequired("due")
}
