package cmd

import (
	"fmt"
	"strconv"

	"jira-sprints/calendar"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var weeksCmd = &cobra.Command{
	Use:   "weeks <year>...",
	Short: "Print the number of ISO weeks in each year",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			year, err := strconv.Atoi(arg)
			if err != nil {
				return errors.Newf("invalid year %q", arg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\n", year, calendar.WeeksInYear(year))
		}
		return nil
	},
}
