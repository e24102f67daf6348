package cmd

import (
	"fmt"
	"strconv"
	"time"

	"jira-sprints/jira"
	"jira-sprints/report"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage sprints",
	Long:  `Commands for listing, fetching, creating and seeding Jira sprints.`,
}

var sprintListCmd = &cobra.Command{
	Use:   "list [board-id]",
	Short: "List sprints of a board",
	Long:  `Lists the sprints of a board. Uses board_id from the configuration if not specified.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		boardID, err := boardFromArgs(args, cfg.BoardID)
		if err != nil {
			return err
		}

		page, err := client.ListSprints(cmd.Context(), boardID)
		if err != nil {
			return err
		}

		if jsonFile, _ := cmd.Flags().GetString("json"); jsonFile != "" {
			if err := report.ExportToJSON(page, jsonFile); err != nil {
				return errors.Wrapf(err, "writing %s", jsonFile)
			}
		}
		csvFile, _ := cmd.Flags().GetString("csv")
		if csvFile != "" {
			if err := report.ExportSprintsToCSV(page.Values, csvFile); err != nil {
				return errors.Wrapf(err, "writing %s", csvFile)
			}
		}
		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			report.PrintSprintsSummary(cmd.OutOrStdout(), fmt.Sprintf("Sprints of board %d", boardID), page.Values)
			return nil
		}
		return report.PrintJSON(cmd.OutOrStdout(), page)
	},
}

var sprintGetCmd = &cobra.Command{
	Use:   "get <sprint-id>...",
	Short: "Fetch sprints by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return errors.Newf("invalid sprint id %q", arg)
			}
			sprint, err := client.GetSprint(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := report.PrintJSON(cmd.OutOrStdout(), sprint); err != nil {
				return err
			}
		}
		return nil
	},
}

var sprintCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a sprint",
	Long: `Creates one sprint. Dates are YYYY-MM-DD (start of day for --start, end of
day for --end) or RFC 3339 timestamps. --goal is only sent when given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")
		boardID, _ := cmd.Flags().GetInt("board")
		if boardID == 0 {
			boardID = cfg.BoardID
		}
		if name == "" || boardID == 0 {
			return errors.New("--name and --board (or board_id in the configuration) are required")
		}

		start, err := parseDate(startFlag, false, client.Location())
		if err != nil {
			return errors.Wrap(err, "--start")
		}
		end, err := parseDate(endFlag, true, client.Location())
		if err != nil {
			return errors.Wrap(err, "--end")
		}

		req := client.NewSprintRequest(name, start, end, boardID, "")
		if cmd.Flags().Changed("goal") {
			goal, _ := cmd.Flags().GetString("goal")
			req.Goal = &goal
		}

		sprint, err := client.CreateSprint(cmd.Context(), req)
		if err != nil {
			return err
		}
		return report.PrintJSON(cmd.OutOrStdout(), sprint)
	},
}

var sprintSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create one sprint per ISO week of a year",
	Long: `Creates a sprint for every ISO week from --first-week on, running Saturday
00:00:00 to Friday 23:59:59. --weeks 0 continues to the last ISO week of the
year. Weeks whose Saturday falls into the next year are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		nameFormat, _ := cmd.Flags().GetString("name-format")
		client := jira.NewClient(cfg, jira.WithLogger(newLogger()), jira.WithSprintNameFormat(nameFormat))

		boardID, _ := cmd.Flags().GetInt("board")
		if boardID == 0 {
			boardID = cfg.BoardID
		}
		if boardID == 0 {
			return errors.New("--board (or board_id in the configuration) is required")
		}
		year, _ := cmd.Flags().GetInt("year")
		firstWeek, _ := cmd.Flags().GetInt("first-week")
		numWeeks, _ := cmd.Flags().GetInt("weeks")

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			plan, err := client.PlanSprintsForYear(boardID, year, firstWeek, numWeeks)
			if err != nil {
				return err
			}
			return report.PrintJSON(cmd.OutOrStdout(), plan)
		}

		created, err := client.CreateSprintsForYear(cmd.Context(), boardID, year, firstWeek, numWeeks)
		sprints := make([]jira.Sprint, 0, len(created))
		for _, s := range created {
			sprints = append(sprints, *s)
		}
		report.PrintSprintsSummary(cmd.OutOrStdout(), fmt.Sprintf("Sprints created for %d", year), sprints)
		return err
	},
}

func init() {
	sprintCmd.AddCommand(sprintListCmd, sprintGetCmd, sprintCreateCmd, sprintSeedCmd)

	sprintListCmd.Flags().String("csv", "", "also write the sprints to this CSV file")
	sprintListCmd.Flags().String("json", "", "also write the listing to this JSON file")
	sprintListCmd.Flags().Bool("summary", false, "print a table instead of JSON")

	sprintCreateCmd.Flags().StringP("name", "n", "", "sprint name")
	sprintCreateCmd.Flags().String("start", "", "start date")
	sprintCreateCmd.Flags().String("end", "", "end date")
	sprintCreateCmd.Flags().IntP("board", "b", 0, "origin board id")
	sprintCreateCmd.Flags().String("goal", "", "sprint goal")
	sprintCreateCmd.MarkFlagRequired("start")
	sprintCreateCmd.MarkFlagRequired("end")

	sprintSeedCmd.Flags().IntP("board", "b", 0, "origin board id")
	sprintSeedCmd.Flags().IntP("year", "y", time.Now().Year(), "calendar year")
	sprintSeedCmd.Flags().Int("first-week", 1, "first ISO week to create")
	sprintSeedCmd.Flags().Int("weeks", 0, "number of weeks, 0 for the rest of the year")
	sprintSeedCmd.Flags().String("name-format", jira.DefaultSprintNameFormat, "fmt format for names, given year and week")
	sprintSeedCmd.Flags().Bool("dry-run", false, "print the sprints without creating them")
}

func boardFromArgs(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		if fallback == 0 {
			return 0, errors.New("board id not specified and board_id is not configured")
		}
		return fallback, nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Newf("invalid board id %q", args[0])
	}
	return id, nil
}

// parseDate accepts RFC 3339 or a bare date; a bare date is the first or the
// last second of that day in loc.
func parseDate(value string, endOfDay bool, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(jira.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, errors.Newf("cannot parse %q as YYYY-MM-DD or RFC 3339", value)
	}
	if endOfDay {
		d = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, loc)
	}
	return d, nil
}
