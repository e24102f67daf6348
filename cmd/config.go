package cmd

import (
	"fmt"
	"os"

	"jira-sprints/config"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the credentials file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample credentials file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return errors.Newf("%s already exists", path)
		}
		if err := config.CreateSampleConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with the token masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Root URL: %s\n", cfg.RootURL)
		fmt.Fprintf(out, "Username: %s\n", cfg.Username)
		// Mask the token
		if len(cfg.Token) > 8 {
			fmt.Fprintf(out, "API Token: %s...%s\n", cfg.Token[:4], cfg.Token[len(cfg.Token)-4:])
		} else if cfg.Token != "" {
			fmt.Fprintln(out, "API Token: ****")
		}
		fmt.Fprintf(out, "Default Board: %d\n", cfg.BoardID)
		fmt.Fprintf(out, "Default Project: %s\n", cfg.ProjectKey)
		fmt.Fprintf(out, "Timeout: %s\n", cfg.RequestTimeout())
		if loc, err := cfg.TimeLocation(); err == nil {
			fmt.Fprintf(out, "Location: %s\n", loc)
		} else {
			fmt.Fprintf(out, "Location: %s (invalid)\n", cfg.Location)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
}
