package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"jira-sprints/config"
	"jira-sprints/jira"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "jira-sprints",
	Short: "Manage Jira boards, sprints and issues",
	Long: `jira-sprints talks to the Jira agile and issue REST APIs: it lists boards
and sprints, creates sprints and issues, and seeds one sprint per ISO week of a
year (Saturday to Friday).

Credentials are read from a JSON or YAML file with root_url, username and
token, or from JIRA_URL, JIRA_USERNAME and JIRA_TOKEN.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFile, "credentials file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and responses")

	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(sprintCmd)
	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(weeksCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger writes to stderr so stdout stays machine readable.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Str("component", "jira").Logger()
}

// loadConfig reads and validates the credentials.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "configuration from %s or environment", configFile)
	}
	return cfg, nil
}

// newClient builds the one client a command invocation uses.
func newClient() (*jira.Client, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	return jira.NewClient(cfg, jira.WithLogger(newLogger())), cfg, nil
}
