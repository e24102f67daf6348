package main

import (
	"os"

	"jira-sprints/config"
	"jira-sprints/jira"
	"jira-sprints/web"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

func main() {
	// Parse command line flags
	var port, configFile string
	flag.StringVar(&port, "port", "8080", "Port to run the server on")
	flag.StringVar(&configFile, "config", config.DefaultFile, "Credentials file (JSON or YAML)")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.Fatal().Err(err).Msgf("could not load %s", configFile)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("configuration error: set JIRA_URL, JIRA_USERNAME and JIRA_TOKEN or create " + configFile)
	}

	// Create and start the server
	server := web.NewServer(jira.NewClient(cfg, jira.WithLogger(logger)), logger)
	if err := server.Start(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
