package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the credentials file read when no path is given.
const DefaultFile = "credentials.json"

// DefaultTimeout bounds a single request to the service.
const DefaultTimeout = 30 * time.Second

// Config represents the application configuration
type Config struct {
	RootURL    string `json:"root_url" yaml:"root_url"`                           // e.g., https://yoursite.atlassian.net
	Username   string `json:"username" yaml:"username"`                           // Email for cloud, username for DC
	Token      string `json:"token" yaml:"token"`                                 // API token for cloud, password for DC
	Timeout    int    `json:"timeout,omitempty" yaml:"timeout,omitempty"`         // Seconds, 0 means DefaultTimeout
	BoardID    int    `json:"board_id,omitempty" yaml:"board_id,omitempty"`       // Default board for sprint commands
	ProjectKey string `json:"project_key,omitempty" yaml:"project_key,omitempty"` // Default project for issue commands
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`       // IANA zone for sprint dates, UTC if empty
}

// LoadConfig loads configuration from file or environment variables
func LoadConfig(filename string) (Config, error) {
	if filename == "" {
		filename = DefaultFile
	}

	// Try loading from file first
	if _, err := os.Stat(filename); err == nil {
		data, err := os.ReadFile(filename)
		if err != nil {
			return Config{}, errors.Wrapf(err, "reading %s", filename)
		}
		var config Config
		if isYAML(filename) {
			err = yaml.Unmarshal(data, &config)
		} else {
			err = json.Unmarshal(data, &config)
		}
		if err != nil {
			return Config{}, errors.Wrapf(err, "parsing %s", filename)
		}
		config.RootURL = strings.TrimRight(config.RootURL, "/")
		return config, nil
	}

	// Fall back to environment variables
	config := Config{
		RootURL:    strings.TrimRight(os.Getenv("JIRA_URL"), "/"),
		Username:   os.Getenv("JIRA_USERNAME"),
		Token:      os.Getenv("JIRA_TOKEN"),
		ProjectKey: os.Getenv("JIRA_PROJECT"),
		Location:   os.Getenv("JIRA_LOCATION"),
	}

	if board := os.Getenv("JIRA_BOARD_ID"); board != "" {
		if b, err := strconv.Atoi(board); err == nil {
			config.BoardID = b
		}
	}
	if timeout := os.Getenv("JIRA_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.Timeout = t
		}
	}

	return config, nil
}

// Validate reports the first missing credential.
func (c Config) Validate() error {
	switch {
	case c.RootURL == "":
		return errors.New("root_url is not set (config file or JIRA_URL)")
	case c.Username == "":
		return errors.New("username is not set (config file or JIRA_USERNAME)")
	case c.Token == "":
		return errors.New("token is not set (config file or JIRA_TOKEN)")
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout returns the configured per-request timeout.
func (c Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Timeout) * time.Second
}

// TimeLocation resolves Location, defaulting to UTC.
func (c Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid location %q", c.Location)
	}
	return loc, nil
}

// CreateSampleConfig creates a sample configuration file
func CreateSampleConfig(filename string) error {
	config := Config{
		RootURL:    "https://yoursite.atlassian.net",
		Username:   "you@example.com",
		Token:      "your-api-token",
		Timeout:    int(DefaultTimeout / time.Second),
		BoardID:    1,
		ProjectKey: "PROJ",
	}

	var (
		data []byte
		err  error
	)
	if isYAML(filename) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0600)
}

func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
