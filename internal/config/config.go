// Package config loads runtime configuration for the server.
//
// Settings come from three layers, later layers winning: built-in
// defaults, an optional YAML file (sprintpulse.yaml, or CONFIG_PATH),
// and environment variables. A .env file in the working directory is
// loaded into the environment first, so local setups need no shell
// exports.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultStoryPointField is the Jira custom field most sites use for
// story-point estimates.
const DefaultStoryPointField = "customfield_10016"

const defaultHTTPTimeoutSeconds = 30

// Config holds everything the server needs to talk to one Jira site.
type Config struct {
	// JiraURL is the site base URL, e.g. https://acme.atlassian.net.
	JiraURL string `yaml:"jira_url"`

	// JiraEmail switches authentication to basic auth (Jira Cloud)
	// when set; otherwise the token is sent as a bearer token.
	JiraEmail string `yaml:"jira_email"`

	// JiraAPIToken authenticates every request.
	JiraAPIToken string `yaml:"jira_api_token"`

	// StoryPointField is the custom field id carrying story points.
	StoryPointField string `yaml:"story_point_field"`

	// HTTPTimeoutSeconds bounds each Jira request.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
}

// Load reads configuration from .env, the YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StoryPointField:    DefaultStoryPointField,
		HTTPTimeoutSeconds: defaultHTTPTimeoutSeconds,
	}

	path := "sprintpulse.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	envOverride(&cfg.JiraURL, "JIRA_URL")
	envOverride(&cfg.JiraEmail, "JIRA_EMAIL")
	envOverride(&cfg.JiraAPIToken, "JIRA_API_TOKEN")
	envOverride(&cfg.StoryPointField, "JIRA_STORY_POINT_FIELD")
	if v := os.Getenv("JIRA_HTTP_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid JIRA_HTTP_TIMEOUT_SECONDS %q", v)
		}
		cfg.HTTPTimeoutSeconds = n
	}

	cfg.JiraURL = strings.TrimRight(cfg.JiraURL, "/")
	if cfg.StoryPointField == "" {
		cfg.StoryPointField = DefaultStoryPointField
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		cfg.HTTPTimeoutSeconds = defaultHTTPTimeoutSeconds
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) validate() error {
	var missing []string
	if c.JiraURL == "" {
		missing = append(missing, "JIRA_URL")
	}
	if c.JiraAPIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// envOverride replaces dst with the environment value when one is set.
func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
