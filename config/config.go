package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Publisher modes.
const (
	ModeGit    = "git"    // commit and tag in the local clone
	ModeGitHub = "github" // tag through the GitHub API
	ModeGitLab = "gitlab" // tag through the GitLab API
	ModePR     = "pr"     // open a release pull request, tag after merge
)

// Config is the top-level configuration for autorelease.
type Config struct {
	Root      string          `yaml:"root"` // repository root holding the modules
	Publisher PublisherConfig `yaml:"publisher"`
}

// PublisherConfig describes where and how releases are recorded.
type PublisherConfig struct {
	Mode       string `yaml:"mode"`        // "git", "github", "gitlab", "pr"
	Token      string `yaml:"token"`       // Inline, ${ENV_VAR}, or file path
	Remote     string `yaml:"remote"`      // git mode: remote for pushes
	Owner      string `yaml:"owner"`       // github/gitlab/pr modes
	Repository string `yaml:"repository"`  // github/gitlab/pr modes
	BaseBranch string `yaml:"base_branch"` // api modes: branch release commits land on
	Push       bool   `yaml:"push"`        // git mode: push the release commit and tags
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Default returns the configuration used when no config file exists: a local
// git publisher rooted at the working directory.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a configuration file, expanding environment variables
// and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	applyDefaults(&cfg)

	// Resolve the token (env vars and file paths)
	cfg.Publisher.Token = ResolveToken(cfg.Publisher.Token)

	if validateErr := Validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".autorelease.yaml",
		".autorelease.yml",
		"autorelease.yaml",
		"autorelease.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// applyDefaults fills the values a minimal config may omit.
func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Publisher.Mode == "" {
		cfg.Publisher.Mode = ModeGit
	}
	if cfg.Publisher.Remote == "" {
		cfg.Publisher.Remote = "origin"
	}
	if cfg.Publisher.BaseBranch == "" {
		cfg.Publisher.BaseBranch = "main"
	}
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// Validate checks for required configuration values.
func Validate(cfg *Config) error {
	switch cfg.Publisher.Mode {
	case ModeGit:
		// nothing beyond the defaults
	case ModeGitHub, ModeGitLab, ModePR:
		if cfg.Publisher.Token == "" {
			return fmt.Errorf(
				"publisher.token is required for the %s publisher "+
					"(set inline, via ${ENV_VAR}, or as file path)",
				cfg.Publisher.Mode,
			)
		}
		if cfg.Publisher.Owner == "" || cfg.Publisher.Repository == "" {
			return fmt.Errorf(
				"publisher.owner and publisher.repository are required for the %s publisher",
				cfg.Publisher.Mode,
			)
		}
	default:
		return fmt.Errorf(
			"publisher.mode %q is not supported (use %s, %s, %s, or %s)",
			cfg.Publisher.Mode, ModeGit, ModeGitHub, ModeGitLab, ModePR,
		)
	}

	return nil
}
