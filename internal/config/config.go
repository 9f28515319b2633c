package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/sergeknystautas/tfsclient/internal/logging"
	"github.com/sergeknystautas/tfsclient/internal/session"
	"github.com/sergeknystautas/tfsclient/internal/vcs"
	"github.com/sergeknystautas/tfsclient/internal/version"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid config")
)

const (
	// EnvConfigPath overrides the default config location.
	EnvConfigPath = "TFSCLIENT_CONFIG"

	EnvServer   = "TFS_SERVER"
	EnvUser     = "TFS_USER"
	EnvPassword = "TFS_PASSWORD"
	EnvToolPath = "TF_PATH"

	configDirName  = ".tfsclient"
	configFileName = "config.yaml"
)

// Config represents the client configuration.
type Config struct {
	ConfigVersion    string         `yaml:"config_version,omitempty"`
	Server           string         `yaml:"server"`
	User             string         `yaml:"user,omitempty"`
	Password         string         `yaml:"password,omitempty"` // normally kept in the secrets file
	ToolPath         string         `yaml:"tf_path,omitempty"`
	Flavor           string         `yaml:"flavor,omitempty"` // "tee" (default) or "vs"
	WorkspacePrefix  string         `yaml:"workspace_prefix,omitempty"`
	AcceptEULA       bool           `yaml:"accept_eula,omitempty"`
	MinToolVersion   string         `yaml:"min_tool_version,omitempty"` // semver constraint, e.g. ">= 14.0"
	CommandTimeoutMs int            `yaml:"command_timeout_ms,omitempty"`
	Log              logging.Config `yaml:"log,omitempty"`
	MetricsTextfile  string         `yaml:"metrics_textfile,omitempty"`

	// path is where this config was loaded from or should be saved to.
	path string
}

// DefaultPath returns $TFSCLIENT_CONFIG or ~/.tfsclient/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName, configFileName), nil
}

// ResolvePath returns flagPath when set, DefaultPath otherwise.
func ResolvePath(flagPath string) (string, error) {
	if flagPath != "" {
		return expandHome(flagPath)
	}
	return DefaultPath()
}

// Path returns the file this config is bound to.
func (c *Config) Path() string {
	return c.path
}

// CreateDefault creates an empty config bound to configPath.
func CreateDefault(configPath string) *Config {
	return &Config{
		ConfigVersion:   version.Version,
		WorkspacePrefix: session.DefaultWorkspacePrefix,
		Flavor:          vcs.FlavorEverywhere,
		path:            configPath,
	}
}

// Load reads configPath, applies environment overrides and the secrets file,
// then validates the result.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := CreateDefault(configPath)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.path = configPath

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrEnv is Load, except that a missing file is not an error as long as
// the environment provides what is needed.
func LoadOrEnv(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err == nil || !errors.Is(err, ErrConfigNotFound) {
		return cfg, err
	}
	cfg = CreateDefault(configPath)
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	c.ApplyEnv()

	if c.Password == "" && c.Server != "" {
		secrets, err := LoadSecrets(SecretsPathFor(c.path))
		if err != nil {
			return err
		}
		c.Password = secrets.Password(c.Server, c.User)
	}

	var err error
	if c.ToolPath, err = expandHome(c.ToolPath); err != nil {
		return err
	}
	if c.MetricsTextfile, err = expandHome(c.MetricsTextfile); err != nil {
		return err
	}
	if c.Log.OutputPath, err = expandHome(c.Log.OutputPath); err != nil {
		return err
	}
	return c.Validate()
}

// ApplyEnv overrides connection settings from TFS_SERVER, TFS_USER,
// TFS_PASSWORD and TF_PATH. Empty variables are ignored.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		env   string
		field *string
	}{
		{EnvServer, &c.Server},
		{EnvUser, &c.User},
		{EnvPassword, &c.Password},
		{EnvToolPath, &c.ToolPath},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = v
		}
	}
}

// Validate checks the connection settings and the tuning knobs.
func (c *Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("%w: server is required (set server or %s)", ErrInvalidConfig, EnvServer)
	}
	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server must be an http(s) collection URL, got %q", ErrInvalidConfig, c.Server)
	}
	if c.User == "" && c.Password != "" {
		return fmt.Errorf("%w: password is set without a user", ErrInvalidConfig)
	}
	switch c.Flavor {
	case "", vcs.FlavorEverywhere, vcs.FlavorVisualStudio:
	default:
		return fmt.Errorf("%w: flavor must be %q or %q, got %q", ErrInvalidConfig, vcs.FlavorEverywhere, vcs.FlavorVisualStudio, c.Flavor)
	}
	if strings.ContainsAny(c.WorkspacePrefix, " /\\;:") {
		return fmt.Errorf("%w: workspace_prefix %q contains characters tf does not accept", ErrInvalidConfig, c.WorkspacePrefix)
	}
	if c.MinToolVersion != "" {
		if _, err := semver.NewConstraint(c.MinToolVersion); err != nil {
			return fmt.Errorf("%w: min_tool_version: %w", ErrInvalidConfig, err)
		}
	}
	if c.CommandTimeoutMs < 0 {
		return fmt.Errorf("%w: command_timeout_ms must be >= 0", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: log.format must be json or console, got %q", ErrInvalidConfig, c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be debug, info, warn or error, got %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// CommandTimeout returns the per-command timeout; zero means none.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutMs) * time.Millisecond
}

// SessionOptions converts the config into options for session.Open.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		ToolPath:  c.ToolPath,
		Flavor:    c.Flavor,
		ServerURL: c.Server,
		Credentials: vcs.Credentials{
			User:     c.User,
			Password: c.Password,
		},
		WorkspacePrefix: c.WorkspacePrefix,
		AcceptEULA:      c.AcceptEULA,
		MinToolVersion:  c.MinToolVersion,
		CommandTimeout:  c.CommandTimeout(),
	}
}

// Save writes the config to the path it was loaded from or created with.
// The password is never written here; see SaveSecrets.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config path not set: use Load() or CreateDefault() with a path")
	}

	c.ConfigVersion = version.Version

	out := *c
	out.Password = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeFileAtomic(c.path, data, 0644)
}

// writeFileAtomic writes to a temporary file first, then renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p == "" || p[0] != '~' {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, p[1:]), nil
}
