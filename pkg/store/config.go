package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigName is the config file name without its implicit .yaml suffix.
	ConfigName = ".myassist"
	// ConfigPathEnv points at an extra directory searched for the config file.
	ConfigPathEnv = "MYASSIST_CONFIG_PATH"

	envPrefix = "MYASSIST"

	DefaultAPIURL      = "http://localhost:8000"
	DefaultWeekStart   = "sunday"
	DefaultTimeout     = 15 * time.Second
	DefaultSessionPath = "~/.myassist.d"
	DefaultLogFile     = "~/.myassist.d/myassist.log"
	DefaultLogLevel    = "info"
)

// Config is the user configuration for the assistant client.
type Config struct {
	APIURL      string `yaml:"api_url" json:"api_url"`
	UserID      string `yaml:"user_id,omitempty" json:"user_id,omitempty"`
	Token       string `yaml:"token,omitempty" json:"token,omitempty"`
	TokenFile   string `yaml:"token_file,omitempty" json:"token_file,omitempty"`
	WeekStart   string `yaml:"week_start" json:"week_start"`
	Timezone    string `yaml:"timezone,omitempty" json:"timezone,omitempty"`
	Timeout     string `yaml:"timeout" json:"timeout"`
	SessionPath string `yaml:"session_path" json:"session_path"`
	LogFile     string `yaml:"log_file" json:"log_file"`
	LogLevel    string `yaml:"log_level" json:"log_level"`

	// Source is the file the config was read from, empty when none was found.
	Source string `yaml:"-" json:"-"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		APIURL:      DefaultAPIURL,
		WeekStart:   DefaultWeekStart,
		Timeout:     DefaultTimeout.String(),
		SessionPath: DefaultSessionPath,
		LogFile:     DefaultLogFile,
		LogLevel:    DefaultLogLevel,
	}
}

// Normalize repairs missing or invalid values so a partially written config
// still behaves.
func (c *Config) Normalize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}

	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case "monday", "mon":
		c.WeekStart = "monday"
	default:
		c.WeekStart = DefaultWeekStart
	}

	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		c.Timeout = DefaultTimeout.String()
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			c.Timezone = ""
		}
	}
	if c.SessionPath == "" {
		c.SessionPath = DefaultSessionPath
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// TimeoutDuration is the per-request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Location is the viewer's time zone. An empty timezone means local time.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig reads the configuration. An explicit path wins; otherwise
// .myassist.yaml is searched for in $MYASSIST_CONFIG_PATH, the home directory
// and the working directory. MYASSIST_* environment variables override file
// values. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("week_start", def.WeekStart)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("session_path", def.SessionPath)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	for _, key := range []string{"user_id", "token", "token_file", "timezone"} {
		v.SetDefault(key, "")
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName(ConfigName) // .yaml is implicit
		v.SetConfigType("yaml")
		if override := os.Getenv(ConfigPathEnv); override != "" {
			v.AddConfigPath(override)
		}
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath("./")
	}

	source := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		source = v.ConfigFileUsed()
	}

	cfg := &Config{
		APIURL:      v.GetString("api_url"),
		UserID:      v.GetString("user_id"),
		Token:       v.GetString("token"),
		TokenFile:   v.GetString("token_file"),
		WeekStart:   v.GetString("week_start"),
		Timezone:    v.GetString("timezone"),
		Timeout:     v.GetString("timeout"),
		SessionPath: v.GetString("session_path"),
		LogFile:     v.GetString("log_file"),
		LogLevel:    v.GetString("log_level"),
		Source:      source,
	}
	cfg.Normalize()
	return cfg, nil
}

// DefaultConfigPath is where `config init` writes when no path is given.
func DefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigName+".yaml"), nil
}

// Save writes cfg as YAML through a temp file and rename, leaving the final
// file with 0600 permissions since it may hold a token.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expand config path: %w", err)
	}
	dir := filepath.Dir(expanded)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".myassist-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, expanded)
}

// Marshal renders cfg as YAML, used by `config view`.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
