package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/agentx-labs/agentsync/internal/branding"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyRegistry  = "registry"
	KeyProjects  = "projects"
	KeyLockFile  = "lock_file"
	KeyBackup    = "backup"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

// Keys lists every recognized setting.
var Keys = []string{KeyRegistry, KeyProjects, KeyLockFile, KeyBackup, KeyLogLevel, KeyLogFormat}

// Settings is a resolved snapshot of the operator configuration.
type Settings struct {
	Registry  string // path to registry.yaml
	Projects  string // path to projects.yaml
	LockFile  string // lock path relative to each project root
	Backup    bool   // snapshot files before a forced overwrite
	LogLevel  string
	LogFormat string
}

// Dir returns the path to the config directory (~/.agentsync/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file path. AGENTSYNC_CONFIG overrides the
// default ~/.agentsync/config.yaml.
func FilePath() string {
	if p := os.Getenv(branding.EnvVar("config")); p != "" {
		return p
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the directory holding the config file.
func EnsureDir() error {
	dir := filepath.Dir(FilePath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(KeyRegistry, "registry.yaml")
	viper.SetDefault(KeyProjects, "projects.yaml")
	viper.SetDefault(KeyLockFile, filepath.Join(branding.HomeDir(), "lock.json"))
	viper.SetDefault(KeyBackup, true)
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyLogFormat, "text")
}

// Load initializes Viper to read from the config file and environment.
// A missing config file is not an error; a malformed one is.
func Load() error {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Reset clears all loaded values. Used between tests.
func Reset() {
	viper.Reset()
}

// Current returns the resolved settings.
func Current() Settings {
	return Settings{
		Registry:  viper.GetString(KeyRegistry),
		Projects:  viper.GetString(KeyProjects),
		LockFile:  viper.GetString(KeyLockFile),
		Backup:    viper.GetBool(KeyBackup),
		LogLevel:  viper.GetString(KeyLogLevel),
		LogFormat: viper.GetString(KeyLogFormat),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set validates and writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (known: %v)", key, Keys)
	}
	if key == KeyBackup {
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// BindFlag makes a command-line flag override the setting key when the
// flag is given.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: no such flag", key)
	}
	if err := viper.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding %s: %w", key, err)
	}
	return nil
}
