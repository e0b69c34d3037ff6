package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/numicro-labs/m460/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys understood by the CLI.
const (
	KeyPackagesDir = "packages_dir"
	KeyBuildDir    = "build_dir"
	KeyLogLevel    = "log_level"
)

const (
	packagesDirName = "packages"
	defaultBuildDir = ".m460/build"
	defaultLogLevel = "info"
)

// Dir returns the path to the config directory (~/.m460/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.m460/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment. A
// missing config file is not an error; an unreadable or malformed one is, and
// the defaults and environment still apply in that case.
func Load() error {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyPackagesDir, filepath.Join(Dir(), packagesDirName))
	viper.SetDefault(KeyBuildDir, defaultBuildDir)
	viper.SetDefault(KeyLogLevel, defaultLogLevel)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// PackagesDir returns the directory that holds installed platform packages.
func PackagesDir() string { return Get(KeyPackagesDir) }

// BuildDir returns the default build directory, relative to the project
// directory unless absolute.
func BuildDir() string { return Get(KeyBuildDir) }

// LogLevel returns the configured build log level.
func LogLevel() string { return Get(KeyLogLevel) }

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
