package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config search paths, in order of precedence:
	// 1. Walk up from CWD to find the project .rdmp/ directory, so commands
	//    work from subdirectories.
	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			rdmpDir := filepath.Join(dir, ".rdmp")
			if info, err := os.Stat(rdmpDir); err == nil && info.IsDir() {
				v.AddConfigPath(rdmpDir)
				break
			}
		}
		v.AddConfigPath(filepath.Join(cwd, ".rdmp"))
	}

	// 2. User config directory (~/.config/rdmp/).
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "rdmp"))
	}

	// 3. Home directory (~/.rdmp/).
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".rdmp"))
	}

	// Environment variables take precedence over the config file.
	// E.g. RDMP_DB, RDMP_JSON, RDMP_JIRA_URL, RDMP_JIRA_TOKEN.
	v.SetEnvPrefix("RDMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Flag-shaped settings.
	v.SetDefault("json", false)
	v.SetDefault("no-db", false)
	v.SetDefault("db", "")
	v.SetDefault("log-file", "")

	// Jira connection.
	v.SetDefault("jira.url", "")
	v.SetDefault("jira.email", "")
	v.SetDefault("jira.token", "")
	v.SetDefault("jira.projects", "")

	// Start-date resolution. The alias set also drives status coloring.
	v.SetDefault("started-statuses", []string{
		"In Progress", "In Development", "Development", "Doing",
	})
	v.SetDefault("start-date-fields", []string{
		"startdate", "customfield_10015", "customfield_10020",
	})

	// Axis rendering.
	v.SetDefault("axis.forward-months", 6)
	v.SetDefault("axis.min-bar-width", 2.0)
	v.SetDefault("axis.include-created", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is fine, defaults apply.
	}

	return nil
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetFloat64 retrieves a float configuration value.
func GetFloat64(key string) float64 {
	if v == nil {
		return 0
	}
	return v.GetFloat64(key)
}

// GetStringSlice retrieves a string list configuration value.
func GetStringSlice(key string) []string {
	if v == nil {
		return nil
	}
	return v.GetStringSlice(key)
}

// Set sets a configuration value, overriding file and environment.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
