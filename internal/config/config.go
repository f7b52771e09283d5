package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration. Keys are namespaced by
// the NZBGet variable prefix, so "nzbpo.from" is read from NZBPO_FROM.
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance backed by the process environment
// and an optional YAML file. An explicit configFile must exist; the search
// paths are optional.
func New(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("nzbget-notify")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/nzbget-notify/")
		v.AddConfigPath("$HOME/.nzbget-notify")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables; NZBGet passes empty options as empty strings
	// and those still count as present.
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables that are already set are left untouched.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets defaults for optional toggles only. Required options must
// not get a default or IsSet would report them as present.
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySendMail, string(SendAlways))
	v.SetDefault(KeyStatistics, "no")
	v.SetDefault(KeyFileList, "no")
	v.SetDefault(KeyBrokenLog, "no")
	v.SetDefault(KeyNzbLog, string(LogNever))
	v.SetDefault(KeyTransport, TransportSMTP)
	v.SetDefault(KeySESRegion, "")

	// Logging defaults
	v.SetDefault(KeyLogLevel, "detail")
	v.SetDefault(KeyLogFormat, "nzbget")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// IsSet reports whether the key is present, even with an empty value
func (c *Config) IsSet(key string) bool {
	return c.v.IsSet(key)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
