package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load builds the Viper instance for the perfpulse binary: defaults, an
// optional config file, and PP_-prefixed environment overrides. A missing
// config file is fine when no explicit path was given.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("metrics.listen", "127.0.0.1:9464")
	v.SetDefault("probe.target", "1.1.1.1")
	v.SetDefault("probe.interval", "1s")
	v.SetDefault("probe.timeout", "2s")
	v.SetDefault("probe.privileged", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("perfpulse")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/perfpulse")
	}

	// Environment variable support: PP_PROBE_TARGET=8.8.8.8
	v.SetEnvPrefix("PP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
