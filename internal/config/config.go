// Package config provides Viper-backed settings for perfpulse. Tracker-facing
// values are read from the live Viper instance on every call, so edits to a
// watched config file take effect without restarting.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default configuration values, applied by New.
const (
	DefaultSampleWindowUS = 1000000 // 1 second
	DefaultLogDir         = "logs"
)

// Settings wraps a Viper instance and exposes typed accessors for the
// perfpulse keys.
type Settings struct {
	v *viper.Viper
}

// New creates Settings backed by the given Viper instance, registering
// defaults for all perf keys. A nil instance gets a fresh one.
func New(v *viper.Viper) *Settings {
	if v == nil {
		v = viper.New()
	}
	v.SetDefault("perf.sample_window_us", DefaultSampleWindowUS)
	v.SetDefault("perf.log_samples", false)
	v.SetDefault("perf.log_dir", DefaultLogDir)
	return &Settings{v: v}
}

// Watch starts watching the underlying config file for changes. Callers that
// loaded settings from a file call this once; trackers then observe window
// changes on their next use.
func (s *Settings) Watch() {
	s.v.WatchConfig()
}

// SampleWindow returns the configured sampling window, floored at one
// microsecond so derived statistics always have a usable span.
func (s *Settings) SampleWindow() time.Duration {
	us := s.v.GetInt("perf.sample_window_us")
	if us < 1 {
		us = 1
	}
	return time.Duration(us) * time.Microsecond
}

// LogSamples reports whether trackers should append each sample to their
// plain-text log file.
func (s *Settings) LogSamples() bool {
	return s.v.GetBool("perf.log_samples")
}

// LogDir returns the directory sample log files are written under.
func (s *Settings) LogDir() string {
	return s.v.GetString("perf.log_dir")
}

// Viper returns the underlying Viper instance for direct access
// (e.g., by the entry point for top-level keys like metrics.listen).
func (s *Settings) Viper() *viper.Viper {
	return s.v
}
