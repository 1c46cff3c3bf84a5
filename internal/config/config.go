// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the command line tool settings from the environment
// and optional .env files.
//
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variable names.
//
const (
	EnvMaxDepth    = "BREADBOARD_MAX_DEPTH"
	EnvPWMTick     = "BREADBOARD_PWM_TICK"
	EnvDataDir     = "BREADBOARD_DATA_DIR"
	EnvMetricsAddr = "METRICS_ADDR"
	EnvTracing     = "BREADBOARD_TRACING"
	EnvTraceRatio  = "BREADBOARD_TRACE_RATIO"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

// Config holds the tool settings.
//
type Config struct {
	MaxDepth    int
	PWMTick     time.Duration
	DataDir     string
	MetricsAddr string
	Tracing     bool
	TraceRatio  float64
	LogLevel    string
	LogFormat   string
}

// Default returns the default settings.
//
func Default() Config {
	return Config{
		PWMTick:    20 * time.Millisecond,
		DataDir:    "breadboard-data",
		TraceRatio: 1,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads the given .env files, if they exist, then returns the settings
// from the environment. Variables already set in the environment take
// precedence over .env files.
//
func Load(files ...string) (Config, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return Config{}, errors.Wrap(err, "load env files")
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup returns the settings found with lookup, on top of Default.
//
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	if v, ok := lookup(EnvMaxDepth); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c, errors.Errorf("%s: invalid depth %q", EnvMaxDepth, v)
		}
		c.MaxDepth = n
	}
	if v, ok := lookup(EnvPWMTick); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return c, errors.Errorf("%s: invalid duration %q", EnvPWMTick, v)
		}
		c.PWMTick = d
	}
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}
	if v, ok := lookup(EnvTracing); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, errors.Errorf("%s: invalid boolean %q", EnvTracing, v)
		}
		c.Tracing = b
	}
	if v, ok := lookup(EnvTraceRatio); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 || r > 1 {
			return c, errors.Errorf("%s: ratio %q not in [0, 1]", EnvTraceRatio, v)
		}
		c.TraceRatio = r
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = strings.ToLower(v)
	}
	return c, nil
}
