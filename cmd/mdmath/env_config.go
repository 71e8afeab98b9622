package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdmath/internal/config"
)

// envPrefix marks environment variables read by the CLI.
const envPrefix = "MDMATH_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDMATH_CONFIG: config name or path
	Style      string        // MDMATH_STYLE: CSS style name or path
	OutputDir  string        // MDMATH_OUTPUT_DIR: default output directory
	MathJaxURL string        // MDMATH_MATHJAX_URL: MathJax loader URL
	Timeout    time.Duration // MDMATH_TIMEOUT: per-file timeout
	Workers    int           // MDMATH_WORKERS: parallel workers
}

// knownEnvVars lists valid MDMATH_* environment variables.
var knownEnvVars = map[string]bool{
	"MDMATH_CONFIG":      true,
	"MDMATH_STYLE":       true,
	"MDMATH_OUTPUT_DIR":  true,
	"MDMATH_MATHJAX_URL": true,
	"MDMATH_TIMEOUT":     true,
	"MDMATH_WORKERS":     true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable or non-positive TIMEOUT and WORKERS values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDMATH_CONFIG"),
		Style:      os.Getenv("MDMATH_STYLE"),
		OutputDir:  os.Getenv("MDMATH_OUTPUT_DIR"),
		MathJaxURL: os.Getenv("MDMATH_MATHJAX_URL"),
	}

	if timeout := os.Getenv("MDMATH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDMATH_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// unknownEnvVars returns unrecognized MDMATH_* variable names, in
// environment order.
func unknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// warnUnknownEnvVars prints a warning per unrecognized MDMATH_* variable.
// Catches typos like MDMATH_STYLES.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, name := range unknownEnvVars(environ) {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig fills config values that are still empty.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.CSS.Style == "" {
		cfg.CSS.Style = env.Style
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.MathJaxURL != "" && cfg.Math.MathJaxURL == "" {
		cfg.Math.MathJaxURL = env.MathJaxURL
	}
}
