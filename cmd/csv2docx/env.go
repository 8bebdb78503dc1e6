package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
	}
}

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly defaults without repeating flags.
type envConfig struct {
	ConfigPath      string        // CSV2DOCX_CONFIG: config file path
	Template        string        // CSV2DOCX_TEMPLATE: default template ID
	OutputDir       string        // CSV2DOCX_OUTPUT_DIR: default output directory
	ImageTimeout    time.Duration // CSV2DOCX_IMAGE_TIMEOUT: per-attempt download timeout
	MaxRetries      int           // CSV2DOCX_MAX_RETRIES: download attempts per URL
	PrefetchWorkers int           // CSV2DOCX_PREFETCH_WORKERS: concurrent prefetch downloads
}

// knownEnvVars lists valid CSV2DOCX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CSV2DOCX_CONFIG":           true,
	"CSV2DOCX_TEMPLATE":         true,
	"CSV2DOCX_OUTPUT_DIR":       true,
	"CSV2DOCX_IMAGE_TIMEOUT":    true,
	"CSV2DOCX_MAX_RETRIES":      true,
	"CSV2DOCX_PREFETCH_WORKERS": true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("CSV2DOCX_CONFIG"),
		Template:   getenv("CSV2DOCX_TEMPLATE"),
		OutputDir:  getenv("CSV2DOCX_OUTPUT_DIR"),
	}

	if v := getenv("CSV2DOCX_IMAGE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ImageTimeout = d
		}
	}
	if v := getenv("CSV2DOCX_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxRetries = n
		}
	}
	if v := getenv("CSV2DOCX_PREFETCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.PrefetchWorkers = n
		}
	}
	return cfg
}

// warnUnknownEnvVars prints a warning for CSV2DOCX_* variables that are not
// recognized, catching typos like CSV2DOCX_TEMPLAT.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, "CSV2DOCX_") {
			continue
		}
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s\n", name)
		}
	}
}
