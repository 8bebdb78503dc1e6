package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fakeGetenv(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := loadEnvConfig(fakeGetenv(map[string]string{
		"CSV2DOCX_CONFIG":           "/etc/csv2docx.yaml",
		"CSV2DOCX_TEMPLATE":         "daily",
		"CSV2DOCX_OUTPUT_DIR":       "/out",
		"CSV2DOCX_IMAGE_TIMEOUT":    "30s",
		"CSV2DOCX_MAX_RETRIES":      "5",
		"CSV2DOCX_PREFETCH_WORKERS": "8",
	}))

	if cfg.ConfigPath != "/etc/csv2docx.yaml" || cfg.Template != "daily" || cfg.OutputDir != "/out" {
		t.Errorf("string values not loaded: %+v", cfg)
	}
	if cfg.ImageTimeout != 30*time.Second {
		t.Errorf("ImageTimeout = %v, want 30s", cfg.ImageTimeout)
	}
	if cfg.MaxRetries != 5 || cfg.PrefetchWorkers != 8 {
		t.Errorf("numeric values not loaded: %+v", cfg)
	}
}

func TestLoadEnvConfigIgnoresInvalidValues(t *testing.T) {
	t.Parallel()

	cfg := loadEnvConfig(fakeGetenv(map[string]string{
		"CSV2DOCX_IMAGE_TIMEOUT": "soon",
		"CSV2DOCX_MAX_RETRIES":   "-2",
	}))
	if cfg.ImageTimeout != 0 || cfg.MaxRetries != 0 {
		t.Errorf("invalid values not ignored: %+v", cfg)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"CSV2DOCX_TEMPLATE=daily",
		"CSV2DOCX_TEMPLAT=typo",
		"PATH=/usr/bin",
	})

	out := buf.String()
	if !strings.Contains(out, "CSV2DOCX_TEMPLAT") {
		t.Errorf("typo not flagged: %q", out)
	}
	if strings.Contains(out, "CSV2DOCX_TEMPLATE=") || strings.Contains(out, "PATH") {
		t.Errorf("known or unrelated variables flagged: %q", out)
	}
}
