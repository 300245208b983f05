// Package config loads server configuration from the environment,
// optionally overlaid by a YAML config file via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every setting the server reads at startup. Nothing here
// is mutated after Load returns; ApprovalEnabled is only the approval
// gate's initial state, and set_approval_mode toggles the gate itself.
type Config struct {
	EngineBaseURL    string
	EngineAPIKey     string
	TimeoutMS        int
	SnapshotRoot     string
	ApprovalEnabled  bool
	LogDebug         bool
	LogFormat        string
}

const (
	envEngineURL    = "N8N_API_URL"
	envEngineAPIKey = "N8N_API_KEY"
	envTimeoutMS    = "N8N_MCP_TIMEOUT_MS"
	envSnapshotRoot = "N8N_MCP_SNAPSHOT_ROOT"
	envRequireApproval = "N8N_MCP_REQUIRE_APPROVAL"
	envLogDebug     = "N8N_MCP_LOG_DEBUG"
	envLogFormat    = "N8N_MCP_LOG_FORMAT"

	defaultTimeoutMS = 30_000
)

// Load reads environment variables, overlays an optional config file
// found via viper, and validates required fields.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".n8n-mcp-lite")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, "n8n-mcp-lite"))
	}
	v.AutomaticEnv()
	_ = v.ReadInConfig() // absence of a config file is not an error

	cfg := &Config{
		EngineBaseURL:   firstNonEmpty(v.GetString(envEngineURL), os.Getenv(envEngineURL)),
		EngineAPIKey:    firstNonEmpty(v.GetString(envEngineAPIKey), os.Getenv(envEngineAPIKey)),
		TimeoutMS:       getIntOrDefault(v, envTimeoutMS, defaultTimeoutMS),
		SnapshotRoot:    firstNonEmpty(v.GetString(envSnapshotRoot), os.Getenv(envSnapshotRoot)),
		ApprovalEnabled: parseBool(firstNonEmpty(v.GetString(envRequireApproval), os.Getenv(envRequireApproval))),
		LogDebug:        parseBool(firstNonEmpty(v.GetString(envLogDebug), os.Getenv(envLogDebug))),
		LogFormat:       firstNonEmpty(v.GetString(envLogFormat), os.Getenv(envLogFormat), "json"),
	}

	if cfg.EngineBaseURL == "" {
		return nil, fmt.Errorf("%s environment variable is required", envEngineURL)
	}
	if cfg.EngineAPIKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", envEngineAPIKey)
	}
	if cfg.SnapshotRoot == "" {
		root, err := DefaultSnapshotRoot()
		if err != nil {
			return nil, fmt.Errorf("computing default snapshot root: %w", err)
		}
		cfg.SnapshotRoot = root
	}

	return cfg, nil
}

// DefaultSnapshotRoot returns a writable root relative to the running
// executable's install location, never the process's launch directory
// (which is unwritable on some hosts the server runs from, e.g. an
// IDE-managed sandbox).
func DefaultSnapshotRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "n8n-mcp-lite-data"), nil
}

func getIntOrDefault(v *viper.Viper, key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	if n := v.GetInt(key); n != 0 {
		return n
	}
	return def
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
