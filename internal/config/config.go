// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/livechat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Provider names accepted in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Config represents the complete livechat configuration.
type Config struct {
	// Provider selects the completion backend: "gemini" or "ollama"
	Provider string `toml:"provider"`

	Gemini     GeminiConfig     `toml:"gemini"`
	Ollama     OllamaConfig     `toml:"ollama"`
	Generation GenerationConfig `toml:"generation"`
	Session    SessionConfig    `toml:"session"`
	Request    RequestConfig    `toml:"request"`
	UI         UIConfig         `toml:"ui"`
	Log        LogConfig        `toml:"log"`
}

// GeminiConfig contains Google Gemini configuration.
type GeminiConfig struct {
	// APIKey is never written by Default; it comes from the file or env.
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
	// BaseURL overrides the API endpoint (empty = SDK default)
	BaseURL string `toml:"base_url"`
}

// OllamaConfig contains local Ollama configuration.
type OllamaConfig struct {
	URL   string `toml:"url"`
	Model string `toml:"model"`
}

// GenerationConfig holds the generation parameters sent with every request.
// Values are forwarded to the provider as-is.
type GenerationConfig struct {
	CandidateCount  int      `toml:"candidate_count"`
	StopSequences   []string `toml:"stop_sequences"`
	MaxOutputTokens int      `toml:"max_output_tokens"`
	Temperature     float64  `toml:"temperature"`
	TopP            float64  `toml:"top_p"`
	TopK            int      `toml:"top_k"`
}

// SessionConfig controls the chat store.
type SessionConfig struct {
	// ArchivePolicy is "copy" (default) or "move"
	ArchivePolicy string `toml:"archive_policy"`
}

// RequestConfig bounds outbound completion calls.
type RequestConfig struct {
	TimeoutSecs int `toml:"timeout_secs"`
}

// Timeout returns the per-request timeout as a duration.
func (r RequestConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// Theme is "dark", "light", or "auto"
	Theme       string `toml:"theme"`
	Title       string `toml:"title"`
	Subtitle    string `toml:"subtitle"`
	SidebarOpen bool   `toml:"sidebar_open"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level"`
	// File is the log destination for the TUI (empty = ~/.livechat/livechat.log)
	File string `toml:"file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a new Config with sensible default values.
func Default() *Config {
	return &Config{
		Provider: ProviderGemini,
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash",
		},
		Ollama: OllamaConfig{
			URL:   "http://127.0.0.1:11434",
			Model: "llama3.2",
		},
		Generation: GenerationConfig{
			CandidateCount:  1,
			StopSequences:   []string{"red"},
			MaxOutputTokens: 200,
			Temperature:     1.0,
			TopP:            0.1,
			TopK:            16,
		},
		Session: SessionConfig{
			ArchivePolicy: "copy",
		},
		Request: RequestConfig{
			TimeoutSecs: 60,
		},
		UI: UIConfig{
			Theme:       "auto",
			Title:       "Watsonx Assistant",
			Subtitle:    "Ask me anything",
			SidebarOpen: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// fillDefaults fills in any empty values left by a partial config file.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Provider == "" {
		cfg.Provider = defaults.Provider
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = defaults.Gemini.Model
	}
	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = defaults.Ollama.URL
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = defaults.Ollama.Model
	}
	if cfg.Session.ArchivePolicy == "" {
		cfg.Session.ArchivePolicy = defaults.Session.ArchivePolicy
	}
	if cfg.Request.TimeoutSecs == 0 {
		cfg.Request.TimeoutSecs = defaults.Request.TimeoutSecs
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.Title == "" {
		cfg.UI.Title = defaults.UI.Title
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// PATH FUNCTIONS
// =============================================================================

// ConfigDir returns the livechat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".livechat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the configured log file, or the default under ConfigDir.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "livechat.log"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 since they may hold an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path, or from ConfigPath when path is empty.
// A missing file at the default location is not an error; defaults are used.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromPath(path)
	}

	defaultPath, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(defaultPath); statErr == nil {
			return LoadFromPath(defaultPath)
		}
	}

	cfg := Default()
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
// The file must exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg.
// Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# livechat configuration file")
	fmt.Fprintln(&buf, "# Generated by livechat - edit with care")
	fmt.Fprintln(&buf, "#")
	fmt.Fprintln(&buf, "# Set gemini.api_key here or export LIVECHAT_API_KEY.")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
// Generation parameters are not checked; the provider rejects bad values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	validProviders := map[string]bool{ProviderGemini: true, ProviderOllama: true}
	if !validProviders[strings.ToLower(c.Provider)] {
		errs = append(errs, ValidationError{
			Field:   "provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: gemini, ollama", c.Provider),
		})
	}

	if c.Gemini.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Gemini.BaseURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "gemini.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}

	if _, err := url.ParseRequestURI(c.Ollama.URL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "ollama.url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	}

	validPolicies := map[string]bool{"copy": true, "move": true}
	if !validPolicies[strings.ToLower(c.Session.ArchivePolicy)] {
		errs = append(errs, ValidationError{
			Field:   "session.archive_policy",
			Message: fmt.Sprintf("invalid policy '%s', must be one of: copy, move", c.Session.ArchivePolicy),
		})
	}

	if c.Request.TimeoutSecs < 1 || c.Request.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "request.timeout_secs",
			Message: fmt.Sprintf("timeout_secs must be 1-600, got %d", c.Request.TimeoutSecs),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// apiKeyEnvVars are checked in order; the first non-empty value wins.
var apiKeyEnvVars = []string{"LIVECHAT_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	for _, name := range apiKeyEnvVars {
		if key := os.Getenv(name); key != "" {
			c.Gemini.APIKey = key
			break
		}
	}

	// LIVECHAT_PROVIDER
	if provider := os.Getenv("LIVECHAT_PROVIDER"); provider != "" {
		c.Provider = strings.ToLower(provider)
	}

	// LIVECHAT_MODEL applies to whichever provider is selected
	if model := os.Getenv("LIVECHAT_MODEL"); model != "" {
		c.SetModel(model)
	}

	// LIVECHAT_OLLAMA_URL
	if u := os.Getenv("LIVECHAT_OLLAMA_URL"); u != "" {
		c.Ollama.URL = u
	}

	// LIVECHAT_ARCHIVE_POLICY
	if policy := os.Getenv("LIVECHAT_ARCHIVE_POLICY"); policy != "" {
		c.Session.ArchivePolicy = strings.ToLower(policy)
	}
}

// SetModel sets the model for the selected provider.
func (c *Config) SetModel(model string) {
	if strings.EqualFold(c.Provider, ProviderOllama) {
		c.Ollama.Model = model
		return
	}
	c.Gemini.Model = model
}

// Model returns the model name for the selected provider.
func (c *Config) Model() string {
	if strings.EqualFold(c.Provider, ProviderOllama) {
		return c.Ollama.Model
	}
	return c.Gemini.Model
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Generation.StopSequences = append([]string(nil), c.Generation.StopSequences...)
	return &clone
}

// String returns the config as TOML with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Gemini.APIKey != "" {
		safe.Gemini.APIKey = "[REDACTED]"
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(safe); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
