// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable ApplyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range append(apiKeyEnvVars,
		"LIVECHAT_PROVIDER", "LIVECHAT_MODEL", "LIVECHAT_OLLAMA_URL", "LIVECHAT_ARCHIVE_POLICY") {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Gemini.APIKey != "" {
		t.Error("Default() must not carry an API key")
	}
	if cfg.Request.Timeout() != 60*time.Second {
		t.Errorf("Timeout() = %v, want 60s", cfg.Request.Timeout())
	}
	g := cfg.Generation
	if g.CandidateCount != 1 || g.MaxOutputTokens != 200 || g.TopK != 16 || g.TopP != 0.1 || g.Temperature != 1.0 {
		t.Errorf("unexpected generation defaults: %+v", g)
	}
	if len(g.StopSequences) != 1 || g.StopSequences[0] != "red" {
		t.Errorf("StopSequences = %v", g.StopSequences)
	}
}

func TestLoadFromPath_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
provider = "ollama"

[ollama]
model = "mistral"

[ui]
sidebar_open = false
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Provider != ProviderOllama || cfg.Model() != "mistral" {
		t.Errorf("provider/model = %s/%s", cfg.Provider, cfg.Model())
	}
	if cfg.Ollama.URL != "http://127.0.0.1:11434" {
		t.Errorf("Ollama.URL = %q, want default", cfg.Ollama.URL)
	}
	if cfg.UI.SidebarOpen {
		t.Error("sidebar_open = false should survive load")
	}
	if cfg.UI.Title != "Watsonx Assistant" {
		t.Errorf("UI.Title = %q", cfg.UI.Title)
	}
}

func TestLoadFromPath_FixesPermissions(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `provider = "gemini"`)

	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadFromPath() = %v, want ErrNotExist", err)
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
provider = "openai"

[session]
archive_policy = "shred"
`)

	_, err := LoadFromPath(path)
	var verrs ValidateErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("LoadFromPath() = %v, want ValidateErrors", err)
	}
	fields := map[string]bool{}
	for _, v := range verrs {
		fields[v.Field] = true
	}
	if !fields["provider"] || !fields["session.archive_policy"] {
		t.Errorf("fields = %v", fields)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("LIVECHAT_MODEL", "gemini-2.0-flash")
	t.Setenv("LIVECHAT_ARCHIVE_POLICY", "MOVE")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Gemini.APIKey != "gemini-key" {
		t.Errorf("APIKey = %q, want GEMINI_API_KEY to win over GOOGLE_API_KEY", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if cfg.Session.ArchivePolicy != "move" {
		t.Errorf("ArchivePolicy = %q", cfg.Session.ArchivePolicy)
	}

	t.Setenv("LIVECHAT_API_KEY", "livechat-key")
	cfg.ApplyEnvOverrides()
	if cfg.Gemini.APIKey != "livechat-key" {
		t.Errorf("APIKey = %q, want LIVECHAT_API_KEY first", cfg.Gemini.APIKey)
	}
}

func TestApplyEnvOverrides_ModelFollowsProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIVECHAT_PROVIDER", "ollama")
	t.Setenv("LIVECHAT_MODEL", "phi3")
	t.Setenv("LIVECHAT_OLLAMA_URL", "http://gpu-box:11434")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Ollama.Model != "phi3" || cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("models = ollama:%s gemini:%s", cfg.Ollama.Model, cfg.Gemini.Model)
	}
	if cfg.Ollama.URL != "http://gpu-box:11434" {
		t.Errorf("Ollama.URL = %q", cfg.Ollama.URL)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Session.ArchivePolicy = "move"
	cfg.Generation.StopSequences = []string{"red", "blue"}
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# livechat configuration file") {
		t.Error("missing header comment")
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Session.ArchivePolicy != "move" || len(loaded.Generation.StopSequences) != 2 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestString_RedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Gemini.APIKey = "super-secret"

	out := cfg.String()
	if strings.Contains(out, "super-secret") {
		t.Error("String() leaked the API key")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("String() should mark the key as redacted")
	}
	if cfg.Gemini.APIKey != "super-secret" {
		t.Error("String() must not modify the receiver")
	}
}

func TestValidate_Timeout(t *testing.T) {
	cfg := Default()
	cfg.Request.TimeoutSecs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject timeout_secs = 0")
	}
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	cfg.Log.File = "/tmp/custom.log"
	if p, _ := cfg.LogPath(); p != "/tmp/custom.log" {
		t.Errorf("LogPath() = %q", p)
	}

	cfg.Log.File = ""
	p, err := cfg.LogPath()
	if err != nil {
		t.Skip("no home directory")
	}
	if filepath.Base(p) != "livechat.log" {
		t.Errorf("LogPath() = %q", p)
	}
}
