package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	pkgerrors "stealthspanner/pkg/errors"
)

func TestLoadCreatesFromTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("template was not written to %s: %v", path, err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}

	if cfg.Provider != "ipvanish" {
		t.Errorf("Provider = %q, want ipvanish", cfg.Provider)
	}
	if cfg.Pings != 4 || cfg.Workers != 20 || cfg.TimeoutSeconds != 3.0 {
		t.Errorf("probe defaults = %d/%d/%.1f, want 4/20/3.0",
			cfg.Pings, cfg.Workers, cfg.TimeoutSeconds)
	}
	if cfg.Strategy != "tcp" || cfg.LogLevel != "info" {
		t.Errorf("Strategy/LogLevel = %q/%q, want tcp/info", cfg.Strategy, cfg.LogLevel)
	}
	if !cfg.AutoDownload {
		t.Error("AutoDownload = false, want true")
	}

	provider, ok := cfg.ProviderConfig("ipvanish")
	if !ok {
		t.Fatal("ProviderConfig(ipvanish) not found")
	}
	if !provider.Enabled || provider.BaseURL == "" || provider.Directory != "IPVanish" {
		t.Errorf("ipvanish provider = %+v", provider)
	}

	if !cfg.Privacy.Enabled || cfg.Privacy.Weight != 0.35 {
		t.Errorf("Privacy = %+v, want enabled with weight 0.35", cfg.Privacy)
	}
}

func TestLoadAppliesDefaultsToSparseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "provider = \"ipvanish\"\npings = 8\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pings != 8 {
		t.Errorf("Pings = %d, want 8", cfg.Pings)
	}
	if cfg.Workers != 20 || cfg.TimeoutSeconds != 3.0 || cfg.Strategy != "tcp" {
		t.Errorf("defaults not applied: %d/%.1f/%q", cfg.Workers, cfg.TimeoutSeconds, cfg.Strategy)
	}
	if cfg.Privacy.Weight != 0.35 {
		t.Errorf("Privacy.Weight = %v, want default 0.35", cfg.Privacy.Weight)
	}
}

func TestLoadPrivacyOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[privacy]
enabled = true
weight = 0.5

[privacy.scores]
US = 55
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Privacy.Weight != 0.5 {
		t.Errorf("Privacy.Weight = %v, want 0.5", cfg.Privacy.Weight)
	}
	if cfg.Privacy.Scores["US"] != 55 {
		t.Errorf("Privacy.Scores[US] = %d, want 55", cfg.Privacy.Scores["US"])
	}
}

func TestLoadInvalidPrivacyWeight(t *testing.T) {
	tests := []struct {
		name   string
		weight string
	}{
		{"too high", "1.5"},
		{"negative", "-0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := "[privacy]\nenabled = true\nweight = " + tt.weight + "\n"
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			_, err := Load(path)
			if !errors.Is(err, pkgerrors.ErrConfigInvalid) {
				t.Errorf("Load() error = %v, want %v", err, pkgerrors.ErrConfigInvalid)
			}
		})
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("provider = [broken\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, pkgerrors.ErrConfigInvalid) {
		t.Errorf("Load() error = %v, want %v", err, pkgerrors.ErrConfigInvalid)
	}
}

func TestDirectory(t *testing.T) {
	cfg := &Config{
		Providers: map[string]Provider{
			"ipvanish": {Directory: "IPVanish"},
			"bare":     {},
		},
	}

	tests := []struct {
		provider string
		want     string
	}{
		{"ipvanish", "IPVanish"},
		{"bare", "bare"},
		{"unknown", "unknown"},
	}
	for _, tt := range tests {
		if got := cfg.Directory(tt.provider); got != tt.want {
			t.Errorf("Directory(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
