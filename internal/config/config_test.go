package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.RemoteURLOrDefault() != DefaultRemoteURL {
		t.Errorf("Expected default remote URL %s, got %s", DefaultRemoteURL, config.RemoteURLOrDefault())
	}
	if config.APIKey != "" {
		t.Errorf("Expected empty API key, got %s", config.APIKey)
	}
}

func TestConfigManager_LoadNonExistent(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cm := NewConfigManagerWithPath(configPath)

	config, err := cm.Load()
	if err != nil {
		t.Fatalf("Expected no error loading non-existent config, got: %v", err)
	}
	if config.RemoteURL != "" {
		t.Errorf("Expected empty remote URL, got %s", config.RemoteURL)
	}
}

func TestConfigManager_SaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cm := NewConfigManagerWithPath(configPath)

	testConfig := &Config{
		RemoteURL: "https://snips.example.com/",
		APIKey:    "secret",
		Style:     "dracula",
	}
	if err := cm.Save(testConfig); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("Expected file mode 0600, got %o", perm)
	}

	loaded, err := cm.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.RemoteURL != "https://snips.example.com" {
		t.Errorf("Expected trailing slash trimmed, got %s", loaded.RemoteURL)
	}
	if loaded.APIKey != "secret" {
		t.Errorf("Expected api key secret, got %s", loaded.APIKey)
	}
	if loaded.Style != "dracula" {
		t.Errorf("Expected style dracula, got %s", loaded.Style)
	}
}

func TestConfigManager_LoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("remote_url: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewConfigManagerWithPath(configPath).Load()
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestConfigManager_RejectsBadRemoteURL(t *testing.T) {
	cm := NewConfigManagerWithPath(filepath.Join(t.TempDir(), "config.yaml"))

	for _, bad := range []string{"ftp://host", "localhost:3000", "http://"} {
		if err := cm.Update("remote-url", bad); err == nil {
			t.Errorf("Expected error for remote-url %q", bad)
		}
	}
}

func TestConfigManager_UpdateAndGet(t *testing.T) {
	cm := NewConfigManagerWithPath(filepath.Join(t.TempDir(), "config.yaml"))

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"remote-url", "http://box:3000", "http://box:3000"},
		{"api-key", "abc123", "abc123"},
		{"style", "github", "github"},
		{"db-location", "/tmp/s.sqlite", "/tmp/s.sqlite"},
	}
	for _, tt := range tests {
		if err := cm.Update(tt.key, tt.value); err != nil {
			t.Fatalf("Update(%s) failed: %v", tt.key, err)
		}
		got, err := cm.Get(tt.key)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("Get(%s) = %s, want %s", tt.key, got, tt.want)
		}
	}

	if err := cm.Update("bogus", "x"); err == nil {
		t.Error("Expected error for unknown key")
	}
	if _, err := cm.Get("bogus"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestConfigManager_ListMasksKey(t *testing.T) {
	cm := NewConfigManagerWithPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err := cm.Update("api-key", "supersecret"); err != nil {
		t.Fatal(err)
	}

	list, err := cm.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list["api-key"] != "*******cret" {
		t.Errorf("Expected masked key, got %s", list["api-key"])
	}
	if list["remote-url"] != DefaultRemoteURL {
		t.Errorf("Expected default remote URL, got %s", list["remote-url"])
	}
	if list["style"] != "[default]" {
		t.Errorf("Expected [default] style, got %s", list["style"])
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":       "[not set]",
		"abc":    "***",
		"abcd":   "****",
		"abcdef": "**cdef",
	}
	for in, want := range tests {
		if got := MaskKey(in); got != want {
			t.Errorf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}
}
