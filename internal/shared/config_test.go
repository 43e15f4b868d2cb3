package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "spotify.db" {
			t.Errorf("expected database path spotify.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.RedirectURI != "http://localhost:8080/callback" {
			t.Errorf("expected default redirect URI, got %s", config.Credentials.Spotify.RedirectURI)
		}

		if config.Extraction.PlaylistLimit != 30 {
			t.Errorf("expected playlist limit 30, got %d", config.Extraction.PlaylistLimit)
		}
		if config.Extraction.MaxRetries != 5 {
			t.Errorf("expected max retries 5, got %d", config.Extraction.MaxRetries)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 9090

[credentials.spotify]
client_id = "test_id"
client_secret = "test_secret"

[extraction]
playlist_limit = 5
rate_limit = 2.5
max_retries = 3
backfill = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected custom database path, got %s", config.Database.Path)
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected port 9090, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.ClientID != "test_id" {
			t.Errorf("expected client_id test_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Extraction.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.Extraction.RateLimit)
		}
		if !config.Extraction.Backfill {
			t.Error("expected backfill enabled")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("environment overrides credentials", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")

		config := DefaultConfig()
		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env client_secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
	})

	t.Run("SaveConfig round trips tokens", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.AccessToken = "access"
		config.Credentials.Spotify.RefreshToken = "refresh"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Credentials.Spotify.AccessToken != "access" {
			t.Errorf("expected access token round tripped, got %q", loaded.Credentials.Spotify.AccessToken)
		}
		if loaded.Credentials.Spotify.RefreshToken != "refresh" {
			t.Errorf("expected refresh token round tripped, got %q", loaded.Credentials.Spotify.RefreshToken)
		}
	})
}
