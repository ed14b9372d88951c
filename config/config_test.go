package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("SKINSHELF_SERVER_PORT")
		os.Unsetenv("SKINSHELF_SERVER_ENVIRONMENT")
		os.Unsetenv("SKINSHELF_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("SKINSHELF_DIRECTORY_BASE_URL")
		os.Unsetenv("SKINSHELF_DIRECTORY_USER_AGENT")
		os.Unsetenv("SKINSHELF_DIRECTORY_TIMEOUT")
		os.Unsetenv("SKINSHELF_DIRECTORY_PAGE_SIZE")
		os.Unsetenv("SKINSHELF_DIRECTORY_SAMPLE_COUNT")
		os.Unsetenv("SKINSHELF_DIRECTORY_RATELIMIT_RPS")
		os.Unsetenv("SKINSHELF_DIRECTORY_RATELIMIT_BURST")
		os.Unsetenv("SKINSHELF_DIRECTORY_LOOKUP_TTL")
		os.Unsetenv("SKINSHELF_STORE_PATH")
		os.Unsetenv("SKINSHELF_SYNC_ENABLED")
		os.Unsetenv("SKINSHELF_SYNC_BASE_URL")
		os.Unsetenv("SKINSHELF_SYNC_USER_ID")
		os.Unsetenv("SKINSHELF_SYNC_TIMEOUT")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Directory.BaseURL != "https://world.openbeautyfacts.org" {
			t.Errorf("Directory.BaseURL = %s, want https://world.openbeautyfacts.org", cfg.Directory.BaseURL)
		}
		if cfg.Directory.UserAgent != "SkinShelf/1.0 (backend)" {
			t.Errorf("Directory.UserAgent = %s, want SkinShelf/1.0 (backend)", cfg.Directory.UserAgent)
		}
		if cfg.Directory.Timeout != 30*time.Second {
			t.Errorf("Directory.Timeout = %v, want 30s", cfg.Directory.Timeout)
		}
		if cfg.Directory.PageSize != 20 {
			t.Errorf("Directory.PageSize = %d, want 20", cfg.Directory.PageSize)
		}
		if cfg.Directory.SampleCount != 20 {
			t.Errorf("Directory.SampleCount = %d, want 20", cfg.Directory.SampleCount)
		}
		if cfg.Directory.RateLimitRPS != 0.5 {
			t.Errorf("Directory.RateLimitRPS = %v, want 0.5", cfg.Directory.RateLimitRPS)
		}
		if cfg.Directory.RateLimitBurst != 5 {
			t.Errorf("Directory.RateLimitBurst = %d, want 5", cfg.Directory.RateLimitBurst)
		}
		if cfg.Directory.LookupTTL != 1*time.Hour {
			t.Errorf("Directory.LookupTTL = %v, want 1h", cfg.Directory.LookupTTL)
		}
		if cfg.Store.Path != "data/skinshelf.db" {
			t.Errorf("Store.Path = %s, want data/skinshelf.db", cfg.Store.Path)
		}
		if cfg.Sync.Enabled {
			t.Error("Sync.Enabled = true, want false")
		}
		if cfg.Sync.Timeout != 10*time.Second {
			t.Errorf("Sync.Timeout = %v, want 10s", cfg.Sync.Timeout)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SKINSHELF_SERVER_PORT", "9090")
		os.Setenv("SKINSHELF_SERVER_ENVIRONMENT", "production")
		os.Setenv("SKINSHELF_DIRECTORY_BASE_URL", "https://directory.example.com")
		os.Setenv("SKINSHELF_DIRECTORY_USER_AGENT", "SkinShelf-CI/0.1")
		os.Setenv("SKINSHELF_DIRECTORY_TIMEOUT", "5s")
		os.Setenv("SKINSHELF_DIRECTORY_PAGE_SIZE", "30")
		os.Setenv("SKINSHELF_DIRECTORY_SAMPLE_COUNT", "50")
		os.Setenv("SKINSHELF_DIRECTORY_RATELIMIT_RPS", "2")
		os.Setenv("SKINSHELF_DIRECTORY_RATELIMIT_BURST", "10")
		os.Setenv("SKINSHELF_DIRECTORY_LOOKUP_TTL", "2h")
		os.Setenv("SKINSHELF_STORE_PATH", "data/test.db")
		os.Setenv("SKINSHELF_SYNC_ENABLED", "true")
		os.Setenv("SKINSHELF_SYNC_BASE_URL", "https://sync.example.com")
		os.Setenv("SKINSHELF_SYNC_USER_ID", "user-42")
		os.Setenv("SKINSHELF_SYNC_TIMEOUT", "3s")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Directory.BaseURL != "https://directory.example.com" {
			t.Errorf("Directory.BaseURL = %s, want https://directory.example.com", cfg.Directory.BaseURL)
		}
		if cfg.Directory.UserAgent != "SkinShelf-CI/0.1" {
			t.Errorf("Directory.UserAgent = %s, want SkinShelf-CI/0.1", cfg.Directory.UserAgent)
		}
		if cfg.Directory.Timeout != 5*time.Second {
			t.Errorf("Directory.Timeout = %v, want 5s", cfg.Directory.Timeout)
		}
		if cfg.Directory.PageSize != 30 {
			t.Errorf("Directory.PageSize = %d, want 30", cfg.Directory.PageSize)
		}
		if cfg.Directory.SampleCount != 50 {
			t.Errorf("Directory.SampleCount = %d, want 50", cfg.Directory.SampleCount)
		}
		if cfg.Directory.RateLimitRPS != 2 {
			t.Errorf("Directory.RateLimitRPS = %v, want 2", cfg.Directory.RateLimitRPS)
		}
		if cfg.Directory.RateLimitBurst != 10 {
			t.Errorf("Directory.RateLimitBurst = %d, want 10", cfg.Directory.RateLimitBurst)
		}
		if cfg.Directory.LookupTTL != 2*time.Hour {
			t.Errorf("Directory.LookupTTL = %v, want 2h", cfg.Directory.LookupTTL)
		}
		if cfg.Store.Path != "data/test.db" {
			t.Errorf("Store.Path = %s, want data/test.db", cfg.Store.Path)
		}
		if !cfg.Sync.Enabled {
			t.Error("Sync.Enabled = false, want true")
		}
		if cfg.Sync.BaseURL != "https://sync.example.com" {
			t.Errorf("Sync.BaseURL = %s, want https://sync.example.com", cfg.Sync.BaseURL)
		}
		if cfg.Sync.UserID != "user-42" {
			t.Errorf("Sync.UserID = %s, want user-42", cfg.Sync.UserID)
		}
		if cfg.Sync.Timeout != 3*time.Second {
			t.Errorf("Sync.Timeout = %v, want 3s", cfg.Sync.Timeout)
		}
	})

	t.Run("fails validation for out-of-range page size", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SKINSHELF_DIRECTORY_PAGE_SIZE", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for page size 0")
		}
		if err != nil && err.Error() != "invalid configuration: directory page size must be between 1 and 100, got: 0" {
			t.Errorf("Load() error = %v, want page size validation error", err)
		}
	})

	t.Run("fails validation when sync enabled without endpoint", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SKINSHELF_SYNC_ENABLED", "true")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for sync without base URL")
		}
	})
}

func TestValidate(t *testing.T) {
	validDirectory := DirectoryConfig{
		BaseURL:     "https://world.openbeautyfacts.org",
		PageSize:    20,
		SampleCount: 20,
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		cfg := &Config{Directory: validDirectory}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when directory base URL is empty", func(t *testing.T) {
		cfg := &Config{
			Directory: DirectoryConfig{PageSize: 20, SampleCount: 20},
		}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty base URL")
		}
	})

	t.Run("fails for page size above the cap", func(t *testing.T) {
		dir := validDirectory
		dir.PageSize = 101
		cfg := &Config{Directory: dir}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for page size 101")
		}
	})

	t.Run("fails for sample count of zero", func(t *testing.T) {
		dir := validDirectory
		dir.SampleCount = 0
		cfg := &Config{Directory: dir}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for sample count 0")
		}
	})

	t.Run("allows an empty store path for memory-only mode", func(t *testing.T) {
		cfg := &Config{
			Directory: validDirectory,
			Store:     StoreConfig{Path: ""},
		}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when sync enabled without base URL", func(t *testing.T) {
		cfg := &Config{
			Directory: validDirectory,
			Sync:      SyncConfig{Enabled: true, UserID: "user-1"},
		}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for sync without base URL")
		}
	})

	t.Run("fails when sync enabled without user ID", func(t *testing.T) {
		cfg := &Config{
			Directory: validDirectory,
			Sync:      SyncConfig{Enabled: true, BaseURL: "https://sync.example.com"},
		}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for sync without user ID")
		}
	})

	t.Run("validates sync with endpoint and user", func(t *testing.T) {
		cfg := &Config{
			Directory: validDirectory,
			Sync: SyncConfig{
				Enabled: true,
				BaseURL: "https://sync.example.com",
				UserID:  "user-1",
			},
		}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid sync config", err)
		}
	})
}
