package config

import (
	"testing"
	"time"

	"github.com/courtside/matchday/internal/platform/logging"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEAGUE_ID", "league-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("app env = %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.StatsRefreshDelay != 2*time.Second {
		t.Fatalf("stats refresh delay = %v", cfg.StatsRefreshDelay)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("log level = %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("cors origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRequiresLeagueID(t *testing.T) {
	t.Setenv("LEAGUE_ID", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without LEAGUE_ID")
	}
}

func TestLoadRejectsUnknownAppEnv(t *testing.T) {
	t.Setenv("LEAGUE_ID", "league-1")
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported APP_ENV")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("LEAGUE_ID", "league-1")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POLL_INTERVAL", "10s")
	t.Setenv("PLACEHOLDER_PLAYER_IDS", "ghost-1, ghost-2")
	t.Setenv("LEAGUE_API_MAX_RETRIES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvProd || cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if len(cfg.PlaceholderPlayerIDs) != 2 || cfg.PlaceholderPlayerIDs[1] != "ghost-2" {
		t.Fatalf("placeholder ids = %v", cfg.PlaceholderPlayerIDs)
	}
	if cfg.LeagueAPIMaxRetries != 5 {
		t.Fatalf("max retries = %d", cfg.LeagueAPIMaxRetries)
	}
}
