package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/matchday/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	LeagueID             string
	PlaceholderPlayerIDs []string

	LeagueAPIBaseURL             string
	LeagueAPIToken               string
	LeagueAPITimeout             time.Duration
	LeagueAPIMaxRetries          int
	LeagueAPICircuitEnabled      bool
	LeagueAPICircuitFailureCount int
	LeagueAPICircuitOpenTimeout  time.Duration
	LeagueAPICircuitHalfOpenMax  int

	CacheTTL          time.Duration
	StatsRefreshDelay time.Duration
	RefreshMaxWorkers int
	PollEnabled       bool
	PollInterval      time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	leagueID := strings.TrimSpace(getEnv("LEAGUE_ID", ""))
	if leagueID == "" {
		return Config{}, fmt.Errorf("LEAGUE_ID is required")
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("HTTP_SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_SHUTDOWN_TIMEOUT: %w", err)
	}

	leagueAPITimeout, err := time.ParseDuration(getEnv("LEAGUE_API_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_API_TIMEOUT: %w", err)
	}
	leagueAPIMaxRetries, err := getEnvAsInt("LEAGUE_API_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_API_MAX_RETRIES: %w", err)
	}
	leagueAPICircuitEnabled, err := strconv.ParseBool(getEnv("LEAGUE_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_API_CIRCUIT_ENABLED: %w", err)
	}
	leagueAPICircuitFailureCount, err := getEnvAsInt("LEAGUE_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	leagueAPICircuitOpenTimeout, err := time.ParseDuration(getEnv("LEAGUE_API_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	leagueAPICircuitHalfOpenMax, err := getEnvAsInt("LEAGUE_API_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	statsRefreshDelay, err := time.ParseDuration(getEnv("STATS_REFRESH_DELAY", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_REFRESH_DELAY: %w", err)
	}
	refreshMaxWorkers, err := getEnvAsInt("REFRESH_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_MAX_WORKERS: %w", err)
	}
	pollEnabled, err := strconv.ParseBool(getEnv("POLL_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_ENABLED: %w", err)
	}
	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_INTERVAL: %w", err)
	}
	if pollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	serviceName := getEnv("SERVICE_NAME", "matchday")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),

		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		ShutdownTimeout:    shutdownTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		LeagueID:             leagueID,
		PlaceholderPlayerIDs: splitCSV(getEnv("PLACEHOLDER_PLAYER_IDS", "")),

		LeagueAPIBaseURL:             strings.TrimSpace(getEnv("LEAGUE_API_BASE_URL", "")),
		LeagueAPIToken:               strings.TrimSpace(getEnv("LEAGUE_API_TOKEN", "")),
		LeagueAPITimeout:             leagueAPITimeout,
		LeagueAPIMaxRetries:          leagueAPIMaxRetries,
		LeagueAPICircuitEnabled:      leagueAPICircuitEnabled,
		LeagueAPICircuitFailureCount: leagueAPICircuitFailureCount,
		LeagueAPICircuitOpenTimeout:  leagueAPICircuitOpenTimeout,
		LeagueAPICircuitHalfOpenMax:  leagueAPICircuitHalfOpenMax,

		CacheTTL:          cacheTTL,
		StatsRefreshDelay: statsRefreshDelay,
		RefreshMaxWorkers: refreshMaxWorkers,
		PollEnabled:       pollEnabled,
		PollInterval:      pollInterval,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", ":6060"),

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}, nil
}

func parseAppEnv(v string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(v))
	switch normalized {
	case EnvDev, EnvStage, EnvProd:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported APP_ENV %q (expected %s, %s, or %s)", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
