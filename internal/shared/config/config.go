package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is used when no backend origin is configured. It points
	// at a locally running API (or stub server) on the conventional port.
	DefaultBaseURL = "http://localhost:8080/api/v1"

	apiPathSuffix = "/api/v1"
)

// Config holds client configuration.
type Config struct {
	BaseURL      string
	TokenFile    string
	CacheDB      string
	PollInterval time.Duration
	HTTPTimeout  time.Duration
	LogLevel     string
	MentorRoute  string
}

// fileConfig mirrors the optional TOML config file.
type fileConfig struct {
	API struct {
		URL         string `toml:"url"`
		TimeoutSecs int    `toml:"timeout_seconds"`
		MentorRoute string `toml:"mentor_route"`
	} `toml:"api"`
	Session struct {
		TokenFile string `toml:"token_file"`
	} `toml:"session"`
	Cache struct {
		DB string `toml:"db"`
	} `toml:"cache"`
	Watch struct {
		PollIntervalSecs int `toml:"poll_interval_seconds"`
	} `toml:"watch"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Load reads configuration with precedence: environment variables, then the
// optional TOML config file, then defaults. Local .env files are loaded
// best-effort first so dev overrides behave like real environment variables.
func Load() Config {
	_ = godotenv.Load(".env", "cmd/.env")

	var fc fileConfig
	if path := configFilePath(); path != "" {
		_, _ = toml.DecodeFile(path, &fc)
	}

	cfg := Config{
		BaseURL:      ResolveBaseURL(firstNonEmpty(os.Getenv("RESUME_API_URL"), fc.API.URL)),
		TokenFile:    firstNonEmpty(os.Getenv("RESUME_TOKEN_FILE"), fc.Session.TokenFile, defaultTokenFile()),
		CacheDB:      firstNonEmpty(os.Getenv("RESUME_CACHE_DB"), fc.Cache.DB, defaultCacheDB()),
		PollInterval: 5 * time.Second,
		HTTPTimeout:  30 * time.Second,
		LogLevel:     firstNonEmpty(os.Getenv("RESUME_LOG_LEVEL"), fc.Log.Level, "info"),
		MentorRoute:  firstNonEmpty(os.Getenv("RESUME_MENTOR_ROUTE"), fc.API.MentorRoute, "/ai-mentor"),
	}

	if fc.API.TimeoutSecs > 0 {
		cfg.HTTPTimeout = time.Duration(fc.API.TimeoutSecs) * time.Second
	}
	if fc.Watch.PollIntervalSecs > 0 {
		cfg.PollInterval = time.Duration(fc.Watch.PollIntervalSecs) * time.Second
	}
	if raw := strings.TrimSpace(os.Getenv("RESUME_POLL_INTERVAL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}

	return cfg
}

// ResolveBaseURL normalizes a backend origin override. An empty override
// selects the local default. Otherwise the value is given an https scheme if
// it has none and the versioned API path is appended unless already present.
func ResolveBaseURL(override string) string {
	override = strings.TrimSpace(override)
	if override == "" {
		return DefaultBaseURL
	}

	override = strings.TrimRight(override, "/")
	if !strings.HasPrefix(override, "http://") && !strings.HasPrefix(override, "https://") {
		override = "https://" + override
	}
	if strings.HasSuffix(override, apiPathSuffix) {
		return override
	}
	return override + apiPathSuffix
}

func configFilePath() string {
	if path := strings.TrimSpace(os.Getenv("RESUME_CLIENT_CONFIG")); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "resume-client", "config.toml")
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".resume-client-token"
	}
	return filepath.Join(home, ".config", "resume-client", "token")
}

func defaultCacheDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", "resume-client", "queries.db")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
