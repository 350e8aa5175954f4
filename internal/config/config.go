package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
	Profile  string `mapstructure:"profile"`

	APIBaseURL            string        `mapstructure:"api_base_url"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	EndpointsFile         string        `mapstructure:"endpoints_file"`
	PublishersFile        string        `mapstructure:"publishers_file"`
	DemoMode              bool          `mapstructure:"demo_mode"`

	TokenStoreType       string        `mapstructure:"token_store_type"`
	TokenStorePath       string        `mapstructure:"token_store_path"`
	TokenTTLSeconds      int64         `mapstructure:"token_ttl_seconds"`
	TokenCleanupSeconds  int64         `mapstructure:"token_cleanup_interval_seconds"`
	TokenTTL             time.Duration `mapstructure:"-"`
	TokenCleanupInterval time.Duration `mapstructure:"-"`
	WatchIntervalSeconds int64         `mapstructure:"watch_interval_seconds"`
	WatchInterval        time.Duration `mapstructure:"-"`

	MockListenAddr         string `mapstructure:"mock_listen_addr"`
	MockJWTSecret          string `mapstructure:"mock_jwt_secret"`
	MockLoginRatePerMinute int    `mapstructure:"mock_login_rate_per_minute"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "samvad-auth-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("profile", "default")
	v.SetDefault("api_base_url", "http://localhost:8000")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("endpoints_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("demo_mode", false)
	v.SetDefault("token_store_type", "bbolt")
	v.SetDefault("token_store_path", "./data/session.db")
	v.SetDefault("token_ttl_seconds", int64((30*time.Minute)/time.Second))
	v.SetDefault("token_cleanup_interval_seconds", int64(time.Hour/time.Second))
	v.SetDefault("watch_interval_seconds", 60)
	v.SetDefault("mock_listen_addr", ":8000")
	v.SetDefault("mock_jwt_secret", "")
	v.SetDefault("mock_login_rate_per_minute", 30)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid api_base_url %q (must be an absolute http(s) url)", cfg.APIBaseURL)
	}

	if cfg.RequestTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	cfg.TokenStoreType = strings.ToLower(strings.TrimSpace(cfg.TokenStoreType))
	switch cfg.TokenStoreType {
	case "none", "memory", "bbolt":
	default:
		return nil, fmt.Errorf("invalid token_store_type %q (expected none, memory or bbolt)", cfg.TokenStoreType)
	}

	if cfg.TokenTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid token_ttl_seconds (must be positive seconds)")
	}
	if cfg.TokenCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid token_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.TokenTTL = time.Duration(cfg.TokenTTLSeconds) * time.Second
	cfg.TokenCleanupInterval = time.Duration(cfg.TokenCleanupSeconds) * time.Second

	if cfg.WatchIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid watch_interval_seconds (must be positive seconds)")
	}
	cfg.WatchInterval = time.Duration(cfg.WatchIntervalSeconds) * time.Second

	if strings.TrimSpace(cfg.Profile) == "" {
		cfg.Profile = "default"
	}
	if cfg.MockLoginRatePerMinute <= 0 {
		return nil, fmt.Errorf("invalid mock_login_rate_per_minute (must be positive)")
	}

	return &cfg, nil
}
