package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Quiz      QuizConfig      `mapstructure:"quiz"`
	History   HistoryConfig   `mapstructure:"history"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type QuizConfig struct {
	// MinPoolSize is the smallest pool a session may be drawn from.
	MinPoolSize int `mapstructure:"min_pool_size"`
	// DefaultDrawCount caps the suggested draw size (min(default, pool)).
	DefaultDrawCount int `mapstructure:"default_draw_count"`
	// WorstRetryCount is how many top-missed questions feed a retry round.
	WorstRetryCount int `mapstructure:"worst_retry_count"`
	// MaxUploadBytes bounds the accepted question file size.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

type HistoryConfig struct {
	// Path of the append-only attempt log (CSV).
	Path string `mapstructure:"path"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// Window returns the rate-limit window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowMinutes <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowMinutes) * time.Minute
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("GIS_QUIZ")
	viper.AutomaticEnv()

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// History log
	viper.BindEnv("history.path", "HISTORY_PATH")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("quiz.min_pool_size", 5)
	viper.SetDefault("quiz.default_draw_count", 10)
	viper.SetDefault("quiz.worst_retry_count", 5)
	viper.SetDefault("quiz.max_upload_bytes", 2<<20)
	viper.SetDefault("history.path", "data/quiz_stats.csv")
	viper.SetDefault("rate_limit.max_requests", 600)
	viper.SetDefault("rate_limit.window_minutes", 1)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Quiz.MinPoolSize < 1 {
		return nil, fmt.Errorf("quiz.min_pool_size must be positive, got %d", cfg.Quiz.MinPoolSize)
	}
	if cfg.History.Path == "" {
		return nil, fmt.Errorf("history.path must not be empty")
	}

	return &cfg, nil
}
