package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5000"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`

	// IPHeader is trusted for the client address when set, e.g. X-Real-IP.
	IPHeader string `yaml:"ip_header" env:"IP_HEADER"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"true"`
	RPS     float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"10"`
	Burst   int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

type Config struct {
	LogLevel    string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	HTTP        HTTPConfig      `yaml:"http"`
	DBPath      string          `yaml:"db_path" env:"DB_PATH" env-default:"./data/voice-notes.db"`
	JWTSecret   string          `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTTTL      time.Duration   `yaml:"jwt_ttl" env:"JWT_TTL" env-default:"720h"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	CORSOrigins []string        `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*" env-separator:","`
}

// Load reads configPath when it exists and falls back to the environment
// alone when it does not. An empty path means environment only.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
	}
	return cfg, nil
}
