package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type RateLimitConfig struct {
	Burst    int           `mapstructure:"burst"`
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	Mode            string          `mapstructure:"mode"`
	Port            int             `mapstructure:"port"`
	StaticPath      string          `mapstructure:"static_path"`
	Secret          string          `mapstructure:"secret"`
	AllowedOrigins  []string        `mapstructure:"allowed_origins"`
	ReadLimit       int64           `mapstructure:"read_limit"`
	SendBuffer      int             `mapstructure:"send_buffer"`
	PingPeriod      time.Duration   `mapstructure:"ping_period"`
	PongWait        time.Duration   `mapstructure:"pong_wait"`
	WriteWait       time.Duration   `mapstructure:"write_wait"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
	Backpressure    string          `mapstructure:"backpressure_policy"`
	RejectMalformed bool            `mapstructure:"reject_malformed"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	LogLevel        string          `mapstructure:"log_level"`
	LogFormat       string          `mapstructure:"log_format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "change-me")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("read_limit", 32768)
	v.SetDefault("send_buffer", 256)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.interval", "10s")
	v.SetDefault("backpressure_policy", "kick")
	v.SetDefault("reject_malformed", false)
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default) on top of the
// defaults; RELAY_* environment variables override both.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.ReadLimit <= 0 {
		errs = append(errs, errors.New("read_limit must be positive"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, errors.New("send_buffer must be positive"))
	}
	if c.PingPeriod <= 0 || c.PongWait <= c.PingPeriod {
		errs = append(errs, errors.New("pong_wait must exceed a positive ping_period"))
	}
	if c.WriteWait <= 0 {
		errs = append(errs, errors.New("write_wait must be positive"))
	}
	if c.RateLimit.Burst <= 0 || c.RateLimit.Interval <= 0 {
		errs = append(errs, errors.New("rate_limit burst and interval must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
