package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Stream   StreamConfig   `mapstructure:"stream"`
	Presence PresenceConfig `mapstructure:"presence"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Media    MediaConfig    `mapstructure:"media"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type PricingConfig struct {
	// Exponent for EXPONENTIAL decay curves. Must be > 1.
	DecayExponent int `mapstructure:"decay_exponent"`
}

type StreamConfig struct {
	TickInterval      time.Duration `mapstructure:"tick_interval"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

type PresenceConfig struct {
	InactivityWindow time.Duration `mapstructure:"inactivity_window"`
	SweepSpec        string        `mapstructure:"sweep_spec"`
}

type ChatConfig struct {
	Cooldown     time.Duration `mapstructure:"cooldown"`
	MaxLength    int           `mapstructure:"max_length"`
	PageLimit    int           `mapstructure:"page_limit"`
	WSPollPeriod time.Duration `mapstructure:"ws_poll_period"`
}

type MediaConfig struct {
	RetentionDays int    `mapstructure:"retention_days"`
	ScanSpec      string `mapstructure:"scan_spec"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FLAUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("pricing.decay_exponent", 3)
	v.SetDefault("stream.tick_interval", "1s")
	v.SetDefault("stream.heartbeat_interval", "30s")
	v.SetDefault("presence.inactivity_window", "90s")
	v.SetDefault("presence.sweep_spec", "@every 2m")
	v.SetDefault("chat.cooldown", "1s")
	v.SetDefault("chat.max_length", 500)
	v.SetDefault("chat.page_limit", 50)
	v.SetDefault("chat.ws_poll_period", "1s")
	v.SetDefault("media.retention_days", 30)
	v.SetDefault("media.scan_spec", "@every 10m")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
