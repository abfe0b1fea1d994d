package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSecret is the signing key used when none is configured. Fine for a
// local demo, never for a deployment.
const DefaultSecret = "secret123"

// Config is the runtime configuration of the lost & found server.
type Config struct {
	Port    string        `mapstructure:"port"`
	Log     LogConfig     `mapstructure:"log"`
	DB      DBConfig      `mapstructure:"db"`
	Uploads UploadsConfig `mapstructure:"uploads"`
	Session SessionConfig `mapstructure:"session"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type UploadsConfig struct {
	Dir        string   `mapstructure:"dir"`
	MaxBytes   int64    `mapstructure:"max_bytes"`
	AllowedExt []string `mapstructure:"allowed_ext"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Secure bool          `mapstructure:"secure"`
}

type SeedConfig struct {
	Demo bool `mapstructure:"demo"`
}

const envPrefix = "LAF"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "campus_lost_and_found.db")
	v.SetDefault("uploads.dir", "static/uploads")
	v.SetDefault("uploads.max_bytes", 4<<20) // 4 MiB
	v.SetDefault("uploads.allowed_ext", []string{"png", "jpg", "jpeg", "gif"})
	v.SetDefault("session.secret", DefaultSecret)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("seed.demo", true)
}

// Load reads configs/config.yml (or config.yml in any of dirs) on top of the
// defaults. Environment variables prefixed with LAF_ win over the file,
// e.g. LAF_SESSION_SECRET overrides session.secret. A missing file is fine.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if len(dirs) == 0 {
		dirs = []string{"configs"}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Session.Secret) == "":
		return errors.New("config: session.secret must not be empty")
	case c.Session.TTL <= 0:
		return errors.New("config: session.ttl must be positive")
	case c.Uploads.MaxBytes <= 0:
		return errors.New("config: uploads.max_bytes must be positive")
	case len(c.Uploads.AllowedExt) == 0:
		return errors.New("config: uploads.allowed_ext must not be empty")
	case c.Uploads.Dir == "":
		return errors.New("config: uploads.dir must not be empty")
	case c.DB.Path == "":
		return errors.New("config: db.path must not be empty")
	}
	return nil
}

// UsesDefaultSecret reports whether the session signing key was left at its default.
func (c *Config) UsesDefaultSecret() bool {
	return c.Session.Secret == DefaultSecret
}
