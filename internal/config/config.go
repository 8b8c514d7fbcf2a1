package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type AppConfig struct {
	PageSize    int    `mapstructure:"page_size"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
}

// Load reads configuration from the given yaml file with SOCIETY_-prefixed
// environment overrides, e.g. SOCIETY_JWT_SECRET. The file is optional;
// defaults plus environment are enough to boot.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=society port=5432 sslmode=disable")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_hours", 10)
	v.SetDefault("app.page_size", 10)
	v.SetDefault("app.cors_origins", "http://localhost:5173")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SOCIETY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret (SOCIETY_JWT_SECRET) is required")
	}
	if len(c.JWT.Secret) < 32 {
		log.Println("[WARN] jwt.secret is shorter than 32 characters")
	}

	return &c, nil
}
