package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// JWTConfig holds the token signing settings. SecretKey has no default and
// must be supplied through the environment (JWT_SECRETKEY) or a config file.
type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
}

type AuthConfig struct {
	BcryptCost   int           `mapstructure:"bcryptCost"`
	UserCacheTTL time.Duration `mapstructure:"userCacheTTL"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Password          string `mapstructure:"password"`
	Port              string `mapstructure:"port"`
	Username          string `mapstructure:"username"`
	DB                string `mapstructure:"db"`
	SSLMODE           string `mapstructure:"SSLMODE"`
	MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Driver       string         `mapstructure:"driver"`
		QueryTimeout time.Duration  `mapstructure:"queryTimeout"`
		Postgres     PostgresConfig `mapstructure:"postgres"`
		SQLite       SQLiteConfig   `mapstructure:"sqlite"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	JWT  JWTConfig  `mapstructure:"jwt"`
	Auth AuthConfig `mapstructure:"auth"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// JWT_SECRETKEY overrides jwt.secretKey, REPOSITORIES_DRIVER overrides repositories.driver, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about.
	v.SetDefault("jwt.secretKey", "")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate checks the settings the process cannot run without.
func (c *Config) Validate() error {
	switch c.Repositories.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported repositories.driver %q", c.Repositories.Driver)
	}
	if c.Repositories.QueryTimeout <= 0 {
		return fmt.Errorf("repositories.queryTimeout must be positive")
	}
	if c.Server.HTTPPort == "" {
		return fmt.Errorf("server.HTTPPort is required")
	}
	return nil
}
