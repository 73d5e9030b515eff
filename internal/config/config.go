// Package config loads service settings from the environment and an optional
// config.yml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DatabaseURL string
	Port        string
	AutoMigrate bool

	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnLifetime time.Duration

	ImportBatchSize       int
	ImportDefaultPassword string
	ImportBaseDir         string
	ImportMaxUploadBytes  int64
	BcryptCost            int

	LogLevel  string
	LogFormat string
}

const minDefaultPasswordLength = 8

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 0)
	v.SetDefault("DB_MAX_CONN_LIFETIME", 2*time.Minute)
	v.SetDefault("IMPORT_BATCH_SIZE", 100)
	v.SetDefault("IMPORT_BASE_DIR", ".")
	v.SetDefault("IMPORT_MAX_UPLOAD_BYTES", int64(10<<20))
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads configFile when given, otherwise ./config.yml if it exists.
// Environment variables win over file values.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DatabaseURL:           strings.TrimSpace(v.GetString("DATABASE_URL")),
		Port:                  v.GetString("PORT"),
		AutoMigrate:           v.GetBool("DB_AUTO_MIGRATE"),
		DBMaxConns:            v.GetInt32("DB_MAX_CONNS"),
		DBMinConns:            v.GetInt32("DB_MIN_CONNS"),
		DBMaxConnLifetime:     v.GetDuration("DB_MAX_CONN_LIFETIME"),
		ImportBatchSize:       v.GetInt("IMPORT_BATCH_SIZE"),
		ImportDefaultPassword: v.GetString("IMPORT_DEFAULT_PASSWORD"),
		ImportBaseDir:         v.GetString("IMPORT_BASE_DIR"),
		ImportMaxUploadBytes:  v.GetInt64("IMPORT_MAX_UPLOAD_BYTES"),
		BcryptCost:            v.GetInt("BCRYPT_COST"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		LogFormat:             v.GetString("LOG_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if len(c.ImportDefaultPassword) < minDefaultPasswordLength {
		problems = append(problems, fmt.Sprintf("IMPORT_DEFAULT_PASSWORD must be at least %d characters", minDefaultPasswordLength))
	}
	if c.ImportBatchSize <= 0 {
		problems = append(problems, "IMPORT_BATCH_SIZE must be positive")
	}
	if c.ImportMaxUploadBytes <= 0 {
		problems = append(problems, "IMPORT_MAX_UPLOAD_BYTES must be positive")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		problems = append(problems, "DB_MIN_CONNS and DB_MAX_CONNS must satisfy 0 <= min <= max, max > 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
