package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port             string `yaml:"port"`
	Env              string `yaml:"env"`
	LogLevel         string `yaml:"log_level"`
	CORSOrigins      string `yaml:"cors_origins"`
	StoreDriver      string `yaml:"store_driver"`
	DBPath           string `yaml:"db_path"`
	RedisAddr        string `yaml:"redis_addr"`
	RedisPassword    string `yaml:"redis_password"`
	RedisDB          int    `yaml:"redis_db"`
	RedisPrefix      string `yaml:"redis_prefix"`
	TimestampLayout  string `yaml:"timestamp_layout"`
	Timezone         string `yaml:"timezone"`
	DefaultTitle     string `yaml:"default_title"`
	MaxImageBytes    int64  `yaml:"max_image_bytes"`
	MaxImagesPerMemo int    `yaml:"max_images_per_memo"`
}

// Upper bounds for the image limits. The request body limit is derived
// from both and must stay within a 32-bit int.
const (
	MaxImageBytesCeiling    int64 = 32 << 20
	MaxImagesPerMemoCeiling       = 20
)

var AppConfig *Config

// Defaults returns the configuration used when neither the YAML file nor
// the environment sets a value
func Defaults() *Config {
	return &Config{
		Port:             "3000",
		Env:              "development",
		LogLevel:         "info",
		CORSOrigins:      "*",
		StoreDriver:      "sqlite",
		DBPath:           "./data/memo-notes.db",
		RedisAddr:        "localhost:6379",
		RedisPrefix:      "memo-notes:",
		TimestampLayout:  "2006/1/2 15:04:05",
		Timezone:         "Local",
		DefaultTitle:     "新しいメモ",
		MaxImageBytes:    5 << 20,
		MaxImagesPerMemo: 10,
	}
}

// Load reads .env, then the YAML file named by CONFIG_FILE (default
// config.yaml, optional), then environment variables. Later sources win.
func Load() error {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := loadFile(GetEnv("CONFIG_FILE", "config.yaml"), cfg); err != nil {
		return err
	}
	if err := applyEnv(cfg); err != nil {
		return err
	}
	if err := validate(cfg); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = GetEnv("PORT", cfg.Port)
	cfg.Env = GetEnv("ENV", cfg.Env)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.CORSOrigins = GetEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.StoreDriver = GetEnv("STORE_DRIVER", cfg.StoreDriver)
	cfg.DBPath = GetEnv("DB_PATH", cfg.DBPath)
	cfg.RedisAddr = GetEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = GetEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisPrefix = GetEnv("REDIS_PREFIX", cfg.RedisPrefix)
	cfg.TimestampLayout = GetEnv("TIMESTAMP_LAYOUT", cfg.TimestampLayout)
	cfg.Timezone = GetEnv("TIMEZONE", cfg.Timezone)
	cfg.DefaultTitle = GetEnv("DEFAULT_TITLE", cfg.DefaultTitle)

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB must be an integer: %w", err)
		}
		cfg.RedisDB = n
	}

	if v := os.Getenv("MAX_IMAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_IMAGE_BYTES must be an integer, got %q", v)
		}
		cfg.MaxImageBytes = n
	}

	if v := os.Getenv("MAX_IMAGES_PER_MEMO"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_IMAGES_PER_MEMO must be an integer, got %q", v)
		}
		cfg.MaxImagesPerMemo = n
	}

	return nil
}

// validate range-checks values from every source
func validate(cfg *Config) error {
	if cfg.MaxImageBytes <= 0 || cfg.MaxImageBytes > MaxImageBytesCeiling {
		return fmt.Errorf("MAX_IMAGE_BYTES must be between 1 and %d, got %d", MaxImageBytesCeiling, cfg.MaxImageBytes)
	}
	if cfg.MaxImagesPerMemo <= 0 || cfg.MaxImagesPerMemo > MaxImagesPerMemoCeiling {
		return fmt.Errorf("MAX_IMAGES_PER_MEMO must be between 1 and %d, got %d", MaxImagesPerMemoCeiling, cfg.MaxImagesPerMemo)
	}
	return nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
