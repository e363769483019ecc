package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr               string        `mapstructure:"addr"`
	Mode               string        `mapstructure:"mode"`
	SessionSecret      string        `mapstructure:"session_secret"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	LoginRatePerMinute int           `mapstructure:"login_rate_per_minute"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	Driver            string   `mapstructure:"driver"`
	UploadDir         string   `mapstructure:"upload_dir"`
	MaxUploadMB       int64    `mapstructure:"max_upload_mb"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Prefix string `mapstructure:"s3_prefix"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads the yaml config at path (or cmd/config/config.yaml when empty),
// overlays STREAMFLOW_* environment variables and validates the result.
// A missing file is fine; defaults cover every key.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("cmd/config/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("streamflow")
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.session_ttl", 24*time.Hour)
	v.SetDefault("server.login_rate_per_minute", 30)
	v.SetDefault("database.path", "db/streamflow.db")
	v.SetDefault("storage.driver", StorageLocal)
	v.SetDefault("storage.upload_dir", "public/uploads/videos")
	v.SetDefault("storage.max_upload_mb", 1024)
	v.SetDefault("storage.allowed_extensions", []string{"mp4", "mov", "avi", "mkv"})
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.s3_bucket", "")
	v.SetDefault("aws.s3_prefix", "videos")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

func (c *Config) Validate() error {
	if c.Server.SessionSecret == "" {
		return errors.New("server.session_secret must be set")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New("server.session_ttl must be positive")
	}
	if c.Database.Path == "" {
		return errors.New("database.path must be set")
	}
	switch c.Storage.Driver {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			return errors.New("storage.upload_dir must be set for the local driver")
		}
	case StorageS3:
		if c.AWS.Region == "" || c.AWS.S3Bucket == "" {
			return errors.New("aws.region and aws.s3_bucket must be set for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	return nil
}
