package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/scancart/scancart/internal/backup"
)

// Config is the resolved application configuration. Values come from
// config.yaml (if --config points at one), SCANCART_* environment
// variables, and defaults, in that order of precedence descending.
type Config struct {
	DBPath           string
	Port             string
	LogLevel         string
	LogFormat        string
	BackupDir        string
	BackupPassphrase string
	ProductBaseURL   string
	GeminiAPIKey     string
	Remote           backup.RemoteConfig
}

func loadConfig(configFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCANCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", "scancart.db")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("backup_dir", "backups")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return Config{
		DBPath:           v.GetString("db_path"),
		Port:             v.GetString("port"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		BackupDir:        v.GetString("backup_dir"),
		BackupPassphrase: v.GetString("backup_passphrase"),
		ProductBaseURL:   v.GetString("product_base_url"),
		GeminiAPIKey:     v.GetString("gemini_api_key"),
		Remote: backup.RemoteConfig{
			Endpoint:  v.GetString("s3.endpoint"),
			Bucket:    v.GetString("s3.bucket"),
			Region:    v.GetString("s3.region"),
			AccessKey: v.GetString("s3.access_key"),
			SecretKey: v.GetString("s3.secret_key"),
			Prefix:    v.GetString("s3.prefix"),
		},
	}, nil
}
