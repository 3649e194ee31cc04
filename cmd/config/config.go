package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

type AppConfig struct {
	General  GeneralConfig
	Store    StoreConfig
	Settings SettingsConfig
}

type GeneralConfig struct {
	LogLevel string
}

type StoreConfig struct {
	Backend    string
	CSVPath    string
	SQLitePath string
}

type SettingsConfig struct {
	Path string
}

// LoadConfig reads abq.yaml from ./config or /config, overlaid with ABQ_*
// environment variables. A missing file is not an error; everything has a
// default.
func LoadConfig(v *viper.Viper) (AppConfig, error) {
	v.SetEnvPrefix("abq")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigName("abq")
	v.AddConfigPath("config")
	v.AddConfigPath("/config")

	v.SetDefault("general.log_level", "info")
	v.SetDefault("store.backend", BackendCSV)
	v.SetDefault("store.csv_path", "")
	v.SetDefault("store.sqlite_path", "abq_data.db")
	v.SetDefault("settings.path", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := AppConfig{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
		},
		Store: StoreConfig{
			Backend:    v.GetString("store.backend"),
			CSVPath:    v.GetString("store.csv_path"),
			SQLitePath: v.GetString("store.sqlite_path"),
		},
		Settings: SettingsConfig{
			Path: v.GetString("settings.path"),
		},
	}

	switch cfg.Store.Backend {
	case BackendCSV, BackendSQLite:
	default:
		return AppConfig{}, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}
