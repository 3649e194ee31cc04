package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"abq-data-entry/cmd/config"
	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/persistence"
	"abq-data-entry/internal/dataentry/usecases"
	"abq-data-entry/internal/infra/sql"
	"abq-data-entry/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	config     config.AppConfig
	form       domain.Form
	repository usecases.RecordRepository
	settings   *persistence.SettingsFile
}

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{form: domain.ABQForm()}

	root := &cobra.Command{
		Use:           "abq",
		Short:         "ABQ AgriLabs data entry",
		Long:          `Validates plot measurements and stores them in the daily record sheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(v)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.String("file", "", "CSV record file (default abq_data_record_<today>.csv)")
	flags.String("backend", config.BackendCSV, "record store backend: csv or sqlite")
	flags.String("database", "", "SQLite database path for the sqlite backend")
	flags.String("settings", "", "settings file (default ~/abq_settings.json)")
	flags.String("log-level", "", "log level")
	_ = v.BindPFlag("store.csv_path", flags.Lookup("file"))
	_ = v.BindPFlag("store.backend", flags.Lookup("backend"))
	_ = v.BindPFlag("store.sqlite_path", flags.Lookup("database"))
	_ = v.BindPFlag("settings.path", flags.Lookup("settings"))
	_ = v.BindPFlag("general.log_level", flags.Lookup("log-level"))

	root.AddCommand(
		newFieldsCmd(a),
		newSaveCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newSettingsCmd(a),
	)
	return root
}

func (a *app) setup(v *viper.Viper) error {
	cfg, err := config.LoadConfig(v)
	if err != nil {
		return err
	}
	a.config = cfg

	logger.SetDefault(logger.NewLogger(cfg.General.LogLevel))
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(cfg.General.LogLevel))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settingsPath := cfg.Settings.Path
	if settingsPath == "" {
		settingsPath, err = persistence.DefaultSettingsPath()
		if err != nil {
			return err
		}
	}
	a.settings, err = persistence.NewSettingsFile(settingsPath)
	if err != nil {
		return err
	}

	a.repository, err = a.newRepository()
	if err != nil {
		logger.Error("opening record store", logger.Err(err))
		return err
	}
	return nil
}

func (a *app) newRepository() (usecases.RecordRepository, error) {
	switch a.config.Store.Backend {
	case config.BackendSQLite:
		orm, err := sql.NewSQLiteORM(a.config.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Debug("using sqlite store", "path", a.config.Store.SQLitePath)
		return persistence.NewSQLRecordRepository(orm, a.form)
	default:
		path := a.config.Store.CSVPath
		if path == "" {
			path = persistence.DefaultRecordFileName(time.Now())
		}
		repository, err := persistence.NewCSVRecordRepository(path, a.form)
		if err != nil {
			return nil, err
		}
		logger.Debug("using csv store", "path", repository.Path())
		return repository, nil
	}
}

func (a *app) newSession() *usecases.Session {
	session := usecases.NewSession(a.form, a.repository, usecases.WithSettings(a.settings))
	logger.Debug("session started", "session_id", session.ID())
	return session
}

func fail(cmd *cobra.Command, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	logger.Debug("command failed", "command", cmd.Name(), logger.Err(err))
	return err
}
