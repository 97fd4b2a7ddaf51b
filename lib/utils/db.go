package utils

import (
	"github.com/slidedeck/slidedeck-go/lib/db"
	"github.com/slidedeck/slidedeck-go/lib/settings"
	"go.uber.org/zap"
)

// GetDB opens the snapshot store the settings ask for.
func GetDB(retrievedSettings *settings.Settings, logger *zap.SugaredLogger) (db.SnapshotStore, error) {
	switch retrievedSettings.DBType {
	case settings.SQLITE:
		logger.Info("Using SQLite datastore at " + retrievedSettings.DBSettings.Filename)
		return db.NewSQLiteDB(retrievedSettings.DBSettings.Filename)
	case settings.POSTGRES:
		logger.Info("Using Postgres datastore at " + retrievedSettings.DBSettings.Host)
		return db.NewPostgresDB(db.PostgresOptions{
			Username: retrievedSettings.DBSettings.User,
			Password: retrievedSettings.DBSettings.Password,
			Host:     retrievedSettings.DBSettings.Host,
			Port:     retrievedSettings.DBSettings.Port,
			Database: retrievedSettings.DBSettings.Database,
		})
	default:
		logger.Info("Using in-memory datastore, decks will not survive a restart")
		return db.NewMemoryDataStore(), nil
	}
}
