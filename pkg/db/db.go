// Database bootstrap: sqlite file under the app data dir, gorm on top.
package db

import (
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath returns the sqlite database path under ~/.disha.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get user home dir")
	}
	dir := filepath.Join(home, ".disha")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir %s", dir)
	}
	return filepath.Join(dir, "disha.db"), nil
}

// Open opens the database at path and migrates all tables.
// Pass ":memory:" for an in-memory database (used by tests).
func Open(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	if err := gdb.AutoMigrate(
		&User{},
		&Conversation{},
		&Message{},
		&Goal{},
		&GoalLog{},
		&UserPreference{},
		&Setting{},
	); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}

	return gdb, nil
}
