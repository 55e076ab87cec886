/* Copyright 2025 Recalls Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/server/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverSQLite is the name of the SQLite driver
	DriverSQLite = "sqlite"
	// DriverPostgres is the name of the Postgres driver
	DriverPostgres = "postgres"
)

var (
	// MigrationTableName is the name of the table that keeps track of migrations
	MigrationTableName = "migrations"

	// ErrUnknownDriver is an error for an unsupported database driver name
	ErrUnknownDriver = errors.New("unknown database driver")
)

// Options describes how to connect to the database
type Options struct {
	// Driver is either "sqlite" or "postgres"
	Driver string
	// Path is the SQLite database file path
	Path string
	// URL is the Postgres connection string
	URL string
}

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&FlashcardSet{},
		&Flashcard{},
		&SharedSet{},
		&StudyingSet{},
		&Rating{},
		&StudySession{},
		&StudyResult{},
		&Notification{},
		&Token{},
		&Session{},
	); err != nil {
		panic(err)
	}
}

// getDBLogLevel maps the application log level to a gorm logger level
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

// Open initializes the database connection
func Open(opts Options, logLevel string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(logLevel)),
	}

	switch opts.Driver {
	case DriverSQLite, "":
		dir := filepath.Dir(opts.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating database directory at %s", dir)
		}

		db, err := gorm.Open(sqlite.Open(opts.Path), gormCfg)
		if err != nil {
			return nil, errors.Wrap(err, "opening sqlite database")
		}

		return db, nil
	case DriverPostgres:
		db, err := gorm.Open(postgres.Open(opts.URL), gormCfg)
		if err != nil {
			return nil, errors.Wrap(err, "opening postgres database")
		}

		return db, nil
	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "'%s'", opts.Driver)
	}
}
