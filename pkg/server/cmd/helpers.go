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

package cmd

import (
	"github.com/pkg/errors"

	"github.com/recalls/recalls/pkg/clock"
	"github.com/recalls/recalls/pkg/server/ai"
	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/config"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/log"
	"github.com/recalls/recalls/pkg/server/mailer"
	"github.com/recalls/recalls/pkg/server/presence"
	"gorm.io/gorm"
)

func initDB(cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DBOptions(), cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

func getEmailBackend(cfg config.Config) mailer.Backend {
	backend, err := mailer.NewDefaultBackend(cfg.IsProd())
	if err != nil {
		log.Debug("SMTP not configured, printing emails to stdout")
		return mailer.NewStdoutBackend()
	}

	log.Debug("Email backend configured")
	return backend
}

func initApp(cfg config.Config) (app.App, error) {
	db, err := initDB(cfg)
	if err != nil {
		return app.App{}, err
	}

	c := clock.New()

	a := app.App{
		DB:                  db,
		Clock:               c,
		EmailTemplates:      mailer.NewTemplates(),
		EmailBackend:        getEmailBackend(cfg),
		Locks:               presence.NewRegistry(c),
		AppEnv:              cfg.AppEnv,
		WebURL:              cfg.WebURL,
		Port:                cfg.Port,
		DisableRegistration: cfg.DisableRegistration,
	}

	if cfg.AI.Configured() {
		a.AI = ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)
		log.Info("AI completion client configured")
	}

	return a, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}
