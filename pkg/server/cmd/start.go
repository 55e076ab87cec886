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
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/recalls/recalls/pkg/server/buildinfo"
	"github.com/recalls/recalls/pkg/server/config"
	"github.com/recalls/recalls/pkg/server/controllers"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/jobs"
	"github.com/recalls/recalls/pkg/server/log"
)

var startFlags config.Params

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the server",
	RunE:  runStart,
}

func init() {
	f := startCmd.Flags()
	f.StringVar(&startFlags.AppEnv, "appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	f.StringVar(&startFlags.Port, "port", "", "Server port (env: PORT, default: 3001)")
	f.StringVar(&startFlags.WebURL, "webUrl", "", "Full URL to server without trailing slash (env: WebURL, default: http://localhost:3001)")
	f.StringVar(&startFlags.DBDriver, "dbDriver", "", "Database driver: sqlite or postgres (env: DBDriver, default: sqlite)")
	f.StringVar(&startFlags.DBPath, "dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/recalls/server.db)")
	f.StringVar(&startFlags.DatabaseURL, "databaseUrl", "", "Postgres connection string (env: DATABASE_URL)")
	f.BoolVar(&startFlags.DisableRegistration, "disableRegistration", false, "Disable user registration (env: DisableRegistration, default: false)")
	f.StringVar(&startFlags.LogLevel, "logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	f.StringVar(&startFlags.AIBaseURL, "aiBaseUrl", "", "Base URL of the OpenAI-compatible completion API (env: AIBaseURL)")
	f.StringVar(&startFlags.AIAPIKey, "aiApiKey", "", "API key for the completion API (env: AIAPIKey)")
	f.StringVar(&startFlags.AIModel, "aiModel", "", "Model name for the completion API (env: AIModel, default: command-r)")
	f.StringVar(&startFlags.ConfigFile, "config", "", "Path to a YAML configuration file")

	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(startFlags)
	if err != nil {
		return err
	}

	log.SetLevel(cfg.LogLevel)

	a, err := initApp(cfg)
	if err != nil {
		return err
	}
	defer closeDB(a.DB)

	if cfg.DBDriver == database.DriverSQLite {
		// Keep the WAL file bounded and reclaim space periodically
		database.StartWALCheckpointing(a.DB, 5*time.Minute)
		database.StartPeriodicVacuum(a.DB, 24*time.Hour)
	}

	runner := jobs.NewRunner(a.DB, a.Clock, a.Locks)
	if err := runner.Start(); err != nil {
		return errors.Wrap(err, "starting background jobs")
	}
	defer runner.Stop()

	ctl := controllers.New(&a)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&a, rc)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
	}).Info("Recalls server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		return errors.Wrap(err, "running server")
	}

	return nil
}
