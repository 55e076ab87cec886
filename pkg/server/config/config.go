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

package config

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/dirs"
	"github.com/recalls/recalls/pkg/server/database"
	"gopkg.in/yaml.v2"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBDir is the default directory name for Recalls data
	DefaultDBDir = "recalls"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDBDir, DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrDBMissingURL is an error for a postgres configuration missing the connection string
	ErrDBMissingURL = errors.New("Database URL is empty")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
)

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// AIConfig is the configuration for the AI completion client
type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Configured checks whether the AI client can be constructed
func (c AIConfig) Configured() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	WebURL              string
	DisableRegistration bool
	Port                string
	DBDriver            string
	DBPath              string
	DatabaseURL         string
	LogLevel            string
	AI                  AIConfig
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv              string
	Port                string
	WebURL              string
	DBDriver            string
	DBPath              string
	DatabaseURL         string
	DisableRegistration bool
	LogLevel            string
	AIBaseURL           string
	AIAPIKey            string
	AIModel             string
	ConfigFile          string
}

// fileParams mirrors Params for the optional YAML configuration file
type fileParams struct {
	AppEnv              string `yaml:"appEnv"`
	Port                string `yaml:"port"`
	WebURL              string `yaml:"webUrl"`
	DBDriver            string `yaml:"dbDriver"`
	DBPath              string `yaml:"dbPath"`
	DatabaseURL         string `yaml:"databaseUrl"`
	DisableRegistration bool   `yaml:"disableRegistration"`
	LogLevel            string `yaml:"logLevel"`
	AIBaseURL           string `yaml:"aiBaseUrl"`
	AIAPIKey            string `yaml:"aiApiKey"`
	AIModel             string `yaml:"aiModel"`
}

// readConfigFile loads the YAML configuration file and fills in any params
// that were not set through flags
func readConfigFile(p Params) (Params, error) {
	if p.ConfigFile == "" {
		return p, nil
	}

	data, err := os.ReadFile(p.ConfigFile)
	if err != nil {
		return p, errors.Wrapf(err, "reading config file %s", p.ConfigFile)
	}

	var f fileParams
	if err := yaml.Unmarshal(data, &f); err != nil {
		return p, errors.Wrapf(err, "parsing config file %s", p.ConfigFile)
	}

	if p.AppEnv == "" {
		p.AppEnv = f.AppEnv
	}
	if p.Port == "" {
		p.Port = f.Port
	}
	if p.WebURL == "" {
		p.WebURL = f.WebURL
	}
	if p.DBDriver == "" {
		p.DBDriver = f.DBDriver
	}
	if p.DBPath == "" {
		p.DBPath = f.DBPath
	}
	if p.DatabaseURL == "" {
		p.DatabaseURL = f.DatabaseURL
	}
	if p.LogLevel == "" {
		p.LogLevel = f.LogLevel
	}
	if p.AIBaseURL == "" {
		p.AIBaseURL = f.AIBaseURL
	}
	if p.AIAPIKey == "" {
		p.AIAPIKey = f.AIAPIKey
	}
	if p.AIModel == "" {
		p.AIModel = f.AIModel
	}
	p.DisableRegistration = p.DisableRegistration || f.DisableRegistration

	return p, nil
}

// New constructs and returns a new validated config.
// Empty string params will fall back to the config file, environment
// variables, and defaults, in that order.
func New(p Params) (Config, error) {
	p, err := readConfigFile(p)
	if err != nil {
		return Config{}, err
	}

	c := Config{
		AppEnv:              getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:                getOrEnv(p.Port, "PORT", "3001"),
		WebURL:              getOrEnv(p.WebURL, "WebURL", "http://localhost:3001"),
		DBDriver:            getOrEnv(p.DBDriver, "DBDriver", database.DriverSQLite),
		DBPath:              getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		DatabaseURL:         getOrEnv(p.DatabaseURL, "DATABASE_URL", ""),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration"),
		LogLevel:            getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
		AI: AIConfig{
			BaseURL: getOrEnv(p.AIBaseURL, "AIBaseURL", ""),
			APIKey:  getOrEnv(p.AIAPIKey, "AIAPIKey", ""),
			Model:   getOrEnv(p.AIModel, "AIModel", "command-r"),
		},
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// DBOptions returns the database connection options for the config
func (c Config) DBOptions() database.Options {
	return database.Options{
		Driver: c.DBDriver,
		Path:   c.DBPath,
		URL:    c.DatabaseURL,
	}
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}

	if c.DBDriver == database.DriverPostgres {
		if c.DatabaseURL == "" {
			return ErrDBMissingURL
		}
		return nil
	}

	if c.DBPath == "" {
		return ErrDBMissingPath
	}

	return nil
}
