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
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/recalls/recalls/pkg/prompt"
	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/config"
	"github.com/recalls/recalls/pkg/server/database"
)

var userFlags struct {
	email    string
	name     string
	password string
	dbDriver string
	dbPath   string
	dbURL    string
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user with a verified email address",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := userApp()
		if err != nil {
			return err
		}
		defer closeDB(a.DB)

		return createUser(&a, userFlags.name, userFlags.email, userFlags.password, cmd.OutOrStdout())
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := userApp()
		if err != nil {
			return err
		}
		defer closeDB(a.DB)

		return listUsers(a.DB, cmd.OutOrStdout())
	},
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a user and everything the user owns",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := userApp()
		if err != nil {
			return err
		}
		defer closeDB(a.DB)

		return removeUser(&a, userFlags.email, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	pf := userCmd.PersistentFlags()
	pf.StringVar(&userFlags.dbDriver, "dbDriver", "", "Database driver: sqlite or postgres (env: DBDriver, default: sqlite)")
	pf.StringVar(&userFlags.dbPath, "dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/recalls/server.db)")
	pf.StringVar(&userFlags.dbURL, "databaseUrl", "", "Postgres connection string (env: DATABASE_URL)")

	userCreateCmd.Flags().StringVar(&userFlags.name, "name", "", "User name (required)")
	userCreateCmd.Flags().StringVar(&userFlags.email, "email", "", "User email address (required)")
	userCreateCmd.Flags().StringVar(&userFlags.password, "password", "", "User password (required)")
	userCreateCmd.MarkFlagRequired("name")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("password")

	userRemoveCmd.Flags().StringVar(&userFlags.email, "email", "", "User email address (required)")
	userRemoveCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userRemoveCmd)
	rootCmd.AddCommand(userCmd)
}

func userApp() (app.App, error) {
	cfg, err := config.New(config.Params{
		DBDriver:    userFlags.dbDriver,
		DBPath:      userFlags.dbPath,
		DatabaseURL: userFlags.dbURL,
	})
	if err != nil {
		return app.App{}, err
	}

	return initApp(cfg)
}

// createUser registers a user from the command line. Accounts created this
// way skip email verification.
func createUser(a *app.App, name, email, password string, out io.Writer) error {
	user, err := a.CreateUser(name, email, password)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	now := a.Clock.Now()
	if err := a.DB.Model(&user).Update("email_verified_at", &now).Error; err != nil {
		return errors.Wrap(err, "marking email verified")
	}

	fmt.Fprintf(out, "Created user %s\n", color.GreenString(email))

	return nil
}

func listUsers(db *gorm.DB, out io.Writer) error {
	var users []database.User
	if err := db.Order("id ASC").Find(&users).Error; err != nil {
		return errors.Wrap(err, "finding users")
	}

	bold := color.New(color.Bold)
	bold.Fprintf(out, "%-40s %-24s %-10s %s\n", "EMAIL", "NAME", "VERIFIED", "CREATED")

	for _, user := range users {
		verified := color.RedString("no")
		if user.EmailVerified() {
			verified = color.GreenString("yes")
		}

		fmt.Fprintf(out, "%-40s %-24s %-10s %s\n", user.Email.String, user.Name, verified, user.CreatedAt.Format("2006-01-02"))
	}

	fmt.Fprintf(out, "\n%d user(s)\n", len(users))

	return nil
}

func removeUser(a *app.App, email string, stdin io.Reader, out io.Writer) error {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Errorf("user with email %s not found", email)
	} else if err != nil {
		return errors.Wrap(err, "finding user")
	}

	fmt.Fprintf(out, "%s ", prompt.FormatQuestion(fmt.Sprintf("Remove user %s and all of their data?", email), false))
	confirmed, err := prompt.ReadYesNo(stdin, false)
	if err != nil {
		return errors.Wrap(err, "reading confirmation")
	}
	if !confirmed {
		fmt.Fprintln(out, "Aborted")
		return nil
	}

	if err := a.DeleteAccount(user); err != nil {
		return errors.Wrap(err, "removing user")
	}

	fmt.Fprintf(out, "Removed user %s\n", color.GreenString(email))

	return nil
}
