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

package controllers

import (
	"net/http"

	pkgErrors "github.com/pkg/errors"

	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/context"
	mw "github.com/recalls/recalls/pkg/server/middleware"
	"github.com/recalls/recalls/pkg/server/presenters"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{
		app: app,
	}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// RegistrationForm is the form data for registering
type RegistrationForm struct {
	Name     string `schema:"name" json:"name"`
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

// Register handles POST /api/register
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	if u.app.DisableRegistration {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "registration is disabled"})
		return
	}

	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(form.Name, form.Email, form.Password)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentUser(user))
}

// VerifyEmail handles GET /api/verify-email
func (u *Users) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	tokenValue := r.URL.Query().Get("token")

	user, err := u.app.VerifyEmail(tokenValue)
	if err != nil {
		handleJSONError(w, err, "verifying email")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(user))
}

type resendVerificationPayload struct {
	Email string `schema:"email" json:"email"`
}

// ResendVerification handles POST /api/resend-verification
func (u *Users) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var form resendVerificationPayload
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "resending verification email")
		return
	}

	if err := u.app.ResendVerificationEmail(form.Email); err != nil {
		handleJSONError(w, err, "resending verification email")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LoginForm is the form data for log in
type LoginForm struct {
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

// Login handles POST /api/signin
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "logging in user")
		return
	}
	if form.Password == "" {
		handleJSONError(w, app.ErrPasswordRequired, "logging in user")
		return
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		// If the user is not found, treat it as invalid login
		if err == app.ErrNotFound {
			err = app.ErrLoginInvalid
		}

		handleJSONError(w, err, "logging in user")
		return
	}

	session, err := u.app.SignIn(user)
	if err != nil {
		handleJSONError(w, err, "signing in user")
		return
	}

	respondWithSession(w, http.StatusOK, session)
}

func (u *Users) logout(r *http.Request) (bool, error) {
	key, err := mw.GetCredential(r)
	if err != nil {
		return false, pkgErrors.Wrap(err, "getting credentials")
	}

	if key == "" {
		return false, nil
	}

	if err = u.app.DeleteSession(key); err != nil {
		return false, pkgErrors.Wrap(err, "deleting session")
	}

	return true, nil
}

// Logout handles POST /api/signout
func (u *Users) Logout(w http.ResponseWriter, r *http.Request) {
	ok, err := u.logout(r)
	if err != nil {
		handleJSONError(w, err, "logging out")
		return
	}

	if ok {
		unsetSessionCookie(w)
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount handles DELETE /api/account
func (u *Users) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	if err := u.app.DeleteAccount(*user); err != nil {
		handleJSONError(w, err, "deleting account")
		return
	}

	unsetSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(*user))
}
