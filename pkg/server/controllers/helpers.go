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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/schema"
	pkgErrors "github.com/pkg/errors"

	"github.com/recalls/recalls/pkg/server/ai"
	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/log"
	"github.com/recalls/recalls/pkg/server/presenters"
)

// sessionCookieName is the name of the cookie that holds the session key
const sessionCookieName = "id"

var formDecoder = schema.NewDecoder()

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return pkgErrors.Wrap(err, "parsing form")
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return pkgErrors.Wrap(err, "decoding form")
	}

	return nil
}

func parseJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return pkgErrors.Wrap(err, "decoding json")
	}

	return nil
}

// parseRequestData parses the request payload into the given struct based
// on the content type of the request
func parseRequestData(r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "application/json") {
		return parseJSON(r, dst)
	}

	return parseForm(r, dst)
}

// respondJSON writes the given payload as a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// getStatusCode returns the status code for the given application error
func getStatusCode(err error) int {
	cause := pkgErrors.Cause(err)

	switch cause {
	case app.ErrNotFound:
		return http.StatusNotFound
	case app.ErrLoginInvalid,
		app.ErrNotAllowed,
		app.ErrEmailNotVerified:
		return http.StatusUnauthorized
	case app.ErrEmailRequired,
		app.ErrNameRequired,
		app.ErrPasswordRequired,
		app.ErrPasswordTooShort,
		app.ErrDuplicateEmail,
		app.ErrEmailAlreadyVerified,
		app.ErrTokenInvalid,
		app.ErrTokenExpired,
		app.ErrTitleRequired,
		app.ErrRatingInvalid,
		app.ErrEmptyDeck,
		app.ErrSessionCompleted:
		return http.StatusBadRequest
	case app.ErrAINotConfigured:
		return http.StatusServiceUnavailable
	}

	var parseErr *ai.ParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// handleJSONError logs the error and responds with an error message
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := getStatusCode(err)

	var respMsg string
	if statusCode == http.StatusInternalServerError {
		log.ErrorWrap(err, msg)
		respMsg = msg
	} else {
		respMsg = fmt.Sprintf("%s: %s", msg, pkgErrors.Cause(err).Error())
	}

	respondJSON(w, statusCode, errorResponse{Error: respMsg})
}

func setSessionCookie(w http.ResponseWriter, key string, expires time.Time) {
	cookie := http.Cookie{
		Name:     sessionCookieName,
		Value:    key,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.SetCookie(w, &cookie)
}

func unsetSessionCookie(w http.ResponseWriter) {
	expire := time.Now().Add(time.Hour * -24 * 30)
	cookie := http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  expire,
		Path:     "/",
		HttpOnly: true,
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.SetCookie(w, &cookie)
}

// respondWithSession sets the session cookie and responds with the session
// in the body for clients that use the authorization header
func respondWithSession(w http.ResponseWriter, statusCode int, session *database.Session) {
	setSessionCookie(w, session.Key, session.ExpiresAt)

	respondJSON(w, statusCode, presenters.PresentSession(*session))
}
