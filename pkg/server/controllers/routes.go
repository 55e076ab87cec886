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

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/recalls/recalls/pkg/server/app"
	mw "github.com/recalls/recalls/pkg/server/middleware"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// corsOpen makes the handler callable from any origin. It is used for the
// inference endpoints, which serve embeddable, ownerless sets.
func corsOpen(h http.HandlerFunc) http.HandlerFunc {
	return cors.AllowAll().Handler(h).ServeHTTP
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	ret := []Route{
		{"GET", "/verify-email", c.Users.VerifyEmail, true},
		{"POST", "/resend-verification", c.Users.ResendVerification, true},
		{"POST", "/signin", c.Users.Login, true},
		{"POST", "/signout", c.Users.Logout, true},
		{"GET", "/me", mw.Auth(a.DB, c.Users.Me), true},
		{"DELETE", "/account", mw.Auth(a.DB, c.Users.DeleteAccount), true},

		// inference routes are registered ahead of the set routes so that
		// "inference" is not captured as a set uuid
		{"POST", "/sets/inference", corsOpen(c.AI.Inference), true},
		{"OPTIONS", "/sets/inference", corsOpen(c.AI.Inference), true},
		{"POST", "/sets/inference/flashcards", corsOpen(c.AI.InferenceFlashcards), true},

		{"GET", "/sets", mw.Optional(a.DB, c.Sets.Index), true},
		{"POST", "/sets", mw.Auth(a.DB, c.Sets.Create), true},
		{"GET", "/sets/{setUUID}", mw.Optional(a.DB, c.Sets.Show), true},
		{"PUT", "/sets/{setUUID}", mw.Auth(a.DB, c.Sets.Update), true},
		{"DELETE", "/sets/{setUUID}", mw.Auth(a.DB, c.Sets.Delete), true},
		{"OPTIONS", "/sets/{setUUID}", c.Sets.ShowOptions, true},

		{"GET", "/sets/{setUUID}/flashcards", mw.Optional(a.DB, c.Flashcards.Index), true},
		{"PUT", "/sets/{setUUID}/flashcards", mw.Auth(a.DB, c.Flashcards.Save), true},

		{"POST", "/sets/{setUUID}/share", mw.Auth(a.DB, c.Sets.Share), true},
		{"DELETE", "/sets/{setUUID}/share", mw.Auth(a.DB, c.Sets.Unshare), true},
		{"POST", "/sets/{setUUID}/rating", mw.Auth(a.DB, c.Sets.Rate), true},
		{"POST", "/sets/{setUUID}/studying", mw.Auth(a.DB, c.Sets.StartStudying), true},
		{"DELETE", "/sets/{setUUID}/studying", mw.Auth(a.DB, c.Sets.StopStudying), true},

		{"POST", "/sets/{setUUID}/study/session", mw.Auth(a.DB, c.Study.CreateSession), true},
		{"PATCH", "/sets/{setUUID}/study/session/{sessionUUID}", mw.Auth(a.DB, c.Study.CompleteSession), true},
		{"POST", "/sets/{setUUID}/study/session/{sessionUUID}/results", mw.Auth(a.DB, c.Study.RecordResult), false},
		{"GET", "/sets/{setUUID}/study/results", mw.Auth(a.DB, c.Study.Results), true},
		{"POST", "/sets/{setUUID}/study/results", mw.Auth(a.DB, c.Study.ImportResults), true},

		{"POST", "/sets/{setUUID}/completion", mw.Optional(a.DB, c.AI.Completion), true},
		{"GET", "/sets/{setUUID}/worksheet", mw.Optional(a.DB, c.AI.Worksheet), true},

		{"POST", "/sets/{setUUID}/flashcards/{flashcardUUID}/lock", mw.Auth(a.DB, c.Locks.Acquire), false},
		{"DELETE", "/sets/{setUUID}/flashcards/{flashcardUUID}/lock", mw.Auth(a.DB, c.Locks.Release), false},
		{"GET", "/sets/{setUUID}/locks", mw.Auth(a.DB, c.Locks.Index), false},

		{"GET", "/tags/trending", c.Tags.Trending, true},
		{"GET", "/dashboard", mw.Auth(a.DB, c.Dashboard.Index), true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/register", c.Users.Register, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	router.HandleFunc("/health", rc.Controllers.Health.Index).Methods("GET")

	router.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /"))
	})

	return mw.Global(router), nil
}
