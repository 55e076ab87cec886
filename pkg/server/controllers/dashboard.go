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

	"github.com/recalls/recalls/pkg/server/achievements"
	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/context"
	"github.com/recalls/recalls/pkg/server/dashboard"
	"github.com/recalls/recalls/pkg/server/log"
	mw "github.com/recalls/recalls/pkg/server/middleware"
	"github.com/recalls/recalls/pkg/server/presenters"
)

// NewDashboard creates a new Dashboard controller
func NewDashboard(app *app.App) *Dashboard {
	return &Dashboard{
		app: app,
	}
}

// Dashboard is a dashboard controller
type Dashboard struct {
	app *app.App
}

// Index handles GET /api/dashboard
func (d *Dashboard) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	stats, err := dashboard.GetStats(d.app.DB, d.app.Clock, *user)
	if err != nil {
		handleJSONError(w, err, "getting dashboard stats")
		return
	}

	unlocked, err := achievements.Evaluate(d.app.DB, user, stats)
	if err != nil {
		// achievements are best-effort; the stats are still served
		log.ErrorWrap(err, "evaluating achievements")
	}

	respondJSON(w, http.StatusOK, presenters.PresentDashboard(stats, user.Achievements, unlocked))
}
