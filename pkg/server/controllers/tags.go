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

	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/presenters"
)

// NewTags creates a new Tags controller
func NewTags(app *app.App) *Tags {
	return &Tags{
		app: app,
	}
}

// Tags is a tag controller
type Tags struct {
	app *app.App
}

// Trending handles GET /api/tags/trending
func (t *Tags) Trending(w http.ResponseWriter, r *http.Request) {
	tags, err := t.app.TrendingTags()
	if err != nil {
		handleJSONError(w, err, "getting trending tags")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentTags(tags))
}
