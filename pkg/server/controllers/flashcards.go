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

// NewFlashcards creates a new Flashcards controller
func NewFlashcards(app *app.App, sets *Sets) *Flashcards {
	return &Flashcards{
		app:  app,
		sets: sets,
	}
}

// Flashcards is a flashcard controller
type Flashcards struct {
	app  *app.App
	sets *Sets
}

// Index handles GET /api/sets/{setUUID}/flashcards
func (f *Flashcards) Index(w http.ResponseWriter, r *http.Request) {
	set, ok := f.sets.getSet(w, r)
	if !ok {
		return
	}

	cards, err := f.app.GetFlashcards(set)
	if err != nil {
		handleJSONError(w, err, "getting flashcards")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentFlashcards(cards))
}

type saveFlashcardsPayload struct {
	Flashcards []flashcardPayload `json:"flashcards"`
}

// Save handles PUT /api/sets/{setUUID}/flashcards. The given flashcards
// replace the set's contents: existing cards are updated in place, new
// cards are appended, and cards absent from the payload are removed.
func (f *Flashcards) Save(w http.ResponseWriter, r *http.Request) {
	set, ok := f.sets.getOwnedSet(w, r)
	if !ok {
		return
	}

	var payload saveFlashcardsPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	cards, err := f.app.SaveFlashcards(set, flashcardParams(payload.Flashcards))
	if err != nil {
		handleJSONError(w, err, "saving flashcards")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentFlashcards(cards))
}
