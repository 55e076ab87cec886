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

	"github.com/recalls/recalls/pkg/server/ai"
	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/presenters"
)

// NewAI creates a new AI controller
func NewAI(app *app.App, sets *Sets) *AI {
	return &AI{
		app:  app,
		sets: sets,
	}
}

// AI is a controller for the AI-assisted generation endpoints
type AI struct {
	app  *app.App
	sets *Sets
}

func (a *AI) completer(w http.ResponseWriter) (ai.Completer, bool) {
	if a.app.AI == nil {
		handleJSONError(w, app.ErrAINotConfigured, "completing request")
		return nil, false
	}

	return a.app.AI, true
}

type inferencePayload struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}

// Inference handles POST /api/sets/inference. It generates flashcards from
// free-form notes and persists them as a new ownerless set.
func (a *AI) Inference(w http.ResponseWriter, r *http.Request) {
	completer, ok := a.completer(w)
	if !ok {
		return
	}

	var payload inferencePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if payload.Title == "" {
		handleJSONError(w, app.ErrTitleRequired, "generating flashcards")
		return
	}
	if payload.Notes == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "notes are required"})
		return
	}

	cards, err := ai.GenerateFlashcards(r.Context(), completer, payload.Notes)
	if err != nil {
		handleJSONError(w, err, "generating flashcards")
		return
	}

	params := app.CreateSetParams{
		Title:  payload.Title,
		Public: true,
	}
	for _, card := range cards {
		params.Flashcards = append(params.Flashcards, app.FlashcardParams{
			Term:       card.Term,
			Definition: card.Definition,
		})
	}

	set, err := a.app.CreateSet(nil, params)
	if err != nil {
		handleJSONError(w, err, "creating set")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentSet(set))
}

type inferenceFlashcardsPayload struct {
	Notes string `json:"notes"`
}

// InferenceFlashcards handles POST /api/sets/inference/flashcards. It
// returns the model's raw output without persisting anything.
func (a *AI) InferenceFlashcards(w http.ResponseWriter, r *http.Request) {
	completer, ok := a.completer(w)
	if !ok {
		return
	}

	var payload inferenceFlashcardsPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if payload.Notes == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "notes are required"})
		return
	}

	output, err := ai.GenerateFlashcardsRaw(r.Context(), completer, payload.Notes)
	if err != nil {
		handleJSONError(w, err, "generating flashcards")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"output": output})
}

// pairs collects the set's complete cards as generation context
func pairs(set database.FlashcardSet) []ai.Pair {
	ret := []ai.Pair{}
	for _, card := range set.Flashcards {
		if card.Term == "" || card.Definition == "" {
			continue
		}
		ret = append(ret, ai.Pair{Term: card.Term, Definition: card.Definition})
	}

	return ret
}

type completionPayload struct {
	Term string `json:"term"`
}

// Completion handles POST /api/sets/{setUUID}/completion. It writes a
// definition for the term, styled on the set's existing cards.
func (a *AI) Completion(w http.ResponseWriter, r *http.Request) {
	completer, ok := a.completer(w)
	if !ok {
		return
	}

	set, ok := a.sets.getSet(w, r)
	if !ok {
		return
	}

	var payload completionPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if payload.Term == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "term is required"})
		return
	}

	definition, err := ai.CompleteDefinition(r.Context(), completer, payload.Term, pairs(set))
	if err != nil {
		handleJSONError(w, err, "completing definition")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"definition": definition})
}

// Worksheet handles GET /api/sets/{setUUID}/worksheet. It responds with
// the generated worksheet JSON as-is.
func (a *AI) Worksheet(w http.ResponseWriter, r *http.Request) {
	completer, ok := a.completer(w)
	if !ok {
		return
	}

	set, ok := a.sets.getSet(w, r)
	if !ok {
		return
	}

	output, err := ai.GenerateWorksheet(r.Context(), completer, set.Title, pairs(set))
	if err != nil {
		handleJSONError(w, err, "generating worksheet")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(output))
}
