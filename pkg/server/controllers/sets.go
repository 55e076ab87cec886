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

	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/context"
	"github.com/recalls/recalls/pkg/server/database"
	mw "github.com/recalls/recalls/pkg/server/middleware"
	"github.com/recalls/recalls/pkg/server/operations"
	"github.com/recalls/recalls/pkg/server/presenters"
)

// NewSets creates a new Sets controller
func NewSets(app *app.App) *Sets {
	return &Sets{
		app: app,
	}
}

// Sets is a flashcard set controller
type Sets struct {
	app *app.App
}

// getSet loads the set in the route variables, enforcing view access
func (s *Sets) getSet(w http.ResponseWriter, r *http.Request) (database.FlashcardSet, bool) {
	user := context.User(r.Context())
	vars := mux.Vars(r)

	set, ok, err := operations.GetSet(s.app.DB, vars["setUUID"], user)
	if err != nil {
		handleJSONError(w, err, "finding set")
		return set, false
	}
	if !ok {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return set, false
	}

	return set, true
}

// getOwnedSet loads the set in the route variables, enforcing ownership
func (s *Sets) getOwnedSet(w http.ResponseWriter, r *http.Request) (database.FlashcardSet, bool) {
	user := context.User(r.Context())
	vars := mux.Vars(r)

	set, ok, err := operations.GetOwnedSet(s.app.DB, vars["setUUID"], user)
	if err != nil {
		handleJSONError(w, err, "finding set")
		return set, false
	}
	if !ok {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return set, false
	}

	return set, true
}

// Index handles GET /api/sets
func (s *Sets) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	setType := r.URL.Query().Get("type")
	if setType == "" {
		setType = database.SetTypeAll
	}

	sets, err := s.app.GetSets(user, setType)
	if err != nil {
		handleJSONError(w, err, "getting sets")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentSets(sets))
}

type createSetPayload struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Labels      []string              `json:"labels"`
	Public      bool                  `json:"public"`
	Flashcards  []flashcardPayload    `json:"flashcards"`
}

type flashcardPayload struct {
	UUID       string `json:"uuid"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

func flashcardParams(cards []flashcardPayload) []app.FlashcardParams {
	ret := []app.FlashcardParams{}
	for _, card := range cards {
		ret = append(ret, app.FlashcardParams{
			UUID:       card.UUID,
			Term:       card.Term,
			Definition: card.Definition,
		})
	}

	return ret
}

// Create handles POST /api/sets
func (s *Sets) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var payload createSetPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	set, err := s.app.CreateSet(user, app.CreateSetParams{
		Title:       payload.Title,
		Description: payload.Description,
		Labels:      payload.Labels,
		Public:      payload.Public,
		Flashcards:  flashcardParams(payload.Flashcards),
	})
	if err != nil {
		handleJSONError(w, err, "creating set")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentSet(set))
}

// presentSetForViewer annotates the set presentation with the per-viewer
// fields
func (s *Sets) presentSetForViewer(set database.FlashcardSet, user *database.User) (presenters.Set, error) {
	ret := presenters.PresentSet(set)

	avg, _, err := s.app.GetAverageRating(set)
	if err != nil {
		return ret, err
	}
	ret.AverageRating = avg

	if user != nil {
		rating, err := s.app.GetUserRating(set, *user)
		if err != nil {
			return ret, err
		}
		ret.UserRating = rating

		studying, err := s.app.IsStudying(set, *user)
		if err != nil {
			return ret, err
		}
		ret.Studying = studying

		if set.OwnerID != nil && *set.OwnerID == user.ID {
			sharedUsers, err := s.app.GetSharedUsers(set)
			if err != nil {
				return ret, err
			}
			ret.SharedWith = presenters.PresentSetUsers(sharedUsers)
		}
	}

	return ret, nil
}

// Show handles GET /api/sets/{setUUID}
func (s *Sets) Show(w http.ResponseWriter, r *http.Request) {
	set, ok := s.getSet(w, r)
	if !ok {
		return
	}

	// ownerless sets are embeddable from anywhere
	if set.OwnerID == nil {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}

	user := context.User(r.Context())
	payload, err := s.presentSetForViewer(set, user)
	if err != nil {
		handleJSONError(w, err, "presenting set")
		return
	}

	respondJSON(w, http.StatusOK, payload)
}

type updateSetPayload struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Labels      []string `json:"labels"`
	Public      *bool    `json:"public"`
}

// Update handles PUT /api/sets/{setUUID}
func (s *Sets) Update(w http.ResponseWriter, r *http.Request) {
	set, ok := s.getOwnedSet(w, r)
	if !ok {
		return
	}

	var payload updateSetPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	updated, err := s.app.UpdateSet(set, app.UpdateSetParams{
		Title:       payload.Title,
		Description: payload.Description,
		Labels:      payload.Labels,
		Public:      payload.Public,
	})
	if err != nil {
		handleJSONError(w, err, "updating set")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentSet(updated))
}

// Delete handles DELETE /api/sets/{setUUID}
func (s *Sets) Delete(w http.ResponseWriter, r *http.Request) {
	set, ok := s.getOwnedSet(w, r)
	if !ok {
		return
	}

	if err := s.app.DeleteSet(set); err != nil {
		handleJSONError(w, err, "deleting set")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ShowOptions handles OPTIONS /api/sets/{setUUID}
func (s *Sets) ShowOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	w.WriteHeader(http.StatusOK)
}

type sharePayload struct {
	Email string `schema:"email" json:"email"`
}

// Share handles POST /api/sets/{setUUID}/share
func (s *Sets) Share(w http.ResponseWriter, r *http.Request) {
	set, ok := s.getOwnedSet(w, r)
	if !ok {
		return
	}

	var payload sharePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if payload.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "sharing set")
		return
	}

	user := context.User(r.Context())
	if err := s.app.ShareSet(set, *user, payload.Email); err != nil {
		handleJSONError(w, err, "sharing set")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unshare handles DELETE /api/sets/{setUUID}/share
func (s *Sets) Unshare(w http.ResponseWriter, r *http.Request) {
	set, ok := s.getOwnedSet(w, r)
	if !ok {
		return
	}

	var payload sharePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if payload.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "unsharing set")
		return
	}

	if err := s.app.UnshareSet(set, payload.Email); err != nil {
		handleJSONError(w, err, "unsharing set")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type ratePayload struct {
	Rating int `schema:"rating" json:"rating"`
}

// Rate handles POST /api/sets/{setUUID}/rating
func (s *Sets) Rate(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	set, ok := s.getSet(w, r)
	if !ok {
		return
	}

	var payload ratePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if _, err := s.app.RateSet(set, *user, payload.Rating); err != nil {
		handleJSONError(w, err, "rating set")
		return
	}

	avg, count, err := s.app.GetAverageRating(set)
	if err != nil {
		handleJSONError(w, err, "getting average rating")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"average_rating": avg,
		"rating_count":   count,
	})
}

// StartStudying handles POST /api/sets/{setUUID}/studying
func (s *Sets) StartStudying(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	set, ok := s.getSet(w, r)
	if !ok {
		return
	}

	if err := s.app.SetStudying(set, *user); err != nil {
		handleJSONError(w, err, "marking set as studying")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StopStudying handles DELETE /api/sets/{setUUID}/studying
func (s *Sets) StopStudying(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	set, ok := s.getSet(w, r)
	if !ok {
		return
	}

	if err := s.app.UnsetStudying(set, *user); err != nil {
		handleJSONError(w, err, "unmarking set as studying")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
