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
	mw "github.com/recalls/recalls/pkg/server/middleware"
	"github.com/recalls/recalls/pkg/server/presence"
)

// NewLocks creates a new Locks controller
func NewLocks(app *app.App, sets *Sets) *Locks {
	return &Locks{
		app:  app,
		sets: sets,
	}
}

// Locks is a controller for advisory flashcard edit locks. Locks signal
// that someone is editing a card; they expire on their own and never block
// a write.
type Locks struct {
	app  *app.App
	sets *Sets
}

// Acquire handles POST /api/sets/{setUUID}/flashcards/{flashcardUUID}/lock
func (l *Locks) Acquire(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	set, ok := l.sets.getSet(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	lock, ok := l.app.Locks.Acquire(set.UUID, vars["flashcardUUID"], user.UUID, user.Name)
	if !ok {
		respondJSON(w, http.StatusConflict, lock)
		return
	}

	respondJSON(w, http.StatusOK, lock)
}

// Release handles DELETE /api/sets/{setUUID}/flashcards/{flashcardUUID}/lock
func (l *Locks) Release(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	if _, ok := l.sets.getSet(w, r); !ok {
		return
	}

	vars := mux.Vars(r)
	l.app.Locks.Release(vars["flashcardUUID"], user.UUID)

	w.WriteHeader(http.StatusNoContent)
}

// Index handles GET /api/sets/{setUUID}/locks
func (l *Locks) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	set, ok := l.sets.getSet(w, r)
	if !ok {
		return
	}

	locks := l.app.Locks.ListBySet(set.UUID)
	if locks == nil {
		locks = []presence.Lock{}
	}

	respondJSON(w, http.StatusOK, locks)
}
