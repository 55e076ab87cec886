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
	"net/http"

	"github.com/gorilla/mux"

	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/context"
	"github.com/recalls/recalls/pkg/server/database"
	mw "github.com/recalls/recalls/pkg/server/middleware"
	"github.com/recalls/recalls/pkg/server/operations"
	"github.com/recalls/recalls/pkg/server/presenters"
	"github.com/recalls/recalls/pkg/server/study"
)

// sessionHistoryLimit is how many recent sessions the results endpoint returns
const sessionHistoryLimit = 10

// NewStudy creates a new Study controller
func NewStudy(app *app.App, sets *Sets) *Study {
	return &Study{
		app:  app,
		sets: sets,
	}
}

// Study is a study session controller
type Study struct {
	app  *app.App
	sets *Sets
}

// getSession loads the session in the route variables, enforcing ownership
func (s *Study) getSession(w http.ResponseWriter, r *http.Request) (database.StudySession, bool) {
	user := context.User(r.Context())
	vars := mux.Vars(r)

	session, ok, err := operations.GetSession(s.app.DB, vars["sessionUUID"], user)
	if err != nil {
		handleJSONError(w, err, "finding session")
		return session, false
	}
	if !ok {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return session, false
	}

	return session, true
}

type createSessionResponse struct {
	Session   presenters.StudySession `json:"session"`
	Questions []study.Question        `json:"questions"`
}

// CreateSession handles POST /api/sets/{setUUID}/study/session
func (s *Study) CreateSession(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	set, ok := s.sets.getSet(w, r)
	if !ok {
		return
	}

	var opts study.Options
	if err := parseRequestData(r, &opts); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	session, questions, err := s.app.CreateStudySession(*user, set, opts)
	if err != nil {
		handleJSONError(w, err, "creating study session")
		return
	}

	respondJSON(w, http.StatusCreated, createSessionResponse{
		Session:   presenters.PresentStudySession(session),
		Questions: questions,
	})
}

// CompleteSession handles PATCH /api/sets/{setUUID}/study/session/{sessionUUID}
func (s *Study) CompleteSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.getSession(w, r)
	if !ok {
		return
	}

	completed, err := s.app.CompleteStudySession(session)
	if err != nil {
		handleJSONError(w, err, "completing study session")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentStudySession(completed))
}

type recordResultPayload struct {
	FlashcardUUID    string `json:"flashcard_uuid"`
	Answer           string `json:"answer"`
	TestTerm         bool   `json:"test_term"`
	IsMultipleChoice bool   `json:"is_multiple_choice"`
	SelectedOption   string `json:"selected_option"`
	Attempts         int    `json:"attempts"`
}

func (p recordResultPayload) params() app.RecordResultParams {
	return app.RecordResultParams{
		FlashcardUUID:    p.FlashcardUUID,
		Answer:           p.Answer,
		TestTerm:         p.TestTerm,
		IsMultipleChoice: p.IsMultipleChoice,
		SelectedOption:   p.SelectedOption,
		Attempts:         p.Attempts,
	}
}

type recordResultResponse struct {
	Result        presenters.StudyResult `json:"result"`
	CorrectAnswer string                 `json:"correct_answer"`
}

// RecordResult handles POST /api/sets/{setUUID}/study/session/{sessionUUID}/results
func (s *Study) RecordResult(w http.ResponseWriter, r *http.Request) {
	session, ok := s.getSession(w, r)
	if !ok {
		return
	}

	var payload recordResultPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	result, target, err := s.app.RecordStudyResult(session, payload.params())
	if err != nil {
		handleJSONError(w, err, "recording study result")
		return
	}

	respondJSON(w, http.StatusCreated, recordResultResponse{
		Result:        presenters.PresentStudyResult(result),
		CorrectAnswer: target,
	})
}

// Results handles GET /api/sets/{setUUID}/study/results
func (s *Study) Results(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	set, ok := s.sets.getSet(w, r)
	if !ok {
		return
	}

	sessions, err := s.app.GetStudySessions(*user, set, sessionHistoryLimit)
	if err != nil {
		handleJSONError(w, err, "getting study sessions")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentStudySessions(sessions))
}

type importResultsPayload struct {
	StudyOptions json.RawMessage       `json:"study_options"`
	Results      []recordResultPayload `json:"results"`
}

type importResultsResponse struct {
	SessionUUID  string `json:"session_uuid"`
	ResultsCount int    `json:"results_count"`
}

// ImportResults handles POST /api/sets/{setUUID}/study/results. It records
// a whole completed session in one call.
func (s *Study) ImportResults(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	set, ok := s.sets.getSet(w, r)
	if !ok {
		return
	}

	var payload importResultsPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	params := []app.RecordResultParams{}
	for _, p := range payload.Results {
		params = append(params, p.params())
	}

	session, count, err := s.app.ImportStudyResults(*user, set, string(payload.StudyOptions), params)
	if err != nil {
		handleJSONError(w, err, "importing study results")
		return
	}

	respondJSON(w, http.StatusCreated, importResultsResponse{
		SessionUUID:  session.UUID,
		ResultsCount: count,
	})
}
