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

package presenters

import (
	"encoding/json"
	"time"

	"github.com/recalls/recalls/pkg/server/database"
)

// StudySession is a result of PresentStudySession
type StudySession struct {
	UUID        string          `json:"uuid"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	Options     json.RawMessage `json:"options"`
	Results     []StudyResult   `json:"results"`
}

// StudyResult is a result of PresentStudyResult
type StudyResult struct {
	FlashcardUUID    string              `json:"flashcard_uuid"`
	UserAnswer       string              `json:"user_answer"`
	IsCorrect        bool                `json:"is_correct"`
	Attempts         int                 `json:"attempts"`
	TestTerm         bool                `json:"test_term"`
	IsMultipleChoice bool                `json:"is_multiple_choice"`
	SelectedOption   database.NullString `json:"selected_option"`
	AnsweredAt       time.Time           `json:"answered_at"`
}

// PresentStudyResult presents a study result
func PresentStudyResult(result database.StudyResult) StudyResult {
	return StudyResult{
		FlashcardUUID:    result.Flashcard.UUID,
		UserAnswer:       result.UserAnswer,
		IsCorrect:        result.IsCorrect,
		Attempts:         result.Attempts,
		TestTerm:         result.TestTerm,
		IsMultipleChoice: result.IsMultipleChoice,
		SelectedOption:   result.SelectedOption,
		AnsweredAt:       FormatTS(result.AnsweredAt),
	}
}

// PresentStudySession presents a study session with its results
func PresentStudySession(session database.StudySession) StudySession {
	results := []StudyResult{}
	for _, r := range session.Results {
		results = append(results, PresentStudyResult(r))
	}

	options := json.RawMessage(session.StudyOptions)
	if session.StudyOptions == "" {
		options = json.RawMessage("null")
	}

	ret := StudySession{
		UUID:      session.UUID,
		CreatedAt: FormatTS(session.CreatedAt),
		StartedAt: FormatTS(session.StartedAt),
		Options:   options,
		Results:   results,
	}
	if session.CompletedAt != nil {
		completedAt := FormatTS(*session.CompletedAt)
		ret.CompletedAt = &completedAt
	}

	return ret
}

// PresentStudySessions presents study sessions
func PresentStudySessions(sessions []database.StudySession) []StudySession {
	ret := []StudySession{}

	for _, session := range sessions {
		p := PresentStudySession(session)
		ret = append(ret, p)
	}

	return ret
}
