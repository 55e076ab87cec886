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

package app

import (
	"encoding/json"
	"errors"
	"math/rand"

	pkgErrors "github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/helpers"
	"github.com/recalls/recalls/pkg/server/study"
	"gorm.io/gorm"
)

// CreateStudySession starts a study session over the set with the given
// options and returns the session along with the prepared deck
func (a *App) CreateStudySession(user database.User, set database.FlashcardSet, opts study.Options) (database.StudySession, []study.Question, error) {
	cards, err := a.GetFlashcards(set)
	if err != nil {
		return database.StudySession{}, nil, err
	}

	rng := rand.New(rand.NewSource(a.Clock.Now().UnixNano()))
	deck := study.BuildDeck(cards, opts, rng)
	if deck == nil {
		return database.StudySession{}, nil, ErrEmptyDeck
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.StudySession{}, nil, err
	}

	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return database.StudySession{}, nil, pkgErrors.Wrap(err, "serializing study options")
	}

	session := database.StudySession{
		UUID:           uuid,
		UserID:         user.ID,
		FlashcardSetID: set.ID,
		StartedAt:      a.Clock.Now(),
		StudyOptions:   string(optsJSON),
	}
	if err := a.DB.Create(&session).Error; err != nil {
		return database.StudySession{}, nil, pkgErrors.Wrap(err, "inserting study session")
	}

	return session, deck, nil
}

// GetStudySession returns the study session with the given uuid
func (a *App) GetStudySession(uuid string) (database.StudySession, bool, error) {
	var session database.StudySession
	err := a.DB.Where("uuid = ?", uuid).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.StudySession{}, false, nil
	} else if err != nil {
		return database.StudySession{}, false, pkgErrors.Wrap(err, "finding study session")
	}

	return session, true, nil
}

// RecordResultParams is the parameters for recording a graded answer
type RecordResultParams struct {
	FlashcardUUID    string
	Answer           string
	TestTerm         bool
	IsMultipleChoice bool
	SelectedOption   string
	Attempts         int
}

// RecordStudyResult grades the answer against the flashcard and persists
// the result immediately. It returns the stored result and the correct
// answer for the tested side.
func (a *App) RecordStudyResult(session database.StudySession, p RecordResultParams) (database.StudyResult, string, error) {
	if session.CompletedAt != nil {
		return database.StudyResult{}, "", ErrSessionCompleted
	}

	var card database.Flashcard
	err := a.DB.
		Where("uuid = ? AND flashcard_set_id = ?", p.FlashcardUUID, session.FlashcardSetID).
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.StudyResult{}, "", ErrNotFound
	} else if err != nil {
		return database.StudyResult{}, "", pkgErrors.Wrap(err, "finding flashcard")
	}

	answer := p.Answer
	if p.IsMultipleChoice && p.SelectedOption != "" {
		answer = p.SelectedOption
	}

	target := study.Answer(card, p.TestTerm)

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	result := database.StudyResult{
		StudySessionID:   session.ID,
		FlashcardID:      card.ID,
		UserAnswer:       answer,
		IsCorrect:        study.Grade(answer, target),
		Attempts:         attempts,
		TestTerm:         p.TestTerm,
		IsMultipleChoice: p.IsMultipleChoice,
		SelectedOption:   database.ToNullString(p.SelectedOption),
		AnsweredAt:       a.Clock.Now(),
	}
	if err := a.DB.Omit("Flashcard").Create(&result).Error; err != nil {
		return database.StudyResult{}, "", pkgErrors.Wrap(err, "inserting study result")
	}
	result.Flashcard = card

	return result, target, nil
}

// ImportStudyResults creates a completed session over the set from a batch
// of answers recorded offline. Each answer is graded with the same rule as
// results recorded one at a time.
func (a *App) ImportStudyResults(user database.User, set database.FlashcardSet, optsJSON string, results []RecordResultParams) (database.StudySession, int, error) {
	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.StudySession{}, 0, err
	}

	now := a.Clock.Now()
	session := database.StudySession{
		UUID:           uuid,
		UserID:         user.ID,
		FlashcardSetID: set.ID,
		StartedAt:      now,
		CompletedAt:    &now,
		StudyOptions:   optsJSON,
	}

	tx := a.DB.Begin()
	if err := tx.Create(&session).Error; err != nil {
		tx.Rollback()
		return database.StudySession{}, 0, pkgErrors.Wrap(err, "inserting study session")
	}

	count := 0
	for _, p := range results {
		var card database.Flashcard
		err := tx.
			Where("uuid = ? AND flashcard_set_id = ?", p.FlashcardUUID, set.ID).
			First(&card).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		} else if err != nil {
			tx.Rollback()
			return database.StudySession{}, 0, pkgErrors.Wrap(err, "finding flashcard")
		}

		answer := p.Answer
		if p.IsMultipleChoice && p.SelectedOption != "" {
			answer = p.SelectedOption
		}

		attempts := p.Attempts
		if attempts < 1 {
			attempts = 1
		}

		result := database.StudyResult{
			StudySessionID:   session.ID,
			FlashcardID:      card.ID,
			UserAnswer:       answer,
			IsCorrect:        study.Grade(answer, study.Answer(card, p.TestTerm)),
			Attempts:         attempts,
			TestTerm:         p.TestTerm,
			IsMultipleChoice: p.IsMultipleChoice,
			SelectedOption:   database.ToNullString(p.SelectedOption),
			AnsweredAt:       now,
		}
		if err := tx.Create(&result).Error; err != nil {
			tx.Rollback()
			return database.StudySession{}, 0, pkgErrors.Wrap(err, "inserting study result")
		}
		count++
	}

	if err := tx.Commit().Error; err != nil {
		return database.StudySession{}, 0, pkgErrors.Wrap(err, "committing transaction")
	}

	return session, count, nil
}

// CompleteStudySession stamps the session as completed. Completion is
// forward-only; completing a completed session is an error.
func (a *App) CompleteStudySession(session database.StudySession) (database.StudySession, error) {
	if session.CompletedAt != nil {
		return session, ErrSessionCompleted
	}

	now := a.Clock.Now()
	if err := a.DB.Model(&session).Update("completed_at", &now).Error; err != nil {
		return session, pkgErrors.Wrap(err, "completing study session")
	}

	session.CompletedAt = &now

	return session, nil
}

// GetStudySessions returns the user's most recent study sessions over the
// set, newest first, with their results
func (a *App) GetStudySessions(user database.User, set database.FlashcardSet, limit int) ([]database.StudySession, error) {
	var sessions []database.StudySession
	err := a.DB.
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("study_results.answered_at ASC")
		}).
		Preload("Results.Flashcard").
		Where("user_id = ? AND flashcard_set_id = ?", user.ID, set.ID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding study sessions")
	}

	return sessions, nil
}
