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
	"strings"

	"github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/helpers"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// FlashcardParams is the parameters for creating or updating a flashcard
type FlashcardParams struct {
	UUID       string
	Term       string
	Definition string
}

// CreateSetParams is the parameters for creating a set
type CreateSetParams struct {
	Title       string
	Description string
	Labels      []string
	Public      bool
	Flashcards  []FlashcardParams
}

// joinLabels normalizes labels into the stored comma-joined form
func joinLabels(labels []string) string {
	cleaned := lo.FilterMap(labels, func(l string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(l)
		return trimmed, trimmed != ""
	})

	return strings.Join(cleaned, ",")
}

// SplitLabels splits the stored comma-joined labels
func SplitLabels(labels string) []string {
	if labels == "" {
		return []string{}
	}

	return lo.FilterMap(strings.Split(labels, ","), func(l string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(l)
		return trimmed, trimmed != ""
	})
}

// CreateSet creates a flashcard set. The owner may be nil for sets created
// anonymously through inference.
func (a *App) CreateSet(owner *database.User, p CreateSetParams) (database.FlashcardSet, error) {
	if strings.TrimSpace(p.Title) == "" {
		return database.FlashcardSet{}, ErrTitleRequired
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.FlashcardSet{}, err
	}
	publicID, err := helpers.GenPublicID()
	if err != nil {
		return database.FlashcardSet{}, err
	}

	set := database.FlashcardSet{
		UUID:        uuid,
		PublicID:    publicID,
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Labels:      joinLabels(p.Labels),
		Public:      p.Public,
	}
	if owner != nil {
		set.OwnerID = &owner.ID
	}

	tx := a.DB.Begin()

	if err := tx.Create(&set).Error; err != nil {
		tx.Rollback()
		return database.FlashcardSet{}, errors.Wrap(err, "inserting set")
	}

	for i, cp := range p.Flashcards {
		cardUUID, err := helpers.GenUUID()
		if err != nil {
			tx.Rollback()
			return database.FlashcardSet{}, err
		}

		card := database.Flashcard{
			UUID:           cardUUID,
			FlashcardSetID: set.ID,
			Term:           cp.Term,
			Definition:     cp.Definition,
			Position:       i,
		}
		if err := tx.Create(&card).Error; err != nil {
			tx.Rollback()
			return database.FlashcardSet{}, errors.Wrap(err, "inserting flashcard")
		}

		set.Flashcards = append(set.Flashcards, card)
	}

	tx.Commit()

	return set, nil
}

// GetSets returns the sets for the given set type. The public browse view
// needs no user; the per-user views return an empty list for a guest.
func (a *App) GetSets(user *database.User, setType string) ([]database.FlashcardSet, error) {
	preload := func(q string, args ...interface{}) ([]database.FlashcardSet, error) {
		var sets []database.FlashcardSet
		err := a.DB.
			Preload("Flashcards", func(db *gorm.DB) *gorm.DB {
				return db.Order("flashcards.position ASC, flashcards.id ASC")
			}).
			Preload("Owner").
			Where(q, args...).
			Order("flashcard_sets.updated_at DESC").
			Find(&sets).Error
		return sets, err
	}

	if setType == database.SetTypeAll || setType == "" {
		return preload("public = ?", true)
	}

	if user == nil {
		return []database.FlashcardSet{}, nil
	}

	switch setType {
	case database.SetTypeShared:
		return preload("id IN (?)", a.DB.Model(&database.SharedSet{}).Select("flashcard_set_id").Where("shared_with_id = ?", user.ID))
	case database.SetTypeStudying:
		return preload("id IN (?)", a.DB.Model(&database.StudyingSet{}).Select("flashcard_set_id").Where("user_id = ?", user.ID))
	default:
		return preload("owner_id = ?", user.ID)
	}
}

// UpdateSetParams is the parameters for updating a set. Nil fields are
// left unchanged.
type UpdateSetParams struct {
	Title       *string
	Description *string
	Labels      []string
	Public      *bool
}

// UpdateSet updates the set
func (a *App) UpdateSet(set database.FlashcardSet, p UpdateSetParams) (database.FlashcardSet, error) {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return set, ErrTitleRequired
		}
		set.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		set.Description = *p.Description
	}
	if p.Labels != nil {
		set.Labels = joinLabels(p.Labels)
	}
	if p.Public != nil {
		set.Public = *p.Public
	}

	if err := a.DB.Save(&set).Error; err != nil {
		return set, errors.Wrap(err, "updating the set")
	}

	return set, nil
}

// DeleteSet removes the set along with its flashcards, shares, ratings,
// studying bookmarks, and study history
func (a *App) DeleteSet(set database.FlashcardSet) error {
	tx := a.DB.Begin()

	if err := tx.Where("flashcard_set_id = ?", set.ID).Delete(&database.Flashcard{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting flashcards")
	}
	if err := tx.Where("flashcard_set_id = ?", set.ID).Delete(&database.SharedSet{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting shares")
	}
	if err := tx.Where("flashcard_set_id = ?", set.ID).Delete(&database.Rating{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting ratings")
	}
	if err := tx.Where("flashcard_set_id = ?", set.ID).Delete(&database.StudyingSet{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting studying bookmarks")
	}

	var sessionIDs []int
	if err := tx.Model(&database.StudySession{}).Where("flashcard_set_id = ?", set.ID).Pluck("id", &sessionIDs).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "finding study sessions")
	}
	if len(sessionIDs) > 0 {
		if err := tx.Where("study_session_id IN ?", sessionIDs).Delete(&database.StudyResult{}).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "deleting study results")
		}
		if err := tx.Where("id IN ?", sessionIDs).Delete(&database.StudySession{}).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "deleting study sessions")
		}
	}

	if err := tx.Delete(&set).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting set")
	}

	tx.Commit()

	return nil
}
