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
	"github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/helpers"
	"github.com/samber/lo"
)

// GetFlashcards returns the flashcards of the set in display order
func (a *App) GetFlashcards(set database.FlashcardSet) ([]database.Flashcard, error) {
	var cards []database.Flashcard
	err := a.DB.
		Where("flashcard_set_id = ?", set.ID).
		Order("position ASC, id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding flashcards")
	}

	return cards, nil
}

// SaveFlashcards replaces the set's flashcards with the given cards.
// Cards with a known UUID are updated in place, cards without a UUID are
// created, and existing cards missing from the input are removed.
func (a *App) SaveFlashcards(set database.FlashcardSet, params []FlashcardParams) ([]database.Flashcard, error) {
	existing, err := a.GetFlashcards(set)
	if err != nil {
		return nil, err
	}

	byUUID := lo.KeyBy(existing, func(c database.Flashcard) string { return c.UUID })

	tx := a.DB.Begin()

	kept := map[string]bool{}
	result := make([]database.Flashcard, 0, len(params))
	for i, p := range params {
		if card, ok := byUUID[p.UUID]; ok && p.UUID != "" {
			card.Term = p.Term
			card.Definition = p.Definition
			card.Position = i
			if err := tx.Save(&card).Error; err != nil {
				tx.Rollback()
				return nil, errors.Wrap(err, "updating flashcard")
			}

			kept[card.UUID] = true
			result = append(result, card)
			continue
		}

		cardUUID, err := helpers.GenUUID()
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		card := database.Flashcard{
			UUID:           cardUUID,
			FlashcardSetID: set.ID,
			Term:           p.Term,
			Definition:     p.Definition,
			Position:       i,
		}
		if err := tx.Create(&card).Error; err != nil {
			tx.Rollback()
			return nil, errors.Wrap(err, "inserting flashcard")
		}

		result = append(result, card)
	}

	for _, card := range existing {
		if kept[card.UUID] {
			continue
		}

		if err := tx.Delete(&card).Error; err != nil {
			tx.Rollback()
			return nil, errors.Wrap(err, "removing flashcard")
		}
	}

	tx.Commit()

	return result, nil
}
