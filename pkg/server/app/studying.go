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
)

// SetStudying bookmarks the set for studying by the user. Bookmarking an
// already bookmarked set is a no-op.
func (a *App) SetStudying(set database.FlashcardSet, user database.User) error {
	var count int64
	if err := a.DB.Model(&database.StudyingSet{}).
		Where("flashcard_set_id = ? AND user_id = ?", set.ID, user.ID).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "counting studying bookmark")
	}
	if count > 0 {
		return nil
	}

	bookmark := database.StudyingSet{
		FlashcardSetID: set.ID,
		UserID:         user.ID,
	}
	if err := a.DB.Create(&bookmark).Error; err != nil {
		return errors.Wrap(err, "inserting studying bookmark")
	}

	return nil
}

// UnsetStudying removes the user's studying bookmark of the set. Removing
// a missing bookmark is a no-op.
func (a *App) UnsetStudying(set database.FlashcardSet, user database.User) error {
	if err := a.DB.
		Where("flashcard_set_id = ? AND user_id = ?", set.ID, user.ID).
		Delete(&database.StudyingSet{}).Error; err != nil {
		return errors.Wrap(err, "deleting studying bookmark")
	}

	return nil
}

// IsStudying checks whether the user bookmarked the set for studying
func (a *App) IsStudying(set database.FlashcardSet, user database.User) (bool, error) {
	var count int64
	if err := a.DB.Model(&database.StudyingSet{}).
		Where("flashcard_set_id = ? AND user_id = ?", set.ID, user.ID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "counting studying bookmark")
	}

	return count > 0, nil
}
