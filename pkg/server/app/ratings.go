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
	"errors"

	pkgErrors "github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/server/database"
	"gorm.io/gorm"
)

// RateSet records the user's rating of the set. A user rates a set at most
// once; rating again replaces the previous value.
func (a *App) RateSet(set database.FlashcardSet, user database.User, rating int) (database.Rating, error) {
	if rating < 1 || rating > 5 {
		return database.Rating{}, ErrRatingInvalid
	}

	var record database.Rating
	err := a.DB.
		Where("flashcard_set_id = ? AND user_id = ?", set.ID, user.ID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = database.Rating{
			FlashcardSetID: set.ID,
			UserID:         user.ID,
			Rating:         rating,
		}
		if err := a.DB.Create(&record).Error; err != nil {
			return database.Rating{}, pkgErrors.Wrap(err, "inserting rating")
		}

		return record, nil
	} else if err != nil {
		return database.Rating{}, pkgErrors.Wrap(err, "finding rating")
	}

	record.Rating = rating
	if err := a.DB.Save(&record).Error; err != nil {
		return database.Rating{}, pkgErrors.Wrap(err, "updating rating")
	}

	return record, nil
}

// GetUserRating returns the user's rating of the set, or 0 if the user has
// not rated the set
func (a *App) GetUserRating(set database.FlashcardSet, user database.User) (int, error) {
	var record database.Rating
	err := a.DB.
		Where("flashcard_set_id = ? AND user_id = ?", set.ID, user.ID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, pkgErrors.Wrap(err, "finding rating")
	}

	return record.Rating, nil
}

// GetAverageRating returns the average rating of the set and the number of
// ratings
func (a *App) GetAverageRating(set database.FlashcardSet) (float64, int, error) {
	var result struct {
		Average float64
		Count   int
	}
	err := a.DB.Model(&database.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("flashcard_set_id = ?", set.ID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, pkgErrors.Wrap(err, "averaging ratings")
	}

	return result.Average, result.Count, nil
}
