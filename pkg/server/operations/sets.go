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

package operations

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/helpers"
	"github.com/recalls/recalls/pkg/server/permissions"
)

// PreloadSet preloads the associations of a flashcard set
func PreloadSet(conn *gorm.DB) *gorm.DB {
	return conn.
		Preload("Flashcards", func(db *gorm.DB) *gorm.DB {
			return db.Order("flashcards.position ASC, flashcards.id ASC")
		}).
		Preload("Owner")
}

// GetSet retrieves a set visible to the given user
func GetSet(db *gorm.DB, uuid string, user *database.User) (database.FlashcardSet, bool, error) {
	zeroSet := database.FlashcardSet{}
	if !helpers.ValidateUUID(uuid) {
		return zeroSet, false, nil
	}

	var set database.FlashcardSet
	err := PreloadSet(db.Where("flashcard_sets.uuid = ?", uuid)).First(&set).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zeroSet, false, nil
	} else if err != nil {
		return zeroSet, false, errors.Wrap(err, "finding set")
	}

	if ok := permissions.ViewSet(db, user, set); !ok {
		return zeroSet, false, nil
	}

	return set, true, nil
}

// GetOwnedSet retrieves a set that the given user can modify
func GetOwnedSet(db *gorm.DB, uuid string, user *database.User) (database.FlashcardSet, bool, error) {
	set, ok, err := GetSet(db, uuid, user)
	if err != nil || !ok {
		return set, ok, err
	}

	if !permissions.ModifySet(user, set) {
		return database.FlashcardSet{}, false, nil
	}

	return set, true, nil
}

// GetSession retrieves a study session owned by the given user
func GetSession(db *gorm.DB, uuid string, user *database.User) (database.StudySession, bool, error) {
	zeroSession := database.StudySession{}
	if !helpers.ValidateUUID(uuid) {
		return zeroSession, false, nil
	}

	var session database.StudySession
	err := db.Where("uuid = ?", uuid).First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zeroSession, false, nil
	} else if err != nil {
		return zeroSession, false, errors.Wrap(err, "finding session")
	}

	if ok := permissions.ViewSession(user, session); !ok {
		return zeroSession, false, nil
	}

	return session, true, nil
}
