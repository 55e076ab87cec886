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
	"fmt"

	pkgErrors "github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/server/database"
	"gorm.io/gorm"
)

// ShareSet shares the set with the user registered under the given email.
// Sharing is idempotent. The recipient gets an in-app notification.
func (a *App) ShareSet(set database.FlashcardSet, owner database.User, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	var recipient database.User
	err := a.DB.Where("email = ?", email).First(&recipient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return pkgErrors.Wrap(err, "finding recipient")
	}

	if recipient.ID == owner.ID {
		return ErrNotAllowed
	}

	var count int64
	if err := a.DB.Model(&database.SharedSet{}).
		Where("flashcard_set_id = ? AND shared_with_id = ?", set.ID, recipient.ID).
		Count(&count).Error; err != nil {
		return pkgErrors.Wrap(err, "counting existing share")
	}
	if count > 0 {
		return nil
	}

	tx := a.DB.Begin()

	share := database.SharedSet{
		FlashcardSetID: set.ID,
		SharedWithID:   recipient.ID,
	}
	if err := tx.Create(&share).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "inserting share")
	}

	notification := database.Notification{
		UserID:  recipient.ID,
		Kind:    database.NotificationKindSetShared,
		Message: fmt.Sprintf("%s shared the set \"%s\" with you", owner.Name, set.Title),
	}
	if err := tx.Create(&notification).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "inserting notification")
	}

	tx.Commit()

	return nil
}

// UnshareSet removes the share of the set with the user registered under
// the given email. It is a no-op if the set was not shared with the user.
func (a *App) UnshareSet(set database.FlashcardSet, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	var recipient database.User
	err := a.DB.Where("email = ?", email).First(&recipient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return pkgErrors.Wrap(err, "finding recipient")
	}

	if err := a.DB.
		Where("flashcard_set_id = ? AND shared_with_id = ?", set.ID, recipient.ID).
		Delete(&database.SharedSet{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting share")
	}

	return nil
}

// GetSharedUsers returns the users that the set is shared with
func (a *App) GetSharedUsers(set database.FlashcardSet) ([]database.User, error) {
	var users []database.User
	err := a.DB.
		Where("id IN (?)", a.DB.Model(&database.SharedSet{}).Select("shared_with_id").Where("flashcard_set_id = ?", set.ID)).
		Find(&users).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding shared users")
	}

	return users, nil
}
