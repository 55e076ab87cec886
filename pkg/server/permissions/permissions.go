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

package permissions

import (
	"gorm.io/gorm"

	"github.com/recalls/recalls/pkg/server/database"
)

// ViewSet checks if the given user can view the given set. Ownerless sets
// and public sets are readable by anyone, including anonymous visitors.
func ViewSet(db *gorm.DB, user *database.User, set database.FlashcardSet) bool {
	if set.OwnerID == nil || set.Public {
		return true
	}
	if user == nil {
		return false
	}
	if *set.OwnerID == user.ID {
		return true
	}

	var count int64
	if err := db.Model(&database.SharedSet{}).
		Where("flashcard_set_id = ? AND shared_with_id = ?", set.ID, user.ID).
		Count(&count).Error; err != nil {
		return false
	}

	return count > 0
}

// ModifySet checks if the given user can modify or delete the given set
func ModifySet(user *database.User, set database.FlashcardSet) bool {
	if user == nil || set.OwnerID == nil {
		return false
	}

	return *set.OwnerID == user.ID
}

// ViewSession checks if the given user owns the given study session
func ViewSession(user *database.User, session database.StudySession) bool {
	if user == nil {
		return false
	}

	return session.UserID == user.ID
}
