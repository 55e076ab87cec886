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
	"testing"

	"github.com/recalls/recalls/pkg/assert"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/testutils"
)

func TestViewSet(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	owner := testutils.SetupUserData(db, "owner@test.com", "password123")
	recipient := testutils.SetupUserData(db, "recipient@test.com", "password123")
	stranger := testutils.SetupUserData(db, "stranger@test.com", "password123")

	set := database.FlashcardSet{
		UUID:     testutils.MustUUID(t),
		PublicID: testutils.MustUUID(t),
		OwnerID:  &owner.ID,
		Title:    "Capitals",
	}
	testutils.MustExec(t, db.Save(&set), "preparing set")
	testutils.MustExec(t, db.Save(&database.SharedSet{FlashcardSetID: set.ID, SharedWithID: recipient.ID}), "preparing share")

	publicSet := database.FlashcardSet{
		UUID:     testutils.MustUUID(t),
		PublicID: testutils.MustUUID(t),
		OwnerID:  &owner.ID,
		Title:    "Elements",
		Public:   true,
	}
	testutils.MustExec(t, db.Save(&publicSet), "preparing public set")

	anonymousSet := database.FlashcardSet{
		UUID:     testutils.MustUUID(t),
		PublicID: testutils.MustUUID(t),
		Title:    "Generated",
	}
	testutils.MustExec(t, db.Save(&anonymousSet), "preparing anonymous set")

	t.Run("owner accessing own set", func(t *testing.T) {
		assert.Equal(t, ViewSet(db, &owner, set), true, "owner should be able to view")
	})

	t.Run("recipient accessing shared set", func(t *testing.T) {
		assert.Equal(t, ViewSet(db, &recipient, set), true, "recipient should be able to view")
	})

	t.Run("stranger accessing private set", func(t *testing.T) {
		assert.Equal(t, ViewSet(db, &stranger, set), false, "stranger should not be able to view")
	})

	t.Run("guest accessing private set", func(t *testing.T) {
		assert.Equal(t, ViewSet(db, nil, set), false, "guest should not be able to view")
	})

	t.Run("guest accessing public set", func(t *testing.T) {
		assert.Equal(t, ViewSet(db, nil, publicSet), true, "guest should be able to view public set")
	})

	t.Run("guest accessing ownerless set", func(t *testing.T) {
		assert.Equal(t, ViewSet(db, nil, anonymousSet), true, "guest should be able to view ownerless set")
	})
}

func TestModifySet(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	owner := testutils.SetupUserData(db, "owner@test.com", "password123")
	recipient := testutils.SetupUserData(db, "recipient@test.com", "password123")

	set := database.FlashcardSet{
		UUID:     testutils.MustUUID(t),
		PublicID: testutils.MustUUID(t),
		OwnerID:  &owner.ID,
		Title:    "Capitals",
		Public:   true,
	}
	testutils.MustExec(t, db.Save(&set), "preparing set")

	anonymousSet := database.FlashcardSet{
		UUID:     testutils.MustUUID(t),
		PublicID: testutils.MustUUID(t),
		Title:    "Generated",
	}
	testutils.MustExec(t, db.Save(&anonymousSet), "preparing anonymous set")

	assert.Equal(t, ModifySet(&owner, set), true, "owner should be able to modify")
	assert.Equal(t, ModifySet(&recipient, set), false, "non-owner should not be able to modify")
	assert.Equal(t, ModifySet(nil, set), false, "guest should not be able to modify")
	assert.Equal(t, ModifySet(&owner, anonymousSet), false, "ownerless set should not be modifiable")
}

func TestViewSession(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	anotherUser := testutils.SetupUserData(db, "another@test.com", "password123")

	session := database.StudySession{
		UUID:   testutils.MustUUID(t),
		UserID: user.ID,
	}
	testutils.MustExec(t, db.Save(&session), "preparing session")

	assert.Equal(t, ViewSession(&user, session), true, "owner should be able to view session")
	assert.Equal(t, ViewSession(&anotherUser, session), false, "non-owner should not be able to view session")
	assert.Equal(t, ViewSession(nil, session), false, "guest should not be able to view session")
}
