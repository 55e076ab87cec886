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
	"testing"

	"github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/assert"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/testutils"
)

func TestSetStudying(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	set := mustCreateSet(t, db, bob, "Spanish", true)

	a := NewTest()
	a.DB = db

	if err := a.SetStudying(set, alice); err != nil {
		t.Fatal(errors.Wrap(err, "bookmarking"))
	}
	// Bookmarking again is a no-op
	if err := a.SetStudying(set, alice); err != nil {
		t.Fatal(errors.Wrap(err, "bookmarking again"))
	}

	var count int64
	testutils.MustExec(t, db.Model(&database.StudyingSet{}).Count(&count), "counting bookmarks")
	assert.Equal(t, count, int64(1), "bookmark count mismatch")

	studying, err := a.IsStudying(set, alice)
	if err != nil {
		t.Fatal(errors.Wrap(err, "checking"))
	}
	assert.Equal(t, studying, true, "studying mismatch")
}

func TestUnsetStudying(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	set := mustCreateSet(t, db, bob, "Spanish", true)
	testutils.MustExec(t, db.Save(&database.StudyingSet{FlashcardSetID: set.ID, UserID: alice.ID}), "saving bookmark")

	a := NewTest()
	a.DB = db

	if err := a.UnsetStudying(set, alice); err != nil {
		t.Fatal(errors.Wrap(err, "removing bookmark"))
	}
	// Removing a missing bookmark is a no-op
	if err := a.UnsetStudying(set, alice); err != nil {
		t.Fatal(errors.Wrap(err, "removing again"))
	}

	studying, err := a.IsStudying(set, alice)
	if err != nil {
		t.Fatal(errors.Wrap(err, "checking"))
	}
	assert.Equal(t, studying, false, "studying mismatch")
}
