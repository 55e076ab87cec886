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
	"time"

	"github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/assert"
	"github.com/recalls/recalls/pkg/clock"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/testutils"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db

		if _, err := a.CreateUser("alice", "alice@example.com", "pass1234"); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		var userCount int64
		var userRecord database.User
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		testutils.MustExec(t, db.First(&userRecord), "finding user")

		assert.Equal(t, userCount, int64(1), "user count mismatch")
		assert.Equal(t, userRecord.Name, "alice", "name mismatch")
		assert.Equal(t, userRecord.Email.String, "alice@example.com", "email mismatch")
		assert.Equal(t, userRecord.EmailVerified(), false, "user should not be verified")

		passwordErr := bcrypt.CompareHashAndPassword([]byte(userRecord.Password.String), []byte("pass1234"))
		assert.Equal(t, passwordErr, nil, "Password mismatch")

		var tokenRecord database.Token
		testutils.MustExec(t, db.Where("user_id = ? AND type = ?", userRecord.ID, database.TokenTypeEmailVerification).First(&tokenRecord), "finding token")
		assert.NotEqual(t, tokenRecord.Value, "", "token value should not be empty")

		backend := a.EmailBackend.(*testutils.MockEmailbackendImplementation)
		assert.Equal(t, len(backend.Emails), 1, "email count mismatch")
		assert.Equal(t, backend.Emails[0].To[0], "alice@example.com", "email recipient mismatch")
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		testutils.SetupUserData(db, "alice@example.com", "somepassword")

		a := NewTest()
		a.DB = db

		_, err := a.CreateUser("alice", "alice@example.com", "newpassword")
		assert.Equal(t, err, ErrDuplicateEmail, "error mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})

	t.Run("password too short", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db

		_, err := a.CreateUser("alice", "alice@example.com", "short")
		assert.Equal(t, err, ErrPasswordTooShort, "error mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		assert.Equal(t, userCount, int64(0), "user count mismatch")
	})

	t.Run("name required", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db

		_, err := a.CreateUser("", "alice@example.com", "pass1234")
		assert.Equal(t, err, ErrNameRequired, "error mismatch")
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db

		result, err := a.Authenticate("alice@example.com", "pass1234")
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, result.ID, user.ID, "user mismatch")
	})

	t.Run("wrong password", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db

		_, err := a.Authenticate("alice@example.com", "wrongpassword")
		assert.Equal(t, err, ErrLoginInvalid, "error mismatch")
	})

	t.Run("nonexistent user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db

		_, err := a.Authenticate("bob@example.com", "pass1234")
		assert.Equal(t, err, ErrNotFound, "error mismatch")
	})

	t.Run("unverified email", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		testutils.SetupUnverifiedUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db

		_, err := a.Authenticate("alice@example.com", "pass1234")
		assert.Equal(t, err, ErrEmailNotVerified, "error mismatch")
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUnverifiedUserData(db, "alice@example.com", "pass1234")

		tok := database.Token{
			UserID: user.ID,
			Type:   database.TokenTypeEmailVerification,
			Value:  "sometokenvalue",
		}
		testutils.MustExec(t, db.Save(&tok), "saving token")

		c := clock.NewMock()
		c.SetNow(time.Now())

		a := NewTest()
		a.DB = db
		a.Clock = c

		result, err := a.VerifyEmail("sometokenvalue")
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, result.EmailVerified(), true, "user should be verified")

		var userRecord database.User
		testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
		assert.Equal(t, userRecord.EmailVerified(), true, "user record should be verified")

		var tokenRecord database.Token
		testutils.MustExec(t, db.Where("value = ?", "sometokenvalue").First(&tokenRecord), "finding token")
		if tokenRecord.UsedAt == nil {
			t.Fatal("token should be marked used")
		}
	})

	t.Run("used token", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUnverifiedUserData(db, "alice@example.com", "pass1234")

		usedAt := time.Now()
		tok := database.Token{
			UserID: user.ID,
			Type:   database.TokenTypeEmailVerification,
			Value:  "sometokenvalue",
			UsedAt: &usedAt,
		}
		testutils.MustExec(t, db.Save(&tok), "saving token")

		a := NewTest()
		a.DB = db

		_, err := a.VerifyEmail("sometokenvalue")
		assert.Equal(t, err, ErrTokenInvalid, "error mismatch")
	})

	t.Run("expired token", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUnverifiedUserData(db, "alice@example.com", "pass1234")

		tok := database.Token{
			UserID: user.ID,
			Type:   database.TokenTypeEmailVerification,
			Value:  "sometokenvalue",
		}
		testutils.MustExec(t, db.Save(&tok), "saving token")

		c := clock.NewMock()
		c.SetNow(time.Now().Add(25 * time.Hour))

		a := NewTest()
		a.DB = db
		a.Clock = c

		_, err := a.VerifyEmail("sometokenvalue")
		assert.Equal(t, err, ErrTokenExpired, "error mismatch")

		var userRecord database.User
		testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
		assert.Equal(t, userRecord.EmailVerified(), false, "user should not be verified")
	})

	t.Run("nonexistent token", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db

		_, err := a.VerifyEmail("nosuchtoken")
		assert.Equal(t, err, ErrTokenInvalid, "error mismatch")
	})
}

func TestResendVerificationEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUnverifiedUserData(db, "alice@example.com", "pass1234")

		tok := database.Token{
			UserID: user.ID,
			Type:   database.TokenTypeEmailVerification,
			Value:  "sometokenvalue",
		}
		testutils.MustExec(t, db.Save(&tok), "saving token")

		c := clock.NewMock()
		c.SetNow(time.Now())

		a := NewTest()
		a.DB = db
		a.Clock = c

		if err := a.ResendVerificationEmail("alice@example.com"); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		backend := a.EmailBackend.(*testutils.MockEmailbackendImplementation)
		assert.Equal(t, len(backend.Emails), 1, "email count mismatch")
	})

	t.Run("already verified", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db

		err := a.ResendVerificationEmail("alice@example.com")
		assert.Equal(t, err, ErrEmailAlreadyVerified, "error mismatch")
	})
}

func TestDeleteAccount(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	set := database.FlashcardSet{
		UUID:     testutils.MustUUID(t),
		PublicID: "pub-alice",
		OwnerID:  &alice.ID,
		Title:    "Spanish",
	}
	testutils.MustExec(t, db.Save(&set), "saving set")
	card := database.Flashcard{
		UUID:           testutils.MustUUID(t),
		FlashcardSetID: set.ID,
		Term:           "hola",
		Definition:     "hello",
	}
	testutils.MustExec(t, db.Save(&card), "saving card")
	testutils.MustExec(t, db.Save(&database.SharedSet{FlashcardSetID: set.ID, SharedWithID: bob.ID}), "saving share")
	testutils.MustExec(t, db.Save(&database.Rating{FlashcardSetID: set.ID, UserID: bob.ID, Rating: 4}), "saving rating")

	bobSet := database.FlashcardSet{
		UUID:     testutils.MustUUID(t),
		PublicID: "pub-bob",
		OwnerID:  &bob.ID,
		Title:    "French",
	}
	testutils.MustExec(t, db.Save(&bobSet), "saving bob set")

	a := NewTest()
	a.DB = db

	if err := a.DeleteAccount(alice); err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	var userCount, setCount, cardCount, shareCount, ratingCount int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
	testutils.MustExec(t, db.Model(&database.FlashcardSet{}).Count(&setCount), "counting sets")
	testutils.MustExec(t, db.Model(&database.Flashcard{}).Count(&cardCount), "counting cards")
	testutils.MustExec(t, db.Model(&database.SharedSet{}).Count(&shareCount), "counting shares")
	testutils.MustExec(t, db.Model(&database.Rating{}).Count(&ratingCount), "counting ratings")

	assert.Equal(t, userCount, int64(1), "user count mismatch")
	assert.Equal(t, setCount, int64(1), "set count mismatch")
	assert.Equal(t, cardCount, int64(0), "card count mismatch")
	assert.Equal(t, shareCount, int64(0), "share count mismatch")
	assert.Equal(t, ratingCount, int64(0), "rating count mismatch")

	var remaining database.FlashcardSet
	testutils.MustExec(t, db.First(&remaining), "finding remaining set")
	assert.Equal(t, *remaining.OwnerID, bob.ID, "remaining set owner mismatch")
}
