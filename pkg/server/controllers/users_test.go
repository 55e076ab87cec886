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

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/assert"
	"github.com/recalls/recalls/pkg/clock"
	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/presenters"
	"github.com/recalls/recalls/pkg/server/testutils"
)

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		// Setup
		a := app.NewTest()
		a.DB = db
		a.Clock = clock.NewMock()
		server := MustNewServer(t, &a)
		defer server.Close()

		payload := `{"name": "alice", "email": "alice@test.com", "password": "pass1234"}`
		req := testutils.MakeReq(server.URL, "POST", "/api/register", payload)

		// Execute
		res := testutils.HTTPDo(t, req)

		// Test
		assert.StatusCodeEquals(t, res, http.StatusCreated, "")

		var userRecord database.User
		var userCount, tokenCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		testutils.MustExec(t, db.Model(&database.Token{}).Count(&tokenCount), "counting tokens")
		testutils.MustExec(t, db.First(&userRecord), "finding user")

		assert.Equalf(t, userCount, int64(1), "user count mismatch")
		assert.Equalf(t, tokenCount, int64(1), "token count mismatch")

		assert.Equal(t, userRecord.Name, "alice", "user name mismatch")
		assert.Equal(t, userRecord.Email.String, "alice@test.com", "user email mismatch")
		assert.Equal(t, userRecord.EmailVerified(), false, "user should not be verified yet")

		mailBackend := a.EmailBackend.(*testutils.MockEmailbackendImplementation)
		assert.Equal(t, len(mailBackend.Emails), 1, "email queue count mismatch")
		assert.DeepEqual(t, mailBackend.Emails[0].To, []string{"alice@test.com"}, "email recipient mismatch")

		var got presenters.User
		if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}
		assert.Equal(t, got.UUID, userRecord.UUID, "payload uuid mismatch")
		assert.Equal(t, got.EmailVerified, false, "payload email_verified mismatch")
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		// Setup
		a := app.NewTest()
		a.DB = db
		a.Clock = clock.NewMock()
		server := MustNewServer(t, &a)
		defer server.Close()

		testutils.SetupUserData(db, "alice@test.com", "pass1234")

		payload := `{"name": "alice", "email": "alice@test.com", "password": "pass1234"}`
		req := testutils.MakeReq(server.URL, "POST", "/api/register", payload)

		// Execute
		res := testutils.HTTPDo(t, req)

		// Test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		assert.Equalf(t, userCount, int64(1), "user count mismatch")
	})

	t.Run("password too short", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		// Setup
		a := app.NewTest()
		a.DB = db
		a.Clock = clock.NewMock()
		server := MustNewServer(t, &a)
		defer server.Close()

		payload := `{"name": "alice", "email": "alice@test.com", "password": "short"}`
		req := testutils.MakeReq(server.URL, "POST", "/api/register", payload)

		// Execute
		res := testutils.HTTPDo(t, req)

		// Test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		assert.Equalf(t, userCount, int64(0), "user count mismatch")
	})

	t.Run("disabled", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		// Setup
		a := app.NewTest()
		a.DB = db
		a.Clock = clock.NewMock()
		a.DisableRegistration = true
		server := MustNewServer(t, &a)
		defer server.Close()

		payload := `{"name": "alice", "email": "alice@test.com", "password": "pass1234"}`
		req := testutils.MakeReq(server.URL, "POST", "/api/register", payload)

		// Execute
		res := testutils.HTTPDo(t, req)

		// Test. The route is not even registered.
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		assert.Equalf(t, userCount, int64(0), "user count mismatch")
	})
}

func TestVerifyEmail(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest()
	a.DB = db
	a.Clock = clock.NewMock()
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUnverifiedUserData(db, "alice@test.com", "pass1234")

	tok := database.Token{
		UserID: user.ID,
		Value:  "someTokenValue",
		Type:   database.TokenTypeEmailVerification,
	}
	testutils.MustExec(t, db.Save(&tok), "preparing token")

	// Execute
	req := testutils.MakeReq(server.URL, "GET", "/api/verify-email?token=someTokenValue", "")
	res := testutils.HTTPDo(t, req)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var userRecord database.User
	var tokenRecord database.Token
	testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
	testutils.MustExec(t, db.Where("id = ?", tok.ID).First(&tokenRecord), "finding token")

	assert.Equal(t, userRecord.EmailVerified(), true, "user should be verified")
	assert.NotEqual(t, tokenRecord.UsedAt, nil, "token should be marked used")

	var got presenters.User
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}
	assert.Equal(t, got.EmailVerified, true, "payload email_verified mismatch")
}

func TestVerifyEmailInvalidToken(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest()
	a.DB = db
	a.Clock = clock.NewMock()
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUnverifiedUserData(db, "alice@test.com", "pass1234")

	// Execute
	req := testutils.MakeReq(server.URL, "GET", "/api/verify-email?token=nonexistent", "")
	res := testutils.HTTPDo(t, req)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")

	var userRecord database.User
	testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
	assert.Equal(t, userRecord.EmailVerified(), false, "user should not be verified")
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		// Setup
		a := app.NewTest()
		a.DB = db
		a.Clock = clock.NewMock()
		server := MustNewServer(t, &a)
		defer server.Close()

		user := testutils.SetupUserData(db, "alice@test.com", "pass1234")

		payload := `{"email": "alice@test.com", "password": "pass1234"}`
		req := testutils.MakeReq(server.URL, "POST", "/api/signin", payload)

		// Execute
		res := testutils.HTTPDo(t, req)

		// Test
		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var sessionRecord database.Session
		var sessionCount int64
		testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
		testutils.MustExec(t, db.First(&sessionRecord), "finding session")

		assert.Equalf(t, sessionCount, int64(1), "session count mismatch")
		assert.Equal(t, sessionRecord.UserID, user.ID, "session user id mismatch")

		c := testutils.GetCookieByName(res.Cookies(), "id")
		if c == nil {
			t.Fatal("session cookie was not set")
		}
		assert.Equal(t, c.Value, sessionRecord.Key, "session cookie mismatch")
		assert.Equal(t, c.HttpOnly, true, "session cookie should be http only")

		var got presenters.Session
		if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}
		assert.Equal(t, got.Key, sessionRecord.Key, "payload session key mismatch")

		var userRecord database.User
		testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
		assert.NotEqual(t, userRecord.LastLoginAt, nil, "last_login_at should be set")
	})

	t.Run("wrong password", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		// Setup
		a := app.NewTest()
		a.DB = db
		a.Clock = clock.NewMock()
		server := MustNewServer(t, &a)
		defer server.Close()

		testutils.SetupUserData(db, "alice@test.com", "pass1234")

		payload := `{"email": "alice@test.com", "password": "wrongpassword"}`
		req := testutils.MakeReq(server.URL, "POST", "/api/signin", payload)

		// Execute
		res := testutils.HTTPDo(t, req)

		// Test
		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")

		var sessionCount int64
		testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
		assert.Equalf(t, sessionCount, int64(0), "session count mismatch")
	})

	t.Run("nonexistent user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		// Setup
		a := app.NewTest()
		a.DB = db
		a.Clock = clock.NewMock()
		server := MustNewServer(t, &a)
		defer server.Close()

		payload := `{"email": "nobody@test.com", "password": "pass1234"}`
		req := testutils.MakeReq(server.URL, "POST", "/api/signin", payload)

		// Execute
		res := testutils.HTTPDo(t, req)

		// Test. Respond as if the password was wrong so that account
		// existence is not revealed.
		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")
	})

	t.Run("unverified email", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		// Setup
		a := app.NewTest()
		a.DB = db
		a.Clock = clock.NewMock()
		server := MustNewServer(t, &a)
		defer server.Close()

		testutils.SetupUnverifiedUserData(db, "alice@test.com", "pass1234")

		payload := `{"email": "alice@test.com", "password": "pass1234"}`
		req := testutils.MakeReq(server.URL, "POST", "/api/signin", payload)

		// Execute
		res := testutils.HTTPDo(t, req)

		// Test
		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")

		var sessionCount int64
		testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
		assert.Equalf(t, sessionCount, int64(0), "session count mismatch")
	})
}

func TestLogout(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest()
	a.DB = db
	a.Clock = clock.NewMock()
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@test.com", "pass1234")
	session := testutils.SetupSession(db, user)

	// Execute
	req := testutils.MakeReq(server.URL, "POST", "/api/signout", "")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", session.Key))
	res := testutils.HTTPDo(t, req)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

	var sessionCount int64
	testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
	assert.Equalf(t, sessionCount, int64(0), "session count mismatch")
}

func TestMe(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest()
	a.DB = db
	a.Clock = clock.NewMock()
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@test.com", "pass1234")

	// Execute
	req := testutils.MakeReq(server.URL, "GET", "/api/me", "")
	res := testutils.HTTPAuthDo(t, db, req, user)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var got presenters.User
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}

	assert.Equal(t, got.UUID, user.UUID, "payload uuid mismatch")
	assert.Equal(t, got.Name, "alice", "payload name mismatch")
	assert.Equal(t, got.Email, "alice@test.com", "payload email mismatch")
	assert.DeepEqual(t, got.Achievements, []string{}, "payload achievements mismatch")
}

func TestMeGuest(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest()
	a.DB = db
	a.Clock = clock.NewMock()
	server := MustNewServer(t, &a)
	defer server.Close()

	// Execute
	req := testutils.MakeReq(server.URL, "GET", "/api/me", "")
	res := testutils.HTTPDo(t, req)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")
}

func TestDeleteAccount(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	// Setup
	a := app.NewTest()
	a.DB = db
	a.Clock = clock.NewMock()
	server := MustNewServer(t, &a)
	defer server.Close()

	user := testutils.SetupUserData(db, "alice@test.com", "pass1234")
	anotherUser := testutils.SetupUserData(db, "bob@test.com", "pass1234")

	s1 := setupTestSet(t, db, user, "Spanish", 2)
	setupTestSet(t, db, anotherUser, "French", 1)

	testutils.MustExec(t, db.Save(&database.Rating{
		FlashcardSetID: s1.ID,
		UserID:         anotherUser.ID,
		Rating:         4,
	}), "preparing rating")

	// Execute
	req := testutils.MakeReq(server.URL, "DELETE", "/api/account", "")
	res := testutils.HTTPAuthDo(t, db, req, user)

	// Test
	assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

	var userCount, setCount, cardCount, ratingCount int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
	testutils.MustExec(t, db.Model(&database.FlashcardSet{}).Count(&setCount), "counting sets")
	testutils.MustExec(t, db.Model(&database.Flashcard{}).Count(&cardCount), "counting flashcards")
	testutils.MustExec(t, db.Model(&database.Rating{}).Count(&ratingCount), "counting ratings")

	assert.Equalf(t, userCount, int64(1), "user count mismatch")
	assert.Equalf(t, setCount, int64(1), "set count mismatch")
	assert.Equalf(t, cardCount, int64(1), "flashcard count mismatch")
	assert.Equalf(t, ratingCount, int64(0), "rating count mismatch")

	var remainingUser database.User
	testutils.MustExec(t, db.First(&remainingUser), "finding remaining user")
	assert.Equal(t, remainingUser.ID, anotherUser.ID, "wrong user was deleted")
}
