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
	"time"

	pkgErrors "github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/helpers"
	"github.com/recalls/recalls/pkg/server/log"
	"github.com/recalls/recalls/pkg/server/mailer"
	"github.com/recalls/recalls/pkg/server/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// verificationTokenTTL is how long an email verification token stays valid
const verificationTokenTTL = 24 * time.Hour

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser creates a user with an unverified email address and sends a
// verification email. If the verification email cannot be sent, the created
// user is removed so that registration can be retried.
func (a *App) CreateUser(name, email, password string) (database.User, error) {
	if name == "" {
		return database.User{}, ErrNameRequired
	}
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(password) < 8 {
		return database.User{}, ErrPasswordTooShort
	}

	tx := a.DB.Begin()

	var count int64
	if err := tx.Model(database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "counting user")
	}
	if count > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.User{}, err
	}

	user := database.User{
		UUID:     uuid,
		Name:     name,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashedPassword)),
	}
	if err = tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	tok, err := token.Create(tx, user.ID, database.TokenTypeEmailVerification)
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "creating email verification token")
	}

	tx.Commit()

	if err := a.SendVerificationEmail(email, tok.Value); err != nil {
		// The account is unusable without the verification email. Remove it
		// so that the user can register again.
		if dErr := a.deleteUserData(user); dErr != nil {
			log.ErrorWrap(dErr, "removing user after email failure")
		}

		return database.User{}, pkgErrors.Wrap(err, "sending verification email")
	}

	return user, nil
}

// Authenticate authenticates a user. Users that have not verified their
// email address may not sign in with a password.
func (a *App) Authenticate(email, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if !user.Password.Valid {
		return nil, ErrLoginInvalid
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password))
	if err != nil {
		return nil, ErrLoginInvalid
	}

	if !user.EmailVerified() {
		return nil, ErrEmailNotVerified
	}

	return &user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}

// VerifyEmail marks the user that the given verification token belongs to
// as verified and consumes the token
func (a *App) VerifyEmail(tokenValue string) (database.User, error) {
	var tok database.Token
	err := a.DB.
		Where("value = ? AND type = ?", tokenValue, database.TokenTypeEmailVerification).
		First(&tok).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrTokenInvalid
	} else if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "finding token")
	}

	if tok.UsedAt != nil {
		return database.User{}, ErrTokenInvalid
	}

	now := a.Clock.Now()
	if now.Sub(tok.CreatedAt) > verificationTokenTTL {
		return database.User{}, ErrTokenExpired
	}

	var user database.User
	if err := a.DB.Where("id = ?", tok.UserID).First(&user).Error; err != nil {
		return database.User{}, pkgErrors.Wrap(err, "finding user")
	}

	tx := a.DB.Begin()
	if err := tx.Model(&user).Update("email_verified_at", &now).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "marking email verified")
	}
	if err := tx.Model(&tok).Update("used_at", &now).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "marking token used")
	}
	tx.Commit()

	user.EmailVerifiedAt = &now

	if err := a.SendWelcomeEmail(user.Email.String); err != nil {
		log.ErrorWrap(err, "sending welcome email")
	}

	return user, nil
}

// ResendVerificationEmail sends a fresh verification email to the user with
// the given email address
func (a *App) ResendVerificationEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return pkgErrors.Wrap(err, "finding user")
	}

	if user.EmailVerified() {
		return ErrEmailAlreadyVerified
	}

	tok, err := mailer.GetToken(a.DB, user.ID, database.TokenTypeEmailVerification)
	if err != nil {
		return pkgErrors.Wrap(err, "getting verification token")
	}

	// Tokens past their expiry are not reusable. Issue a new one.
	if a.Clock.Now().Sub(tok.CreatedAt) > verificationTokenTTL {
		tok, err = token.Create(a.DB, user.ID, database.TokenTypeEmailVerification)
		if err != nil {
			return pkgErrors.Wrap(err, "creating verification token")
		}
	}

	if err := a.SendVerificationEmail(email, tok.Value); err != nil {
		return pkgErrors.Wrap(err, "sending verification email")
	}

	return nil
}

// deleteUserData removes the user and everything the user owns
func (a *App) deleteUserData(user database.User) error {
	tx := a.DB.Begin()

	var setIDs []int
	if err := tx.Model(&database.FlashcardSet{}).Where("owner_id = ?", user.ID).Pluck("id", &setIDs).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "finding owned sets")
	}

	if len(setIDs) > 0 {
		if err := tx.Where("flashcard_set_id IN ?", setIDs).Delete(&database.Flashcard{}).Error; err != nil {
			tx.Rollback()
			return pkgErrors.Wrap(err, "deleting flashcards")
		}
		if err := tx.Where("flashcard_set_id IN ?", setIDs).Delete(&database.SharedSet{}).Error; err != nil {
			tx.Rollback()
			return pkgErrors.Wrap(err, "deleting shares of owned sets")
		}
		if err := tx.Where("flashcard_set_id IN ?", setIDs).Delete(&database.Rating{}).Error; err != nil {
			tx.Rollback()
			return pkgErrors.Wrap(err, "deleting ratings of owned sets")
		}
		if err := tx.Where("flashcard_set_id IN ?", setIDs).Delete(&database.StudyingSet{}).Error; err != nil {
			tx.Rollback()
			return pkgErrors.Wrap(err, "deleting studying bookmarks of owned sets")
		}
		if err := tx.Where("owner_id = ?", user.ID).Delete(&database.FlashcardSet{}).Error; err != nil {
			tx.Rollback()
			return pkgErrors.Wrap(err, "deleting sets")
		}
	}

	var sessionIDs []int
	if err := tx.Model(&database.StudySession{}).Where("user_id = ?", user.ID).Pluck("id", &sessionIDs).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "finding study sessions")
	}
	if len(sessionIDs) > 0 {
		if err := tx.Where("study_session_id IN ?", sessionIDs).Delete(&database.StudyResult{}).Error; err != nil {
			tx.Rollback()
			return pkgErrors.Wrap(err, "deleting study results")
		}
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.StudySession{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting study sessions")
	}

	if err := tx.Where("shared_with_id = ?", user.ID).Delete(&database.SharedSet{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting shares")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.StudyingSet{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting studying bookmarks")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.Rating{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting ratings")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.Notification{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting notifications")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.Token{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting tokens")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.Session{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting sessions")
	}
	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting user")
	}

	tx.Commit()

	return nil
}

// DeleteAccount removes the user's account along with the sets, shares,
// ratings, study history, and notifications that belong to it
func (a *App) DeleteAccount(user database.User) error {
	return a.deleteUserData(user)
}
