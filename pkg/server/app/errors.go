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

import "errors"

var (
	// ErrNotFound is an error for a nonexistent resource
	ErrNotFound = errors.New("not found")
	// ErrNotAllowed is an error for an operation that the user may not perform
	ErrNotAllowed = errors.New("not allowed")
	// ErrLoginInvalid is an error for invalid login credentials
	ErrLoginInvalid = errors.New("wrong email and password combination")
	// ErrEmailRequired is an error for an empty email
	ErrEmailRequired = errors.New("email is required")
	// ErrNameRequired is an error for an empty name
	ErrNameRequired = errors.New("name is required")
	// ErrPasswordRequired is an error for an empty password
	ErrPasswordRequired = errors.New("password is required")
	// ErrPasswordTooShort is an error for a password that is too short
	ErrPasswordTooShort = errors.New("password should be longer than 8 characters")
	// ErrDuplicateEmail is an error for an email that is already registered
	ErrDuplicateEmail = errors.New("email is already registered")
	// ErrEmailNotVerified is an error for signing in before verifying the email address
	ErrEmailNotVerified = errors.New("email is not verified")
	// ErrEmailAlreadyVerified is an error for verifying an already verified email address
	ErrEmailAlreadyVerified = errors.New("email is already verified")
	// ErrTokenInvalid is an error for a token that does not exist or was used
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is an error for a token that is past its expiry
	ErrTokenExpired = errors.New("token is expired")
	// ErrTitleRequired is an error for a set without a title
	ErrTitleRequired = errors.New("title is required")
	// ErrRatingInvalid is an error for a rating outside the 1-5 range
	ErrRatingInvalid = errors.New("rating must be between 1 and 5")
	// ErrEmptyDeck is an error for studying a set with no complete flashcards
	ErrEmptyDeck = errors.New("no flashcards to study")
	// ErrSessionCompleted is an error for modifying a completed study session
	ErrSessionCompleted = errors.New("study session is already completed")
	// ErrAINotConfigured is an error for AI operations without a configured client
	ErrAINotConfigured = errors.New("AI is not configured")
	// ErrInvalidSMTPConfig is an error for an invalid SMTP configuration
	ErrInvalidSMTPConfig = errors.New("SMTP is not configured")
)
