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

package database

const (
	// TokenTypeEmailVerification is a type of a token for verifying an email address
	TokenTypeEmailVerification = "email_verification"
)

const (
	// NotificationKindSetShared indicates that a set was shared with the user
	NotificationKindSetShared = "set_shared"
)

const (
	// SetTypeAll selects the public browse view
	SetTypeAll = "all"
	// SetTypeMine selects the sets the user owns
	SetTypeMine = "mine"
	// SetTypeShared selects the sets shared with the user
	SetTypeShared = "shared"
	// SetTypeStudying selects the sets the user bookmarked for studying
	SetTypeStudying = "studying"
)
