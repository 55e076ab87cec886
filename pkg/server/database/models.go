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

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user
type User struct {
	Model
	UUID            string     `json:"uuid" gorm:"type:text;index"`
	Name            string     `json:"name"`
	Email           NullString `gorm:"index"`
	Password        NullString `json:"-"`
	Image           NullString `json:"-"`
	EmailVerifiedAt *time.Time `json:"-"`
	LastLoginAt     *time.Time `json:"-"`
	Achievements    []string   `json:"-" gorm:"serializer:json"`
}

// EmailVerified checks whether the user has confirmed the email address
func (u User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// FlashcardSet is a model for a set of flashcards
type FlashcardSet struct {
	Model
	UUID        string      `json:"uuid" gorm:"uniqueIndex;type:text"`
	PublicID    string      `json:"public_id" gorm:"uniqueIndex;type:text"`
	OwnerID     *int        `json:"-" gorm:"index"`
	Owner       *User       `json:"-" gorm:"foreignKey:OwnerID"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Labels      string      `json:"labels"`
	Public      bool        `json:"public" gorm:"default:false"`
	Flashcards  []Flashcard `json:"flashcards" gorm:"foreignKey:FlashcardSetID"`
}

// Flashcard is a model for a single term and definition pair
type Flashcard struct {
	Model
	UUID           string `json:"uuid" gorm:"uniqueIndex;type:text"`
	FlashcardSetID int    `json:"-" gorm:"index"`
	Term           string `json:"term"`
	Definition     string `json:"definition"`
	Position       int    `json:"position" gorm:"default:0"`
}

// SharedSet links a set to a user that the set was shared with
type SharedSet struct {
	FlashcardSetID int       `gorm:"primaryKey"`
	SharedWithID   int       `gorm:"primaryKey"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// StudyingSet marks a set as bookmarked for studying by a user
type StudyingSet struct {
	FlashcardSetID int       `gorm:"primaryKey"`
	UserID         int       `gorm:"primaryKey"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// Rating is a user's 1-5 rating of a set. A user rates a set at most once.
type Rating struct {
	FlashcardSetID int       `gorm:"primaryKey"`
	UserID         int       `gorm:"primaryKey"`
	Rating         int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// StudySession is a model for a single run through a study deck
type StudySession struct {
	Model
	UUID           string        `json:"uuid" gorm:"uniqueIndex;type:text"`
	UserID         int           `json:"-" gorm:"index"`
	FlashcardSetID int           `json:"-" gorm:"index"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    *time.Time    `json:"completed_at"`
	StudyOptions   string        `json:"-"`
	Results        []StudyResult `json:"results" gorm:"foreignKey:StudySessionID"`
}

// StudyResult is a model for a single graded answer within a study session
type StudyResult struct {
	Model
	StudySessionID   int        `json:"-" gorm:"index"`
	FlashcardID      int        `json:"-" gorm:"index"`
	Flashcard        Flashcard  `json:"-"`
	UserAnswer       string     `json:"user_answer"`
	IsCorrect        bool       `json:"is_correct"`
	Attempts         int        `json:"attempts" gorm:"default:1"`
	TestTerm         bool       `json:"test_term"`
	IsMultipleChoice bool       `json:"is_multiple_choice"`
	SelectedOption   NullString `json:"selected_option"`
	AnsweredAt       time.Time  `json:"answered_at"`
}

// Notification is a model for an in-app notification
type Notification struct {
	Model
	UserID  int    `json:"-" gorm:"index"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Read    bool   `json:"read" gorm:"default:false"`
}

// Token is a model for a token
type Token struct {
	Model
	UserID int    `gorm:"index"`
	Value  string `gorm:"index"`
	Type   string
	UsedAt *time.Time
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}
