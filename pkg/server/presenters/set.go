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

package presenters

import (
	"time"

	"github.com/recalls/recalls/pkg/server/app"
	"github.com/recalls/recalls/pkg/server/database"
)

// Set is a result of PresentSet
type Set struct {
	UUID        string      `json:"uuid"`
	PublicID    string      `json:"public_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Labels      []string    `json:"labels"`
	Public      bool        `json:"public"`
	Owner       *SetOwner   `json:"owner,omitempty"`
	Flashcards  []Flashcard `json:"flashcards"`

	// per-viewer annotations, filled in by the controller
	AverageRating float64   `json:"average_rating"`
	UserRating    int       `json:"user_rating,omitempty"`
	Studying      bool      `json:"studying"`
	SharedWith    []SetUser `json:"shared_with,omitempty"`
}

// SetOwner is a nested owner for PresentSet
type SetOwner struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// SetUser is a user that a set was shared with
type SetUser struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PresentSet presents a flashcard set
func PresentSet(set database.FlashcardSet) Set {
	ret := Set{
		UUID:        set.UUID,
		PublicID:    set.PublicID,
		CreatedAt:   FormatTS(set.CreatedAt),
		UpdatedAt:   FormatTS(set.UpdatedAt),
		Title:       set.Title,
		Description: set.Description,
		Labels:      app.SplitLabels(set.Labels),
		Public:      set.Public,
		Flashcards:  PresentFlashcards(set.Flashcards),
	}

	if set.Owner != nil {
		ret.Owner = &SetOwner{
			UUID: set.Owner.UUID,
			Name: set.Owner.Name,
		}
	}

	return ret
}

// PresentSets presents flashcard sets
func PresentSets(sets []database.FlashcardSet) []Set {
	ret := []Set{}

	for _, set := range sets {
		p := PresentSet(set)
		ret = append(ret, p)
	}

	return ret
}

// PresentSetUsers presents the users that a set was shared with
func PresentSetUsers(users []database.User) []SetUser {
	ret := []SetUser{}

	for _, user := range users {
		ret = append(ret, SetUser{
			UUID:  user.UUID,
			Name:  user.Name,
			Email: user.Email.String,
		})
	}

	return ret
}
