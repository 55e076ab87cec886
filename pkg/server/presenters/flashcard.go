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

	"github.com/recalls/recalls/pkg/server/database"
)

// Flashcard is a result of PresentFlashcard
type Flashcard struct {
	UUID       string    `json:"uuid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Position   int       `json:"position"`
}

// PresentFlashcard presents a flashcard
func PresentFlashcard(card database.Flashcard) Flashcard {
	return Flashcard{
		UUID:       card.UUID,
		CreatedAt:  FormatTS(card.CreatedAt),
		UpdatedAt:  FormatTS(card.UpdatedAt),
		Term:       card.Term,
		Definition: card.Definition,
		Position:   card.Position,
	}
}

// PresentFlashcards presents flashcards
func PresentFlashcards(cards []database.Flashcard) []Flashcard {
	ret := []Flashcard{}

	for _, card := range cards {
		p := PresentFlashcard(card)
		ret = append(ret, p)
	}

	return ret
}
