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

package study

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/recalls/recalls/pkg/assert"
	"github.com/recalls/recalls/pkg/server/database"
)

func makeCards(n int) []database.Flashcard {
	cards := make([]database.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, database.Flashcard{
			UUID:       fmt.Sprintf("card-%d", i),
			Term:       fmt.Sprintf("term-%d", i),
			Definition: fmt.Sprintf("definition-%d", i),
		})
	}

	return cards
}

func TestGrade(t *testing.T) {
	testCases := []struct {
		answer   string
		target   string
		expected bool
	}{
		{
			answer:   " Paris ",
			target:   "paris",
			expected: true,
		},
		{
			answer:   "Pariss",
			target:   "paris",
			expected: false,
		},
		{
			answer:   "PARIS",
			target:   "Paris",
			expected: true,
		},
		{
			answer:   "",
			target:   "paris",
			expected: false,
		},
		{
			answer:   "  mitochondria\n",
			target:   "Mitochondria",
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%q against %q", tc.answer, tc.target), func(t *testing.T) {
			got := Grade(tc.answer, tc.target)

			assert.Equal(t, got, tc.expected, "grade mismatch")
		})
	}
}

func TestEligible(t *testing.T) {
	cards := []database.Flashcard{
		{UUID: "a", Term: "term", Definition: "definition"},
		{UUID: "b", Term: "", Definition: "definition"},
		{UUID: "c", Term: "term", Definition: ""},
		{UUID: "d", Term: "  ", Definition: "definition"},
	}

	got := Eligible(cards)

	assert.Equal(t, len(got), 1, "eligible count mismatch")
	assert.Equal(t, got[0].UUID, "a", "eligible card mismatch")
}

func TestBuildDeck_emptyDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	cards := []database.Flashcard{
		{UUID: "a", Term: "", Definition: "definition"},
	}

	deck := BuildDeck(cards, Options{}, rng)

	if deck != nil {
		t.Errorf("expected nil deck, got %d questions", len(deck))
	}
}

func TestBuildDeck_multipleChoice(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cards := makeCards(10)

	deck := BuildDeck(cards, Options{Mode: ModeDefinition, StudyStyle: StyleMultipleChoice}, rng)

	assert.Equal(t, len(deck), 10, "deck size mismatch")

	cardsByUUID := map[string]database.Flashcard{}
	for _, c := range cards {
		cardsByUUID[c.UUID] = c
	}

	for _, q := range deck {
		card := cardsByUUID[q.FlashcardUUID]

		assert.Equal(t, q.TestTerm, false, "test side mismatch")
		assert.Equal(t, q.IsMultipleChoice, true, "question style mismatch")
		assert.Equal(t, q.Prompt, card.Term, "prompt mismatch")
		assert.Equal(t, len(q.Choices), 4, "choices size mismatch")

		// Exactly one choice is the correct answer and the options are distinct
		correct := 0
		seen := map[string]bool{}
		for _, choice := range q.Choices {
			if seen[choice] {
				t.Errorf("duplicate choice %q", choice)
			}
			seen[choice] = true

			if choice == card.Definition {
				correct++
			}
		}
		assert.Equal(t, correct, 1, "correct answer count mismatch")
	}
}

func TestBuildDeck_smallDeckChoices(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cards := makeCards(2)

	deck := BuildDeck(cards, Options{Mode: ModeTerm, StudyStyle: StyleMultipleChoice}, rng)

	assert.Equal(t, len(deck), 2, "deck size mismatch")
	for _, q := range deck {
		// 1 correct answer plus the single available distractor
		assert.Equal(t, len(q.Choices), 2, "choices size mismatch")
	}
}

func TestBuildDeck_count(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cards := makeCards(10)

	deck := BuildDeck(cards, Options{Count: 4, Mode: ModeTerm, StudyStyle: StyleTyped}, rng)

	assert.Equal(t, len(deck), 4, "deck size mismatch")
}

func TestBuildDeck_testTermSides(t *testing.T) {
	cards := makeCards(5)

	t.Run("term mode", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		deck := BuildDeck(cards, Options{Mode: ModeTerm, StudyStyle: StyleTyped}, rng)

		for _, q := range deck {
			assert.Equal(t, q.TestTerm, true, "test side mismatch")
		}
	})

	t.Run("definition mode", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		deck := BuildDeck(cards, Options{Mode: ModeDefinition, StudyStyle: StyleTyped}, rng)

		for _, q := range deck {
			assert.Equal(t, q.TestTerm, false, "test side mismatch")
		}
	})
}

func TestAnswer(t *testing.T) {
	card := database.Flashcard{Term: "mitochondria", Definition: "powerhouse of the cell"}

	assert.Equal(t, Answer(card, true), "mitochondria", "term answer mismatch")
	assert.Equal(t, Answer(card, false), "powerhouse of the cell", "definition answer mismatch")
}
