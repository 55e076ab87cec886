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

// Package study builds study decks from flashcards and grades answers
package study

import (
	"math/rand"
	"strings"

	"github.com/recalls/recalls/pkg/server/database"
	"github.com/samber/lo"
)

const (
	// ModeTerm tests the user on terms. The definition is shown as the prompt.
	ModeTerm = "term"
	// ModeDefinition tests the user on definitions. The term is shown as the prompt.
	ModeDefinition = "definition"
	// ModeBoth picks the tested side per card at random
	ModeBoth = "both"
)

const (
	// StyleMultipleChoice asks every question as multiple choice
	StyleMultipleChoice = "multipleChoice"
	// StyleTyped asks every question as a typed answer
	StyleTyped = "typed"
	// StyleBoth picks the question style per card at random
	StyleBoth = "both"
)

// numDistractors is how many wrong options accompany the correct answer
// in a multiple choice question
const numDistractors = 3

// Options describes how a study deck is built
type Options struct {
	Count      int    `json:"count"`
	Mode       string `json:"mode"`
	StudyStyle string `json:"study_style"`
	Shuffle    bool   `json:"shuffle"`
	Repeat     bool   `json:"repeat"`
}

// Question is a single question in a study deck
type Question struct {
	FlashcardUUID    string   `json:"flashcard_uuid"`
	Prompt           string   `json:"prompt"`
	TestTerm         bool     `json:"test_term"`
	IsMultipleChoice bool     `json:"is_multiple_choice"`
	Choices          []string `json:"choices,omitempty"`
}

// Eligible filters out flashcards that cannot be studied. A card needs both
// a term and a definition to produce a gradable question.
func Eligible(cards []database.Flashcard) []database.Flashcard {
	return lo.Filter(cards, func(c database.Flashcard, _ int) bool {
		return strings.TrimSpace(c.Term) != "" && strings.TrimSpace(c.Definition) != ""
	})
}

// answerSide returns the side of the card that the user must produce
func answerSide(c database.Flashcard, testTerm bool) string {
	if testTerm {
		return c.Term
	}

	return c.Definition
}

// promptSide returns the side of the card shown to the user
func promptSide(c database.Flashcard, testTerm bool) string {
	if testTerm {
		return c.Definition
	}

	return c.Term
}

// pickTestTerm decides which side of the card to test based on the mode
func pickTestTerm(mode string, rng *rand.Rand) bool {
	switch mode {
	case ModeTerm:
		return true
	case ModeDefinition:
		return false
	default:
		return rng.Intn(2) == 0
	}
}

// pickMultipleChoice decides the question style based on the study style
func pickMultipleChoice(style string, rng *rand.Rand) bool {
	switch style {
	case StyleMultipleChoice:
		return true
	case StyleTyped:
		return false
	default:
		return rng.Intn(2) == 0
	}
}

// buildChoices returns the answer options for a multiple choice question.
// It draws up to numDistractors distinct values from the other cards'
// answer side and shuffles them together with the correct answer.
func buildChoices(cards []database.Flashcard, card database.Flashcard, testTerm bool, rng *rand.Rand) []string {
	correct := answerSide(card, testTerm)

	var pool []string
	seen := map[string]bool{correct: true}
	for _, c := range cards {
		if c.UUID == card.UUID {
			continue
		}

		val := answerSide(c, testTerm)
		if val == "" || seen[val] {
			continue
		}

		seen[val] = true
		pool = append(pool, val)
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	n := numDistractors
	if len(pool) < n {
		n = len(pool)
	}

	choices := append([]string{correct}, pool[:n]...)
	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return choices
}

// BuildDeck builds a deck of questions from the given flashcards.
// Cards missing a term or a definition are skipped. It returns a nil deck
// when no card is eligible; callers decide the error.
func BuildDeck(cards []database.Flashcard, opts Options, rng *rand.Rand) []Question {
	eligible := Eligible(cards)
	if len(eligible) == 0 {
		return nil
	}

	deck := make([]database.Flashcard, len(eligible))
	copy(deck, eligible)

	if opts.Shuffle {
		rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
	}

	if opts.Count > 0 && opts.Count < len(deck) {
		deck = deck[:opts.Count]
	}

	questions := make([]Question, 0, len(deck))
	for _, card := range deck {
		testTerm := pickTestTerm(opts.Mode, rng)
		isMultipleChoice := pickMultipleChoice(opts.StudyStyle, rng)

		q := Question{
			FlashcardUUID:    card.UUID,
			Prompt:           promptSide(card, testTerm),
			TestTerm:         testTerm,
			IsMultipleChoice: isMultipleChoice,
		}
		if isMultipleChoice {
			q.Choices = buildChoices(eligible, card, testTerm, rng)
		}

		questions = append(questions, q)
	}

	return questions
}

// Grade checks the user's answer against the target answer. Comparison is
// exact after trimming whitespace and lowercasing both sides.
func Grade(answer, target string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == strings.ToLower(strings.TrimSpace(target))
}

// Answer returns the correct answer for the given card and tested side
func Answer(c database.Flashcard, testTerm bool) string {
	return answerSide(c, testTerm)
}
