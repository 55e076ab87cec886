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

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const flashcardSystemPrompt = `You are a study assistant that creates flashcards. Respond only with a JSON array of objects with "term" and "definition" string fields. Do not include any other text.`

const definitionSystemPrompt = `You are a study assistant that writes concise flashcard definitions. Respond with the definition text only.`

const worksheetSystemPrompt = `You are a study assistant that creates practice worksheets. Respond only with a JSON object with a "title" string field and a "questions" array of objects with "question" and "answer" string fields. Do not include any other text.`

// Pair is an existing term and definition used as generation context
type Pair struct {
	Term       string
	Definition string
}

func formatPairs(pairs []Pair) string {
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "- %s: %s\n", p.Term, p.Definition)
	}

	return b.String()
}

// GenerateFlashcardsRaw turns free-form notes into the model's raw output
func GenerateFlashcardsRaw(ctx context.Context, c Completer, notes string) (string, error) {
	prompt := fmt.Sprintf("Create flashcards from the following notes:\n\n%s", notes)

	output, err := c.Complete(ctx, Request{
		Messages: []Message{
			{Role: "system", Content: flashcardSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", errors.Wrap(err, "completing flashcard generation")
	}

	return output, nil
}

// GenerateFlashcards turns free-form notes into flashcards
func GenerateFlashcards(ctx context.Context, c Completer, notes string) ([]GeneratedCard, error) {
	output, err := GenerateFlashcardsRaw(ctx, c, notes)
	if err != nil {
		return nil, err
	}

	return ParseFlashcards(output)
}

// CompleteDefinition writes a definition for the term, styled on the set's
// existing cards
func CompleteDefinition(ctx context.Context, c Completer, term string, examples []Pair) (string, error) {
	var prompt strings.Builder
	if len(examples) > 0 {
		fmt.Fprintf(&prompt, "Existing cards in this set:\n%s\n", formatPairs(examples))
	}
	fmt.Fprintf(&prompt, "Write a definition for: %s", term)

	output, err := c.Complete(ctx, Request{
		Messages: []Message{
			{Role: "system", Content: definitionSystemPrompt},
			{Role: "user", Content: prompt.String()},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", errors.Wrap(err, "completing definition")
	}

	return strings.TrimSpace(output), nil
}

// GenerateWorksheet produces a practice worksheet over the set's cards.
// The worksheet is returned as the raw model output.
func GenerateWorksheet(ctx context.Context, c Completer, title string, pairs []Pair) (string, error) {
	prompt := fmt.Sprintf("Create a practice worksheet for the set %q with these cards:\n\n%s", title, formatPairs(pairs))

	output, err := c.Complete(ctx, Request{
		Messages: []Message{
			{Role: "system", Content: worksheetSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.5,
	})
	if err != nil {
		return "", errors.Wrap(err, "completing worksheet generation")
	}

	return ExtractJSON(output), nil
}
