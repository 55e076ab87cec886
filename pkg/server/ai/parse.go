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
	"encoding/json"
	"fmt"
	"strings"
)

// GeneratedCard is a term and definition pair produced by the model
type GeneratedCard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// ParseError indicates that the model returned output that could not be
// parsed, as opposed to the completion request itself failing
type ParseError struct {
	Output string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExtractJSON strips a markdown code fence around the model output, if any.
// Models frequently wrap JSON in ```json fences despite being told not to.
func ExtractJSON(output string) string {
	trimmed := strings.TrimSpace(output)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}

// ParseFlashcards parses the model output into flashcards. A malformed
// payload yields a ParseError so that callers can distinguish bad model
// output from a failed completion.
func ParseFlashcards(output string) ([]GeneratedCard, error) {
	payload := ExtractJSON(output)

	var cards []GeneratedCard
	if err := json.Unmarshal([]byte(payload), &cards); err != nil {
		return nil, &ParseError{Output: output, Err: err}
	}

	ret := make([]GeneratedCard, 0, len(cards))
	for _, c := range cards {
		if strings.TrimSpace(c.Term) == "" || strings.TrimSpace(c.Definition) == "" {
			continue
		}
		ret = append(ret, c)
	}

	if len(ret) == 0 {
		return nil, &ParseError{Output: output, Err: fmt.Errorf("no usable cards in output")}
	}

	return ret, nil
}
