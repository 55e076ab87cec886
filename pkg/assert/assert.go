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

// Package assert provides test assertion helpers
package assert

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Equal fails the test if the actual does not match the expected
func Equal(t *testing.T, actual, expected interface{}, message string) {
	t.Helper()

	if actual != expected {
		t.Errorf("%s: got %+v, want %+v", message, actual, expected)
	}
}

// Equalf fails the test if the actual does not match the expected, formatting
// the failure with the given message
func Equalf(t *testing.T, actual, expected interface{}, format string, args ...interface{}) {
	t.Helper()

	if actual != expected {
		message := fmt.Sprintf(format, args...)
		t.Errorf("%s: got %+v, want %+v", message, actual, expected)
	}
}

// NotEqual fails the test if the actual matches the expected
func NotEqual(t *testing.T, actual, expected interface{}, message string) {
	t.Helper()

	if actual == expected {
		t.Errorf("%s: got %+v, want it to differ", message, actual)
	}
}

// DeepEqual fails the test if the actual does not deeply match the expected
func DeepEqual(t *testing.T, actual, expected interface{}, message string) {
	t.Helper()

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("%s: (-want +got):\n%s", message, diff)
	}
}

// StatusCodeEquals fails the test if the response's status code does not match the expected
func StatusCodeEquals(t *testing.T, res *http.Response, expected int, message string) {
	t.Helper()

	if res.StatusCode != expected {
		t.Errorf("%s: got status %d, want %d", message, res.StatusCode, expected)
	}
}
