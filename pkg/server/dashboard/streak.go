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

package dashboard

import (
	"sort"
	"time"
)

const day = 24 * time.Hour

// dateKey buckets a timestamp into its calendar day
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Streaks is the current and longest run of consecutive study days
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreaks derives study streaks from activity timestamps.
// The current streak counts back from today and is 0 until the user studies
// today. The longest streak is the longest consecutive run of study days
// anywhere in the history.
func ComputeStreaks(activity []time.Time, today time.Time) Streaks {
	if len(activity) == 0 {
		return Streaks{}
	}

	seen := map[string]bool{}
	var days []time.Time
	for _, t := range activity {
		key := dateKey(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	current := 0
	expected := today
	for i := len(days) - 1; i >= 0; i-- {
		if dateKey(days[i]) != dateKey(expected) {
			break
		}
		current++
		expected = expected.Add(-day)
	}

	longest := 0
	run := 0
	for i, d := range days {
		if i > 0 && dateKey(days[i-1].Add(day)) == dateKey(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return Streaks{Current: current, Longest: longest}
}
