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

// Package achievements grants badges based on a user's study statistics
package achievements

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/dashboard"
)

// Achievement is a badge with a fixed unlock rule
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Trigger     func(stats dashboard.Stats) bool `json:"-"`
}

// studyMinutes converts the total study time, which is tracked in
// milliseconds, into whole minutes for the time rules.
func studyMinutes(stats dashboard.Stats) int64 {
	return stats.TotalStudyTime / (60 * 1000)
}

// All is the fixed rule table. Rules are evaluated independently and are
// not mutually exclusive.
var All = []Achievement{
	{
		ID:          "first-set",
		Title:       "First Set",
		Description: "Create your first flashcard set",
		Icon:        "BookOpen",
		Color:       "blue",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.TotalSets == 1
		},
	},
	{
		ID:          "streak-1",
		Title:       "First Day",
		Description: "Complete your first day of studying",
		Icon:        "Flame",
		Color:       "green",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.CurrentStreak >= 1
		},
	},
	{
		ID:          "streak-3",
		Title:       "3-Day Streak",
		Description: "Study for 3 consecutive days",
		Icon:        "Flame",
		Color:       "orange",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.CurrentStreak >= 3
		},
	},
	{
		ID:          "streak-7",
		Title:       "Week Warrior",
		Description: "Study for 7 consecutive days",
		Icon:        "Flame",
		Color:       "red",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.CurrentStreak >= 7
		},
	},
	{
		ID:          "streak-30",
		Title:       "Monthly Master",
		Description: "Study for 30 consecutive days",
		Icon:        "Flame",
		Color:       "purple",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.CurrentStreak >= 30
		},
	},
	{
		ID:          "sets-5",
		Title:       "Set Collector",
		Description: "Create 5 flashcard sets",
		Icon:        "BookOpen",
		Color:       "blue",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.TotalSets >= 5
		},
	},
	{
		ID:          "sets-10",
		Title:       "Set Master",
		Description: "Create 10 flashcard sets",
		Icon:        "BookOpen",
		Color:       "blue",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.TotalSets >= 10
		},
	},
	{
		ID:          "time-60",
		Title:       "Hour Learner",
		Description: "Study for 1 hour total",
		Icon:        "Target",
		Color:       "green",
		Trigger: func(stats dashboard.Stats) bool {
			return studyMinutes(stats) >= 60
		},
	},
	{
		ID:          "time-300",
		Title:       "Dedicated Student",
		Description: "Study for 5 hours total",
		Icon:        "Target",
		Color:       "orange",
		Trigger: func(stats dashboard.Stats) bool {
			return studyMinutes(stats) >= 300
		},
	},
	{
		ID:          "retention-80",
		Title:       "High Retention",
		Description: "Achieve 80%+ retention rate",
		Icon:        "Star",
		Color:       "yellow",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.AverageRetentionRate >= 80
		},
	},
	{
		ID:          "retention-90",
		Title:       "Memory Master",
		Description: "Achieve 90%+ retention rate",
		Icon:        "Star",
		Color:       "yellow",
		Trigger: func(stats dashboard.Stats) bool {
			return stats.AverageRetentionRate >= 90
		},
	},
}

// Get looks up an achievement by id
func Get(id string) (Achievement, bool) {
	return lo.Find(All, func(a Achievement) bool {
		return a.ID == id
	})
}

// Evaluate grants any achievement whose rule is satisfied by the given
// stats snapshot and persists the union. An achievement, once granted, is
// never revoked even if its rule later becomes false.
func Evaluate(db *gorm.DB, user *database.User, stats dashboard.Stats) ([]Achievement, error) {
	granted := map[string]bool{}
	for _, id := range user.Achievements {
		granted[id] = true
	}

	var unlocked []Achievement
	for _, a := range All {
		if granted[a.ID] {
			continue
		}
		if a.Trigger(stats) {
			unlocked = append(unlocked, a)
			user.Achievements = append(user.Achievements, a.ID)
		}
	}

	if len(unlocked) == 0 {
		return nil, nil
	}

	if err := db.Model(user).Update("achievements", user.Achievements).Error; err != nil {
		return nil, errors.Wrap(err, "saving achievements")
	}

	return unlocked, nil
}
