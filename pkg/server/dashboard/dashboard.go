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
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/recalls/recalls/pkg/clock"
	"github.com/recalls/recalls/pkg/server/database"
)

const recentSetLimit = 5

// RecentSet annotates a set with the user's study progress on it
type RecentSet struct {
	UUID         string `json:"uuid"`
	Title        string `json:"title"`
	TotalCards   int    `json:"total_cards"`
	StudiedCards int    `json:"studied_cards"`
	Progress     int    `json:"progress"`
	LastStudied  string `json:"last_studied"`
}

// DayActivity is the number of answers recorded on one day of the current week
type DayActivity struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Stats is the dashboard summary for a user. Study time is in milliseconds.
type Stats struct {
	TotalSets            int           `json:"total_sets"`
	TotalFlashcards      int           `json:"total_flashcards"`
	SetsStudiedThisWeek  int           `json:"sets_studied_this_week"`
	TotalStudyTime       int64         `json:"total_study_time"`
	TotalCardsStudied    int           `json:"total_cards_studied"`
	TotalCorrectAnswers  int           `json:"total_correct_answers"`
	AverageRetentionRate int           `json:"average_retention_rate"`
	CompletedToday       int           `json:"completed_today"`
	CurrentStreak        int           `json:"current_streak"`
	LongestStreak        int           `json:"longest_streak"`
	RecentSets           []RecentSet   `json:"recent_sets"`
	WeeklyData           []DayActivity `json:"weekly_data"`
}

// GetStats aggregates a user's sets and study history into dashboard
// statistics. Weekly figures cover the trailing seven days; streaks cover
// the full history.
func GetStats(db *gorm.DB, c clock.Clock, user database.User) (Stats, error) {
	var ret Stats

	sets, err := getSets(db, user)
	if err != nil {
		return ret, errors.Wrap(err, "getting sets")
	}

	sessions, err := getSessions(db, user)
	if err != nil {
		return ret, errors.Wrap(err, "getting sessions")
	}

	now := c.Now()

	ret.TotalSets = len(sets)
	for _, set := range sets {
		ret.TotalFlashcards += len(set.Flashcards)
	}

	weekCutoff := now.Add(-7 * day)
	var recent []database.StudySession
	for _, s := range sessions {
		if s.CreatedAt.After(weekCutoff) {
			recent = append(recent, s)
		}
	}

	ret.SetsStudiedThisWeek = len(lo.UniqBy(recent, func(s database.StudySession) int {
		return s.FlashcardSetID
	}))

	for _, s := range recent {
		if s.CompletedAt != nil {
			ret.TotalStudyTime += s.CompletedAt.Sub(s.CreatedAt).Milliseconds()
		}

		for _, r := range s.Results {
			ret.TotalCardsStudied++
			if r.IsCorrect {
				ret.TotalCorrectAnswers++
			}
		}
	}
	if ret.TotalCardsStudied > 0 {
		ret.AverageRetentionRate = int(math.Round(100 * float64(ret.TotalCorrectAnswers) / float64(ret.TotalCardsStudied)))
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, s := range recent {
		if s.CompletedAt != nil && !s.CompletedAt.Before(midnight) {
			ret.CompletedToday += len(s.Results)
		}
	}

	ret.RecentSets = buildRecentSets(sets, recent, now)
	ret.WeeklyData = buildWeeklyData(sessions, now)

	streaks := ComputeStreaks(activityTimes(sessions), now)
	ret.CurrentStreak = streaks.Current
	ret.LongestStreak = streaks.Longest

	return ret, nil
}

// getSets returns the owned sets followed by the studying sets. A set that
// is both owned and bookmarked appears twice, matching how totals are
// reported.
func getSets(db *gorm.DB, user database.User) ([]database.FlashcardSet, error) {
	var owned []database.FlashcardSet
	if err := db.Where("owner_id = ?", user.ID).Preload("Flashcards").Order("id ASC").Find(&owned).Error; err != nil {
		return nil, errors.Wrap(err, "finding owned sets")
	}

	var studying []database.FlashcardSet
	if err := db.Where("id IN (?)", db.Model(&database.StudyingSet{}).Select("flashcard_set_id").Where("user_id = ?", user.ID)).
		Preload("Flashcards").Order("id ASC").Find(&studying).Error; err != nil {
		return nil, errors.Wrap(err, "finding studying sets")
	}

	return append(owned, studying...), nil
}

// getSessions fetches the user's sessions and backfills completedAt for any
// session that has results but was never explicitly completed.
func getSessions(db *gorm.DB, user database.User) ([]database.StudySession, error) {
	var sessions []database.StudySession
	if err := db.Where("user_id = ?", user.ID).Preload("Results").Order("id ASC").Find(&sessions).Error; err != nil {
		return nil, errors.Wrap(err, "finding sessions")
	}

	for i := range sessions {
		s := &sessions[i]
		if s.CompletedAt != nil || len(s.Results) == 0 {
			continue
		}

		latest := s.Results[0].AnsweredAt
		for _, r := range s.Results {
			if r.AnsweredAt.After(latest) {
				latest = r.AnsweredAt
			}
		}

		if err := db.Model(s).Update("completed_at", latest).Error; err != nil {
			return nil, errors.Wrap(err, "backfilling completed_at")
		}
		s.CompletedAt = &latest
	}

	return sessions, nil
}

// activityTime is when a session counts as study activity for streaks
func activityTime(s database.StudySession) time.Time {
	if s.CompletedAt != nil {
		return *s.CompletedAt
	}

	if len(s.Results) > 0 {
		latest := s.Results[0].AnsweredAt
		for _, r := range s.Results {
			if r.AnsweredAt.After(latest) {
				latest = r.AnsweredAt
			}
		}
		return latest
	}

	return s.CreatedAt
}

func activityTimes(sessions []database.StudySession) []time.Time {
	return lo.Map(sessions, func(s database.StudySession, _ int) time.Time {
		return activityTime(s)
	})
}

func relativeTime(t time.Time, now time.Time) string {
	diff := now.Sub(t)

	if diff < time.Hour {
		return "Just now"
	}
	if diff < day {
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	}

	return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
}

// buildRecentSets annotates the first few sets with study progress. Only
// the trailing week's sessions count, so a set not studied recently shows
// no progress.
func buildRecentSets(sets []database.FlashcardSet, sessions []database.StudySession, now time.Time) []RecentSet {
	ret := []RecentSet{}

	for _, set := range sets {
		if len(ret) == recentSetLimit {
			break
		}

		answered := map[int]bool{}
		var lastStudied time.Time
		for _, s := range sessions {
			if s.FlashcardSetID != set.ID {
				continue
			}

			for _, r := range s.Results {
				answered[r.FlashcardID] = true
			}
			if at := activityTime(s); at.After(lastStudied) {
				lastStudied = at
			}
		}

		item := RecentSet{
			UUID:         set.UUID,
			Title:        set.Title,
			TotalCards:   len(set.Flashcards),
			StudiedCards: len(answered),
			LastStudied:  "Never studied",
		}
		if item.TotalCards > 0 {
			progress := int(math.Round(100 * float64(item.StudiedCards) / float64(item.TotalCards)))
			if progress > 100 {
				progress = 100
			}
			item.Progress = progress
		}
		if !lastStudied.IsZero() {
			item.LastStudied = relativeTime(lastStudied, now)
		}

		ret = append(ret, item)
	}

	return ret
}

// buildWeeklyData buckets answer counts into the days of the current week,
// starting on Monday.
func buildWeeklyData(sessions []database.StudySession, now time.Time) []DayActivity {
	offset := (int(now.Weekday()) + 6) % 7
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(-time.Duration(offset) * day)

	labels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	ret := make([]DayActivity, 7)
	for i, label := range labels {
		ret[i] = DayActivity{Day: label}
	}

	for _, s := range sessions {
		if s.CompletedAt == nil {
			continue
		}

		idx := int(s.CompletedAt.Sub(weekStart) / day)
		if idx < 0 || idx > 6 {
			continue
		}

		ret[idx].Count += len(s.Results)
	}

	return ret
}
