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
	"github.com/recalls/recalls/pkg/server/achievements"
	"github.com/recalls/recalls/pkg/server/dashboard"
)

// Achievement is a granted badge
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// Dashboard is the dashboard response
type Dashboard struct {
	Stats           dashboard.Stats `json:"stats"`
	Achievements    []Achievement   `json:"achievements"`
	NewAchievements []Achievement   `json:"new_achievements"`
}

func presentAchievement(a achievements.Achievement) Achievement {
	return Achievement{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Icon:        a.Icon,
		Color:       a.Color,
	}
}

// PresentAchievements presents the achievements with the given ids,
// skipping ids that no longer map to a known achievement
func PresentAchievements(ids []string) []Achievement {
	ret := []Achievement{}

	for _, id := range ids {
		a, ok := achievements.Get(id)
		if !ok {
			continue
		}
		ret = append(ret, presentAchievement(a))
	}

	return ret
}

// PresentDashboard presents the dashboard stats along with the user's
// granted achievements and any achievements unlocked by this evaluation
func PresentDashboard(stats dashboard.Stats, granted []string, unlocked []achievements.Achievement) Dashboard {
	newAchievements := []Achievement{}
	for _, a := range unlocked {
		newAchievements = append(newAchievements, presentAchievement(a))
	}

	return Dashboard{
		Stats:           stats,
		Achievements:    PresentAchievements(granted),
		NewAchievements: newAchievements,
	}
}
