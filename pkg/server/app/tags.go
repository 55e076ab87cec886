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

package app

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/samber/lo"
)

// trendingTagLimit is how many tags the trending list carries
const trendingTagLimit = 10

// TagCount is a tag with the number of public sets carrying it
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TrendingTags returns the most used labels across public sets
func (a *App) TrendingTags() ([]TagCount, error) {
	var labels []string
	err := a.DB.Model(&database.FlashcardSet{}).
		Where("public = ?", true).
		Pluck("labels", &labels).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding labels")
	}

	tags := lo.FlatMap(labels, func(l string, _ int) []string {
		return lo.FilterMap(strings.Split(l, ","), func(t string, _ int) (string, bool) {
			trimmed := strings.ToLower(strings.TrimSpace(t))
			return trimmed, trimmed != ""
		})
	})

	counts := lo.CountValues(tags)

	ret := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		ret = append(ret, TagCount{Tag: tag, Count: count})
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Count != ret[j].Count {
			return ret[i].Count > ret[j].Count
		}
		return ret[i].Tag < ret[j].Tag
	})

	if len(ret) > trendingTagLimit {
		ret = ret[:trendingTagLimit]
	}

	return ret, nil
}
