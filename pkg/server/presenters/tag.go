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
	"github.com/recalls/recalls/pkg/server/app"
)

// Tag is a label with its usage count across public sets
type Tag struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PresentTags presents tag counts
func PresentTags(tags []app.TagCount) []Tag {
	ret := []Tag{}

	for _, tag := range tags {
		ret = append(ret, Tag{
			Label: tag.Tag,
			Count: tag.Count,
		})
	}

	return ret
}
