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

package presence

import (
	"testing"
	"time"

	"github.com/recalls/recalls/pkg/assert"
	"github.com/recalls/recalls/pkg/clock"
)

func TestAcquire(t *testing.T) {
	c := clock.NewMock()
	r := NewRegistry(c)

	l, ok := r.Acquire("set-1", "card-1", "alice-uuid", "alice")

	assert.Equal(t, ok, true, "acquire mismatch")
	assert.Equal(t, l.OwnerUUID, "alice-uuid", "owner mismatch")
	assert.Equal(t, l.ExpiresAt, c.Now().Add(DefaultTTL), "expiry mismatch")
}

func TestAcquire_heldByAnother(t *testing.T) {
	c := clock.NewMock()
	r := NewRegistry(c)

	r.Acquire("set-1", "card-1", "alice-uuid", "alice")
	l, ok := r.Acquire("set-1", "card-1", "bob-uuid", "bob")

	assert.Equal(t, ok, false, "acquire mismatch")
	assert.Equal(t, l.OwnerUUID, "alice-uuid", "holder mismatch")
}

func TestAcquire_refreshOwn(t *testing.T) {
	c := clock.NewMock()
	r := NewRegistry(c)

	first, _ := r.Acquire("set-1", "card-1", "alice-uuid", "alice")

	c.SetNow(c.Now().Add(30 * time.Second))
	second, ok := r.Acquire("set-1", "card-1", "alice-uuid", "alice")

	assert.Equal(t, ok, true, "reacquire mismatch")
	if !second.ExpiresAt.After(first.ExpiresAt) {
		t.Errorf("expected refreshed expiry after %v, got %v", first.ExpiresAt, second.ExpiresAt)
	}
}

func TestAcquire_expiredLockIsFree(t *testing.T) {
	c := clock.NewMock()
	r := NewRegistry(c)

	r.Acquire("set-1", "card-1", "alice-uuid", "alice")

	c.SetNow(c.Now().Add(DefaultTTL + time.Second))
	l, ok := r.Acquire("set-1", "card-1", "bob-uuid", "bob")

	assert.Equal(t, ok, true, "acquire mismatch")
	assert.Equal(t, l.OwnerUUID, "bob-uuid", "owner mismatch")
}

func TestRelease(t *testing.T) {
	c := clock.NewMock()
	r := NewRegistry(c)

	r.Acquire("set-1", "card-1", "alice-uuid", "alice")

	t.Run("by another user", func(t *testing.T) {
		ok := r.Release("card-1", "bob-uuid")
		assert.Equal(t, ok, false, "release mismatch")
	})

	t.Run("by the owner", func(t *testing.T) {
		ok := r.Release("card-1", "alice-uuid")
		assert.Equal(t, ok, true, "release mismatch")
	})

	t.Run("already released", func(t *testing.T) {
		ok := r.Release("card-1", "alice-uuid")
		assert.Equal(t, ok, false, "release mismatch")
	})
}

func TestListBySet(t *testing.T) {
	c := clock.NewMock()
	r := NewRegistry(c)

	r.Acquire("set-1", "card-1", "alice-uuid", "alice")
	r.Acquire("set-1", "card-2", "bob-uuid", "bob")
	r.Acquire("set-2", "card-3", "alice-uuid", "alice")

	locks := r.ListBySet("set-1")

	assert.Equal(t, len(locks), 2, "lock count mismatch")
}

func TestSweep(t *testing.T) {
	c := clock.NewMock()
	r := NewRegistry(c)

	r.Acquire("set-1", "card-1", "alice-uuid", "alice")

	c.SetNow(c.Now().Add(time.Minute))
	r.Acquire("set-1", "card-2", "bob-uuid", "bob")

	c.SetNow(c.Now().Add(DefaultTTL - 30*time.Second))
	removed := r.Sweep()

	assert.Equal(t, removed, 1, "removed count mismatch")
	assert.Equal(t, len(r.ListBySet("set-1")), 1, "remaining lock count mismatch")
}
