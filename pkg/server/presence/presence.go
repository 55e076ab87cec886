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

// Package presence tracks advisory edit locks on flashcards.
//
// Locks signal to collaborators that a card is being edited. They do not
// block writes; the last writer still wins. Locks expire on their own after
// a TTL so that an abandoned editor cannot hold a card forever.
package presence

import (
	"sync"
	"time"

	"github.com/recalls/recalls/pkg/clock"
)

// DefaultTTL is how long a lock is held without being reacquired
const DefaultTTL = 90 * time.Second

// Lock is an advisory lock on a single flashcard
type Lock struct {
	SetUUID       string    `json:"set_uuid"`
	FlashcardUUID string    `json:"flashcard_uuid"`
	OwnerUUID     string    `json:"owner_uuid"`
	OwnerName     string    `json:"owner_name"`
	AcquiredAt    time.Time `json:"acquired_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Registry holds the currently held locks
type Registry struct {
	clock clock.Clock
	ttl   time.Duration
	mtx   sync.Mutex
	locks map[string]Lock
}

// NewRegistry creates a registry with the default TTL
func NewRegistry(c clock.Clock) *Registry {
	return NewRegistryTTL(c, DefaultTTL)
}

// NewRegistryTTL creates a registry with the given TTL
func NewRegistryTTL(c clock.Clock, ttl time.Duration) *Registry {
	return &Registry{
		clock: c,
		ttl:   ttl,
		locks: make(map[string]Lock),
	}
}

func (r *Registry) expired(l Lock) bool {
	return !r.clock.Now().Before(l.ExpiresAt)
}

// Acquire takes the lock on the flashcard for the owner. Reacquiring one's
// own lock refreshes its expiry. It returns the current lock and whether
// the caller holds it.
func (r *Registry) Acquire(setUUID, flashcardUUID, ownerUUID, ownerName string) (Lock, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	now := r.clock.Now()

	if held, ok := r.locks[flashcardUUID]; ok && !r.expired(held) && held.OwnerUUID != ownerUUID {
		return held, false
	}

	l := Lock{
		SetUUID:       setUUID,
		FlashcardUUID: flashcardUUID,
		OwnerUUID:     ownerUUID,
		OwnerName:     ownerName,
		AcquiredAt:    now,
		ExpiresAt:     now.Add(r.ttl),
	}
	r.locks[flashcardUUID] = l

	return l, true
}

// Release releases the lock on the flashcard if the owner holds it.
// Releasing a lock one does not hold is a no-op.
func (r *Registry) Release(flashcardUUID, ownerUUID string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	held, ok := r.locks[flashcardUUID]
	if !ok {
		return false
	}
	if held.OwnerUUID != ownerUUID && !r.expired(held) {
		return false
	}

	delete(r.locks, flashcardUUID)

	return true
}

// ListBySet returns the locks currently held on the set's flashcards
func (r *Registry) ListBySet(setUUID string) []Lock {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	ret := []Lock{}
	for _, l := range r.locks {
		if l.SetUUID != setUUID || r.expired(l) {
			continue
		}
		ret = append(ret, l)
	}

	return ret
}

// Sweep removes expired locks and returns how many were removed
func (r *Registry) Sweep() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	removed := 0
	for key, l := range r.locks {
		if r.expired(l) {
			delete(r.locks, key)
			removed++
		}
	}

	return removed
}
