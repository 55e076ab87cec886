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

// Package jobs runs the recurring background work for the server
package jobs

import (
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gorm.io/gorm"

	"github.com/recalls/recalls/pkg/clock"
	"github.com/recalls/recalls/pkg/server/database"
	"github.com/recalls/recalls/pkg/server/log"
	"github.com/recalls/recalls/pkg/server/presence"
)

// tokenTTL is how long a verification token stays purgeable data. Tokens
// are kept for a grace period past their validity so that a helpful error
// can be shown for recently expired links.
const tokenTTL = 7 * 24 * time.Hour

// Runner owns the cron schedule
type Runner struct {
	db    *gorm.DB
	clock clock.Clock
	locks *presence.Registry
	cron  *cron.Cron
}

// NewRunner creates a new job runner
func NewRunner(db *gorm.DB, c clock.Clock, locks *presence.Registry) *Runner {
	return &Runner{
		db:    db,
		clock: c,
		locks: locks,
		cron:  cron.New(),
	}
}

// Start registers the jobs and starts the schedule
func (r *Runner) Start() error {
	if err := r.cron.AddFunc("@every 1m", r.sweepLocks); err != nil {
		return errors.Wrap(err, "scheduling lock sweep")
	}
	if err := r.cron.AddFunc("@hourly", r.purgeSessions); err != nil {
		return errors.Wrap(err, "scheduling session purge")
	}
	if err := r.cron.AddFunc("@hourly", r.purgeTokens); err != nil {
		return errors.Wrap(err, "scheduling token purge")
	}

	r.cron.Start()

	log.Info("Started background jobs")

	return nil
}

// Stop stops the schedule. Jobs already running are not interrupted.
func (r *Runner) Stop() {
	r.cron.Stop()
}

func (r *Runner) sweepLocks() {
	n := r.locks.Sweep()
	if n > 0 {
		log.WithFields(log.Fields{
			"count": n,
		}).Debug("Swept expired flashcard locks")
	}
}

// purgeSessions removes sessions past their expiry
func (r *Runner) purgeSessions() {
	res := r.db.Where("expires_at < ?", r.clock.Now()).Delete(&database.Session{})
	if res.Error != nil {
		log.ErrorWrap(res.Error, "purging expired sessions")
		return
	}

	if res.RowsAffected > 0 {
		log.WithFields(log.Fields{
			"count": res.RowsAffected,
		}).Info("Purged expired sessions")
	}
}

// purgeTokens removes used tokens and tokens past the retention window
func (r *Runner) purgeTokens() {
	cutoff := r.clock.Now().Add(-tokenTTL)

	res := r.db.
		Where("used_at IS NOT NULL OR created_at < ?", cutoff).
		Delete(&database.Token{})
	if res.Error != nil {
		log.ErrorWrap(res.Error, "purging tokens")
		return
	}

	if res.RowsAffected > 0 {
		log.WithFields(log.Fields{
			"count": res.RowsAffected,
		}).Info("Purged stale tokens")
	}
}
