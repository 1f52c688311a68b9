// Package jobs implements the periodic maintenance tasks run by the
// scheduler process: stale-account cleanup, newsletter dispatch, cache
// clearing, and promotion expiry.
package jobs

import (
	"fmt"
	"strings"
	"time"

	"brutarie/internal/cache"
	"brutarie/internal/email"
	"brutarie/internal/repositories"

	"go.uber.org/zap"
)

// Config bounds the time-based jobs.
type Config struct {
	// AccountExpiryWindow is how long an unconfirmed account survives.
	AccountExpiryWindow time.Duration
	// NewsletterMinAge is the minimum account age for newsletter delivery.
	NewsletterMinAge time.Duration
	// EmailFrom is the sender address for all job emails.
	EmailFrom string
}

// Jobs bundles the maintenance tasks with their collaborators.
type Jobs struct {
	users      repositories.UserRepository
	promotions repositories.PromotionRepository
	store      *cache.Store
	mailer     email.Mailer
	logger     *zap.Logger
	cfg        Config

	// now is swappable in tests.
	now func() time.Time
}

// New creates the job bundle.
func New(users repositories.UserRepository, promotions repositories.PromotionRepository,
	store *cache.Store, mailer email.Mailer, logger *zap.Logger, cfg Config) *Jobs {
	return &Jobs{
		users:      users,
		promotions: promotions,
		store:      store,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// ExpireUnconfirmedAccounts permanently deletes accounts that never confirmed
// their email within the expiry window. Superusers are never touched.
// Re-running with no qualifying accounts deletes nothing.
func (j *Jobs) ExpireUnconfirmedAccounts() error {
	cutoff := j.now().Add(-j.cfg.AccountExpiryWindow)
	deleted, err := j.users.DeleteUnconfirmedBefore(cutoff)
	if err != nil {
		return fmt.Errorf("account expiry: %w", err)
	}
	j.logger.Info("expired unconfirmed accounts", zap.Int64("deleted", deleted))
	return nil
}

// SendNewsletter mails the fixed newsletter to every account older than the
// configured minimum age. A failed send is logged and skipped; the batch
// continues. Note: there is no sent-log, so each run resends to every
// qualifying account.
func (j *Jobs) SendNewsletter() error {
	cutoff := j.now().Add(-j.cfg.NewsletterMinAge)
	users, err := j.users.ListJoinedBefore(cutoff)
	if err != nil {
		return fmt.Errorf("newsletter: %w", err)
	}

	sent := 0
	for _, user := range users {
		msg := email.Message{
			Subject: "Newsletter",
			Body:    "Check out our new discount offer!",
			From:    j.cfg.EmailFrom,
			To:      []string{user.Email},
		}
		if err := j.mailer.Send(msg); err != nil {
			j.logger.Warn("newsletter send failed",
				zap.String("email", user.Email), zap.Error(err))
			continue
		}
		sent++
	}
	j.logger.Info("newsletter dispatched",
		zap.Int("sent", sent), zap.Int("recipients", len(users)))
	return nil
}

// ClearCache evicts everything from the shared ephemeral cache.
func (j *Jobs) ClearCache() error {
	j.store.Clear()
	j.logger.Info("cache cleared")
	return nil
}

// DeactivateExpiredPromotions flips past-end-date promotions to inactive and
// mails all superusers a summary. The IsActive guard makes re-runs no-ops,
// and a failed summary email never rolls back the deactivations.
func (j *Jobs) DeactivateExpiredPromotions() error {
	now := j.now()
	expired, err := j.promotions.FindExpiredActive(now)
	if err != nil {
		return fmt.Errorf("promotion cleanup: %w", err)
	}
	if len(expired) == 0 {
		j.logger.Info("no expired promotions")
		return nil
	}

	var lines []string
	for i := range expired {
		expired[i].IsActive = false
		if err := j.promotions.Update(&expired[i]); err != nil {
			return fmt.Errorf("promotion cleanup: %w", err)
		}
		lines = append(lines, fmt.Sprintf("%s (ended on %s)",
			expired[i].Name, expired[i].EndDate.Format("2006-01-02")))
	}

	admins, err := j.users.ListSuperusers()
	if err != nil {
		j.logger.Warn("promotion cleanup: failed to list admins", zap.Error(err))
	} else if len(admins) > 0 {
		recipients := make([]string, 0, len(admins))
		for _, admin := range admins {
			recipients = append(recipients, admin.Email)
		}
		msg := email.Message{
			Subject: "Weekly Promotion Cleanup Report",
			Body: "The following promotions have been deactivated:\n" +
				strings.Join(lines, "\n"),
			From: j.cfg.EmailFrom,
			To:   recipients,
		}
		if err := j.mailer.Send(msg); err != nil {
			j.logger.Warn("promotion cleanup: failed to send admin report", zap.Error(err))
		}
	}

	j.logger.Info("deactivated expired promotions", zap.Int("count", len(expired)))
	return nil
}
