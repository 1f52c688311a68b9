package jobs

import (
	"errors"
	"testing"
	"time"

	"brutarie/internal/cache"
	"brutarie/internal/email"
	"brutarie/internal/models"
	"brutarie/internal/repositories"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingMailer struct {
	sent    []email.Message
	failFor map[string]bool
}

func (m *recordingMailer) Send(msg email.Message) error {
	for _, to := range msg.To {
		if m.failFor[to] {
			return errors.New("relay refused recipient")
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

var testNow = time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

func newTestJobs(users repositories.UserRepository, promotions repositories.PromotionRepository,
	store *cache.Store, mailer email.Mailer) *Jobs {
	j := New(users, promotions, store, mailer, zap.NewNop(), Config{
		AccountExpiryWindow: 2 * time.Minute,
		NewsletterMinAge:    60 * time.Minute,
		EmailFrom:           "noreply@test.local",
	})
	j.now = func() time.Time { return testNow }
	return j
}

func addUser(t *testing.T, users *repositories.MockUserRepository, u models.User) models.User {
	t.Helper()
	assert.NoError(t, users.Create(&u))
	return u
}

func TestExpireUnconfirmedAccounts(t *testing.T) {
	users := repositories.NewMockUserRepository()
	mailer := &recordingMailer{}
	j := newTestJobs(users, repositories.NewMockPromotionRepository(), cache.New(time.Minute), mailer)

	stale := addUser(t, users, models.User{Username: "stale", EmailConfirmed: false,
		DateJoined: testNow.Add(-5 * time.Minute)})
	fresh := addUser(t, users, models.User{Username: "fresh", EmailConfirmed: false,
		DateJoined: testNow.Add(-1 * time.Minute)})
	confirmed := addUser(t, users, models.User{Username: "confirmed", EmailConfirmed: true,
		DateJoined: testNow.Add(-5 * time.Minute)})
	admin := addUser(t, users, models.User{Username: "admin", EmailConfirmed: false,
		Superuser: true, DateJoined: testNow.Add(-5 * time.Minute)})

	assert.NoError(t, j.ExpireUnconfirmedAccounts())

	_, err := users.GetByID(stale.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	for _, kept := range []models.User{fresh, confirmed, admin} {
		_, err := users.GetByID(kept.ID)
		assert.NoError(t, err, "user %s should survive", kept.Username)
	}

	// A second run with nothing left to expire is a no-op.
	assert.NoError(t, j.ExpireUnconfirmedAccounts())
}

func TestSendNewsletter(t *testing.T) {
	users := repositories.NewMockUserRepository()
	mailer := &recordingMailer{failFor: map[string]bool{"bad@example.com": true}}
	j := newTestJobs(users, repositories.NewMockPromotionRepository(), cache.New(time.Minute), mailer)

	addUser(t, users, models.User{Username: "old", Email: "old@example.com",
		DateJoined: testNow.Add(-2 * time.Hour)})
	addUser(t, users, models.User{Username: "bad", Email: "bad@example.com",
		DateJoined: testNow.Add(-2 * time.Hour)})
	addUser(t, users, models.User{Username: "new", Email: "new@example.com",
		DateJoined: testNow.Add(-10 * time.Minute)})

	assert.NoError(t, j.SendNewsletter())

	// The young account is excluded; the failing recipient is skipped without
	// aborting the batch.
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"old@example.com"}, mailer.sent[0].To)
	assert.Equal(t, "Newsletter", mailer.sent[0].Subject)
}

func TestClearCache(t *testing.T) {
	store := cache.New(time.Minute)
	store.Set("a", 1)
	store.Set("b", 2)
	j := newTestJobs(repositories.NewMockUserRepository(), repositories.NewMockPromotionRepository(),
		store, &recordingMailer{})

	assert.Equal(t, 2, store.Len())
	assert.NoError(t, j.ClearCache())
	assert.Equal(t, 0, store.Len())
}

func TestDeactivateExpiredPromotions(t *testing.T) {
	users := repositories.NewMockUserRepository()
	promotions := repositories.NewMockPromotionRepository()
	mailer := &recordingMailer{}
	j := newTestJobs(users, promotions, cache.New(time.Minute), mailer)

	addUser(t, users, models.User{Username: "admin", Email: "admin@example.com", Superuser: true})
	addUser(t, users, models.User{Username: "plain", Email: "plain@example.com"})

	expired := models.Promotion{Name: "Summer Sale", IsActive: true,
		StartDate: testNow.AddDate(0, -1, 0), EndDate: testNow.AddDate(0, 0, -1)}
	running := models.Promotion{Name: "Autumn Sale", IsActive: true,
		StartDate: testNow.AddDate(0, 0, -1), EndDate: testNow.AddDate(0, 1, 0)}
	alreadyOff := models.Promotion{Name: "Old Sale", IsActive: false,
		StartDate: testNow.AddDate(0, -2, 0), EndDate: testNow.AddDate(0, -1, 0)}
	assert.NoError(t, promotions.Create(&expired))
	assert.NoError(t, promotions.Create(&running))
	assert.NoError(t, promotions.Create(&alreadyOff))

	assert.NoError(t, j.DeactivateExpiredPromotions())

	got, err := promotions.GetByID(expired.ID)
	assert.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = promotions.GetByID(running.ID)
	assert.NoError(t, err)
	assert.True(t, got.IsActive)

	// Only superusers get the summary, and only for the flipped promotion.
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, "Weekly Promotion Cleanup Report", mailer.sent[0].Subject)
	assert.Equal(t, []string{"admin@example.com"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "Summer Sale")
	assert.NotContains(t, mailer.sent[0].Body, "Old Sale")

	// Re-running finds nothing active and sends no second report.
	assert.NoError(t, j.DeactivateExpiredPromotions())
	assert.Len(t, mailer.sent, 1)
}

func TestDeactivateExpiredPromotionsReportFailureIsNotFatal(t *testing.T) {
	users := repositories.NewMockUserRepository()
	promotions := repositories.NewMockPromotionRepository()
	mailer := &recordingMailer{failFor: map[string]bool{"admin@example.com": true}}
	j := newTestJobs(users, promotions, cache.New(time.Minute), mailer)

	addUser(t, users, models.User{Username: "admin", Email: "admin@example.com", Superuser: true})
	expired := models.Promotion{Name: "Summer Sale", IsActive: true,
		EndDate: testNow.AddDate(0, 0, -1)}
	assert.NoError(t, promotions.Create(&expired))

	// The deactivation sticks even when the report cannot be delivered.
	assert.NoError(t, j.DeactivateExpiredPromotions())
	got, err := promotions.GetByID(expired.ID)
	assert.NoError(t, err)
	assert.False(t, got.IsActive)
}
