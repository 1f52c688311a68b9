package services

import (
	"testing"
	"time"

	"brutarie/internal/models"
	"brutarie/internal/validation"

	"github.com/stretchr/testify/assert"
)

type contactRepoStub struct {
	records []models.ContactMessage
}

func (r *contactRepoStub) Create(message *models.ContactMessage) error {
	r.records = append(r.records, *message)
	return nil
}

func (r *contactRepoStub) GetAll() ([]models.ContactMessage, error) {
	return r.records, nil
}

func validContactSubmission() ContactSubmission {
	return ContactSubmission{
		FirstName:    "Maria",
		LastName:     "Ionescu",
		BirthDate:    "1990-03-10",
		Email:        "maria@example.com",
		ConfirmEmail: "maria@example.com",
		MessageType:  "question",
		Subject:      "Opening Hours",
		Message:      "Are you open on Sunday mornings? Maria Ionescu",
	}
}

func newContactService(repo *contactRepoStub) *ContactService {
	service := NewContactService(repo)
	service.now = func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	return service
}

func TestContactService_Submit(t *testing.T) {
	repo := &contactRepoStub{}
	service := newContactService(repo)

	record, err := service.Submit(validContactSubmission())
	assert.NoError(t, err)
	assert.Equal(t, "Maria", record.FirstName)
	assert.Equal(t, "35 years and 3 months", record.Age)
	assert.Len(t, repo.records, 1)
}

func TestContactService_SubmitNormalizesMessage(t *testing.T) {
	repo := &contactRepoStub{}
	service := newContactService(repo)

	sub := validContactSubmission()
	sub.Message = "  Are you open\non Sunday   mornings?\n\nMaria Ionescu  "
	record, err := service.Submit(sub)
	assert.NoError(t, err)
	assert.Equal(t, "Are you open on Sunday mornings? Maria Ionescu", record.Message)
}

func TestContactService_SubmitCrossFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContactSubmission)
		wantMsg string
	}{
		{
			"mismatched emails",
			func(s *ContactSubmission) { s.ConfirmEmail = "other@example.com" },
			"The emails must match.",
		},
		{
			"under eighteen",
			func(s *ContactSubmission) { s.BirthDate = "2008-01-01" },
			"You must be at least 18 years old to submit the form.",
		},
		{
			"seventeen until tomorrow",
			func(s *ContactSubmission) { s.BirthDate = "2007-06-16" },
			"You must be at least 18 years old to submit the form.",
		},
		{
			"too few words",
			func(s *ContactSubmission) { s.Message = "Hello Maria Ionescu" },
			"Message must contain between 5 and 100 words.",
		},
		{
			"contains link",
			func(s *ContactSubmission) { s.Message = "Please look at https://example.com today. Maria Ionescu" },
			"The message cannot contain links.",
		},
		{
			"missing signature",
			func(s *ContactSubmission) { s.Message = "Are you open on Sunday mornings at all?" },
			"Your message must end with your full name (signature).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &contactRepoStub{}
			service := newContactService(repo)

			sub := validContactSubmission()
			tt.mutate(&sub)
			_, err := service.Submit(sub)
			var fieldErrs validation.FieldErrors
			assert.ErrorAs(t, err, &fieldErrs)
			assert.Equal(t, tt.wantMsg, fieldErrs[validation.NonFieldKey])
			assert.Empty(t, repo.records)
		})
	}
}

func TestContactService_SubmitFieldRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ContactSubmission)
		wantField string
	}{
		{"lowercase first name", func(s *ContactSubmission) { s.FirstName = "maria" }, "first_name"},
		{"numeric subject", func(s *ContactSubmission) { s.Subject = "Order 42" }, "subject"},
		{"unknown message type", func(s *ContactSubmission) { s.MessageType = "spam" }, "message_type"},
		{"missing message", func(s *ContactSubmission) { s.Message = "" }, "message"},
		{"invalid email", func(s *ContactSubmission) { s.Email = "not-an-email" }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &contactRepoStub{}
			service := newContactService(repo)

			sub := validContactSubmission()
			tt.mutate(&sub)
			_, err := service.Submit(sub)
			var fieldErrs validation.FieldErrors
			assert.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tt.wantField)
			assert.Empty(t, repo.records)
		})
	}
}

func TestContactService_SubmitExactlyFiveWords(t *testing.T) {
	repo := &contactRepoStub{}
	service := newContactService(repo)

	// Five words, signature included, is the minimum accepted length.
	sub := validContactSubmission()
	sub.Message = "Sunday opening hours? Maria Ionescu"
	_, err := service.Submit(sub)
	assert.NoError(t, err)
}
