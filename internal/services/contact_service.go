package services

import (
	"strings"
	"time"

	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/validation"

	"github.com/go-playground/validator/v10"
)

// ContactSubmission is the typed payload of the contact form.
type ContactSubmission struct {
	FirstName    string `json:"first_name" validate:"required,max=50,titlecase_text"`
	LastName     string `json:"last_name" validate:"required,max=50,titlecase_text"`
	BirthDate    string `json:"birth_date" validate:"required"` // YYYY-MM-DD
	Email        string `json:"email" validate:"required,email"`
	ConfirmEmail string `json:"confirm_email" validate:"required,email"`
	MessageType  string `json:"message_type" validate:"required,oneof=complaint question review request appointment"`
	Subject      string `json:"subject" validate:"required,max=200,titlecase_text"`
	Message      string `json:"message" validate:"required"`
}

// ContactService validates contact form submissions and stores them as
// durable, append-only records.
type ContactService struct {
	repo     repositories.ContactRepository
	validate *validator.Validate

	// now is swappable in tests for age calculations.
	now func() time.Time
}

// NewContactService creates a new ContactService.
func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{
		repo:     repo,
		validate: validation.New(),
		now:      time.Now,
	}
}

// Submit validates the submission and persists it. Field rules surface as
// field-scoped errors; the cross-field rules surface as a single non-field
// error, checked in order: matching emails, adult age, word count, links,
// signature.
func (s *ContactService) Submit(sub ContactSubmission) (*models.ContactMessage, error) {
	if err := s.validate.Struct(sub); err != nil {
		return nil, validation.Collect(err)
	}
	birthDate, err := time.Parse("2006-01-02", sub.BirthDate)
	if err != nil {
		return nil, validation.FieldErrors{"birth_date": "Enter a valid date (YYYY-MM-DD)."}
	}

	if sub.Email != sub.ConfirmEmail {
		return nil, validation.FieldErrors{validation.NonFieldKey: "The emails must match."}
	}

	today := s.now()
	if validation.AgeYears(birthDate, today) < 18 {
		return nil, validation.FieldErrors{validation.NonFieldKey: "You must be at least 18 years old to submit the form."}
	}

	message := validation.NormalizeMessage(sub.Message)
	if words := validation.WordCount(message); words < 5 || words > 100 {
		return nil, validation.FieldErrors{validation.NonFieldKey: "Message must contain between 5 and 100 words."}
	}
	if validation.ContainsURL(message) {
		return nil, validation.FieldErrors{validation.NonFieldKey: "The message cannot contain links."}
	}

	signature := sub.FirstName + " " + sub.LastName
	if !strings.HasSuffix(message, signature) {
		return nil, validation.FieldErrors{validation.NonFieldKey: "Your message must end with your full name (signature)."}
	}

	record := &models.ContactMessage{
		FirstName:   sub.FirstName,
		LastName:    sub.LastName,
		Email:       sub.Email,
		MessageType: sub.MessageType,
		Subject:     sub.Subject,
		Message:     message,
		Age:         validation.AgeDescription(birthDate, today),
	}
	if err := s.repo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}
