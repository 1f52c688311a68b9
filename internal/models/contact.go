package models

import "gorm.io/gorm"

// Accepted contact message types.
var ContactMessageTypes = []string{"complaint", "question", "review", "request", "appointment"}

// ContactMessage is a durable record of a validated contact form submission.
// Rows are written once and never mutated.
type ContactMessage struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FirstName   string `json:"first_name" gorm:"type:varchar(50)"`
	LastName    string `json:"last_name" gorm:"type:varchar(50)"`
	Email       string `json:"email" gorm:"type:varchar(255)"`
	MessageType string `json:"message_type" gorm:"type:varchar(20)"`
	Subject     string `json:"subject" gorm:"type:varchar(200)"`
	Message     string `json:"message"` // normalized: single spaces, trimmed
	Age         string `json:"age" gorm:"type:varchar(50)"` // "X years and Y months" at submission
	gorm.Model  `json:"-"`
}
