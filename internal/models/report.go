package models

import (
	"time"
)

// AIReport is an append-only self-assessment entry. Rows are never updated.
type AIReport struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"-"`
	SelectOption string     `gorm:"size:50;not null" json:"selectOption"`
	FormData     StringList `gorm:"type:text" json:"formData"`
	AnswerData   StringList `gorm:"type:text" json:"answerData"`
	ReportValue  string     `gorm:"type:text;not null" json:"reportValue"`
	CreatedAt    time.Time  `json:"createdAt"`
}
