package models

import (
	"time"
)

// Gender values accepted at registration.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Job values accepted at registration.
const (
	JobStudent      = "STUDENT"
	JobHousewife    = "HOUSEWIFE"
	JobWorker       = "WORKER"
	JobProfessional = "PROFESSIONAL"
	JobOther        = "OTHER"
)

type User struct {
	ID        uint       `gorm:"primaryKey" json:"-"`
	UserNum   string     `gorm:"uniqueIndex;size:64;not null" json:"userNum"` // external identifier
	Nick      string     `gorm:"uniqueIndex;size:30;not null" json:"nick"`
	Age       int        `gorm:"not null" json:"age"`
	Gender    string     `gorm:"size:10;not null" json:"gender"`
	Job       string     `gorm:"size:20;not null" json:"job"`
	Favorite  StringList `gorm:"type:text" json:"favorite"` // at most 3 topic tags
	Reports   []AIReport `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Snapshot captures the author fields copied into articles and comments.
func (u *User) Snapshot() AuthorSnapshot {
	return AuthorSnapshot{UserNum: u.UserNum, Nick: u.Nick}
}

// AuthorSnapshot is copied at creation time and never refreshed, so a later
// nickname change does not rewrite history.
type AuthorSnapshot struct {
	UserNum string `gorm:"size:64;not null;index" json:"userNum"`
	Nick    string `gorm:"size:30;not null" json:"nick"`
}
