package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TombstoneContent replaces the body of a deleted comment that still has replies.
const TombstoneContent = "This comment has been deleted."

// Comment is both a top-level comment and a reply. Replies carry the PostID of
// the comment they answer; parent -> child links live only in ReplyIDs.
type Comment struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	PostID     string         `gorm:"size:36;not null;index" json:"postId"`
	Author     AuthorSnapshot `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	ReplyIDs   StringList     `gorm:"type:text" json:"replies"`
	Tombstoned bool           `gorm:"not null;default:false" json:"deleted"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ReplyIDs == nil {
		c.ReplyIDs = StringList{}
	}
	return nil
}
