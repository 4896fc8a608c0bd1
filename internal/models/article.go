package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Article struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Title      string         `gorm:"not null" json:"title"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Author     AuthorSnapshot `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Likes      []ArticleLike  `gorm:"foreignKey:ArticleID" json:"likes"`
	CommentIDs StringList     `gorm:"type:text" json:"commentIds"` // ordered, top-level comments only
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ArticleLike is owned by its article. The unique index keeps one like per user.
type ArticleLike struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ArticleID string    `gorm:"size:36;not null;uniqueIndex:idx_article_like" json:"-"`
	UserNum   string    `gorm:"size:64;not null;uniqueIndex:idx_article_like" json:"userNum"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CommentIDs == nil {
		a.CommentIDs = StringList{}
	}
	return nil
}

// LikedBy reports whether userNum is in the like set.
func (a *Article) LikedBy(userNum string) bool {
	for _, l := range a.Likes {
		if l.UserNum == userNum {
			return true
		}
	}
	return false
}
