package services

import (
	"testing"
	"time"

	"mindboard/internal/db/dbtest"
	"mindboard/internal/models"

	"gorm.io/gorm"
)

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	db       *gorm.DB
	articles *ArticleService
	comments *CommentService
	users    *UserService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	clock := stepClock()
	return fixture{
		db:       gdb,
		articles: NewArticleService(gdb, WithClock(clock)),
		comments: NewCommentService(gdb, WithClock(clock)),
		users:    NewUserService(gdb),
	}
}

func author(userNum, nick string) models.AuthorSnapshot {
	return models.AuthorSnapshot{UserNum: userNum, Nick: nick}
}
