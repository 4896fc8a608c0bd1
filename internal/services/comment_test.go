package services

import (
	"context"
	"errors"
	"testing"

	"mindboard/internal/metrics"
	"mindboard/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAddCommentLinksArticle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)

	c1, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "first")
	require.NoError(t, err)
	c2, err := f.comments.AddComment(ctx, a.ID, author("u3", "n3"), "second")
	require.NoError(t, err)

	assert.Equal(t, a.ID, c1.PostID)
	assert.Empty(t, c1.ReplyIDs)

	var stored models.Article
	require.NoError(t, f.db.First(&stored, "id = ?", a.ID).Error)
	assert.Equal(t, models.StringList{c1.ID, c2.ID}, stored.CommentIDs)
}

func TestAddCommentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.comments.AddComment(ctx, "missing", author("u2", "n2"), "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	_, err = f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "   ")
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, f.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddReplyInheritsPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	c, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "hi")
	require.NoError(t, err)

	r, err := f.comments.AddReply(ctx, c.ID, author("u3", "n3"), "hello back")
	require.NoError(t, err)
	assert.Equal(t, a.ID, r.PostID)

	parent, err := f.comments.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{r.ID}, parent.ReplyIDs)

	var stored models.Article
	require.NoError(t, f.db.First(&stored, "id = ?", a.ID).Error)
	assert.Equal(t, models.StringList{c.ID}, stored.CommentIDs, "replies are not listed on the article")

	_, err = f.comments.AddReply(ctx, "missing", author("u3", "n3"), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLeafRemovesComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	c, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "hi")
	require.NoError(t, err)

	tomb, err := f.comments.Delete(ctx, c.ID, "u2")
	require.NoError(t, err)
	assert.Nil(t, tomb)

	_, err = f.comments.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err := f.articles.GetByID(ctx, a.ID, "")
	require.NoError(t, err)
	assert.Empty(t, view.Comments, "dangling ids are skipped")
}

func TestDeleteWithRepliesTombstones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	c, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "hi")
	require.NoError(t, err)
	r, err := f.comments.AddReply(ctx, c.ID, author("u3", "n3"), "reply")
	require.NoError(t, err)

	tomb, err := f.comments.Delete(ctx, c.ID, "u2")
	require.NoError(t, err)
	require.NotNil(t, tomb)
	assert.Equal(t, models.TombstoneContent, tomb.Content)

	stored, err := f.comments.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TombstoneContent, stored.Content)
	assert.True(t, stored.Tombstoned)
	assert.Equal(t, models.StringList{r.ID}, stored.ReplyIDs)

	_, err = f.comments.Update(ctx, c.ID, "u2", "back again")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCommentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// the article author has no say over other people's comments
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	c, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "hi")
	require.NoError(t, err)

	before, err := f.comments.Get(ctx, c.ID)
	require.NoError(t, err)

	_, err = f.comments.Update(ctx, c.ID, "u1", "edited")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.comments.Delete(ctx, c.ID, "u1")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.comments.Delete(ctx, c.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)

	after, err := f.comments.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCommentUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	c, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "hi")
	require.NoError(t, err)

	updated, err := f.comments.Update(ctx, c.ID, "u2", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = f.comments.Update(ctx, c.ID, "u2", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.comments.Update(ctx, "missing", "u2", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTombstoneScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	c, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "hi")
	require.NoError(t, err)
	r, err := f.comments.AddReply(ctx, c.ID, author("u3", "n3"), "reply from u3")
	require.NoError(t, err)

	_, err = f.comments.Delete(ctx, c.ID, "u2")
	require.NoError(t, err)

	stored, err := f.comments.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TombstoneContent, stored.Content)
	assert.Contains(t, stored.ReplyIDs, r.ID)

	view, err := f.articles.GetByID(ctx, a.ID, "u3")
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, models.TombstoneContent, view.Comments[0].Content)
	assert.True(t, view.Comments[0].Deleted)
	require.Len(t, view.Comments[0].Replies, 1)
	assert.Equal(t, "reply from u3", view.Comments[0].Replies[0].Content)
	assert.True(t, view.Comments[0].Replies[0].IsMyReply)
}

func TestCommentViewLoadsReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	c, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "hi")
	require.NoError(t, err)
	_, err = f.comments.AddReply(ctx, c.ID, author("u3", "n3"), "one")
	require.NoError(t, err)

	tomb, err := f.comments.Delete(ctx, c.ID, "u2")
	require.NoError(t, err)

	view, err := f.comments.View(ctx, tomb, "u2")
	require.NoError(t, err)
	assert.True(t, view.Deleted)
	assert.True(t, view.IsMyComment)
	require.Len(t, view.Replies, 1)
	assert.Equal(t, "one", view.Replies[0].Content)
}

func TestFailedLinkLeavesOrphan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	parent, err := f.comments.AddComment(ctx, a.ID, author("u2", "n2"), "parent")
	require.NoError(t, err)

	// every UPDATE fails from here on, so only the link step breaks
	errWrite := errors.New("write refused")
	err = f.db.Callback().Update().Before("gorm:update").Register("test:refuse_update", func(tx *gorm.DB) {
		_ = tx.AddError(errWrite)
	})
	require.NoError(t, err)

	before := testutil.ToFloat64(metrics.OrphanedCommentsTotal)

	_, err = f.comments.AddComment(ctx, a.ID, author("u3", "n3"), "lost comment")
	require.ErrorIs(t, err, errWrite)
	assert.Equal(t, "internal", Class(err))

	_, err = f.comments.AddReply(ctx, parent.ID, author("u4", "n4"), "lost reply")
	require.ErrorIs(t, err, errWrite)
	assert.Equal(t, "internal", Class(err))

	assert.Equal(t, before+2, testutil.ToFloat64(metrics.OrphanedCommentsTotal))

	var rows []models.Comment
	require.NoError(t, f.db.Where("content IN ?", []string{"lost comment", "lost reply"}).Find(&rows).Error)
	require.Len(t, rows, 2, "step one is not rolled back")

	orphans, err := f.comments.FindOrphans(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 2)
	for _, o := range orphans {
		assert.Equal(t, OrphanUnreferenced, o.Reason)
		assert.NotEqual(t, parent.ID, o.Comment.ID)
	}
}

func TestLinkToVanishedParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.articles.Create(ctx, "T", "C", author("u1", "n1"))
	require.NoError(t, err)
	c, err := f.comments.create(ctx, a.ID, author("u2", "n2"), "hi")
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&models.Article{ID: a.ID}).Error)

	err = f.comments.link(ctx, &models.Article{ID: a.ID}, "comment_ids", models.StringList{c.ID})
	assert.ErrorIs(t, err, errParentVanished)
	assert.Equal(t, "internal", Class(err))

	_, err = f.comments.Get(ctx, c.ID)
	assert.NoError(t, err)
}
