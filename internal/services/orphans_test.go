package services

import (
	"context"
	"testing"

	"mindboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndPurgeOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kept, err := f.articles.Create(ctx, "kept", "C", author("u1", "n1"))
	require.NoError(t, err)
	live, err := f.comments.AddComment(ctx, kept.ID, author("u2", "n2"), "live")
	require.NoError(t, err)

	gone, err := f.articles.Create(ctx, "gone", "C", author("u1", "n1"))
	require.NoError(t, err)
	stranded, err := f.comments.AddComment(ctx, gone.ID, author("u2", "n2"), "stranded")
	require.NoError(t, err)
	strandedReply, err := f.comments.AddReply(ctx, stranded.ID, author("u3", "n3"), "under stranded")
	require.NoError(t, err)
	require.NoError(t, f.articles.Delete(ctx, gone.ID, "u1"))

	// a comment whose link step never happened
	unlinked, err := f.comments.create(ctx, kept.ID, author("u4", "n4"), "unlinked")
	require.NoError(t, err)

	orphans, err := f.comments.FindOrphans(ctx)
	require.NoError(t, err)

	reasons := map[string]string{}
	for _, o := range orphans {
		reasons[o.Comment.ID] = o.Reason
	}
	assert.Equal(t, map[string]string{
		stranded.ID:      OrphanArticleMissing,
		strandedReply.ID: OrphanArticleMissing,
		unlinked.ID:      OrphanUnreferenced,
	}, reasons)

	removed, err := f.comments.PurgeOrphans(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	var left []models.Comment
	require.NoError(t, f.db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, live.ID, left[0].ID)

	orphans, err = f.comments.FindOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	removed, err = f.comments.PurgeOrphans(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
