package services

import (
	"context"
	"fmt"

	"mindboard/internal/models"
)

// Orphan reasons.
const (
	OrphanArticleMissing = "article_missing"
	OrphanUnreferenced   = "unreferenced"
)

type Orphan struct {
	Comment models.Comment
	Reason  string
}

// FindOrphans scans for comments whose article no longer exists or that no
// article comment list and no reply list points at. It is a repair job for
// the non-atomic two-step writes and for articles deleted without cascading.
func (s *CommentService) FindOrphans(ctx context.Context) ([]Orphan, error) {
	var articles []models.Article
	if err := s.db.WithContext(ctx).Select("id", "comment_ids").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("scan articles: %w", err)
	}
	var comments []models.Comment
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("scan comments: %w", err)
	}

	articleIDs := make(map[string]struct{}, len(articles))
	referenced := make(map[string]struct{})
	for _, a := range articles {
		articleIDs[a.ID] = struct{}{}
		for _, id := range a.CommentIDs {
			referenced[id] = struct{}{}
		}
	}
	for _, c := range comments {
		for _, id := range c.ReplyIDs {
			referenced[id] = struct{}{}
		}
	}

	var orphans []Orphan
	for _, c := range comments {
		if _, ok := articleIDs[c.PostID]; !ok {
			orphans = append(orphans, Orphan{Comment: c, Reason: OrphanArticleMissing})
			continue
		}
		if _, ok := referenced[c.ID]; !ok {
			orphans = append(orphans, Orphan{Comment: c, Reason: OrphanUnreferenced})
		}
	}
	return orphans, nil
}

// PurgeOrphans removes every orphan together with the replies reachable from it
// and returns the number of rows removed.
func (s *CommentService) PurgeOrphans(ctx context.Context) (int64, error) {
	orphans, err := s.FindOrphans(ctx)
	if err != nil {
		return 0, err
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	var comments []models.Comment
	if err := s.db.WithContext(ctx).Select("id", "reply_ids").Find(&comments).Error; err != nil {
		return 0, fmt.Errorf("scan comments: %w", err)
	}
	children := make(map[string][]string, len(comments))
	for _, c := range comments {
		children[c.ID] = c.ReplyIDs
	}

	doomed := make(map[string]struct{})
	queue := make([]string, 0, len(orphans))
	for _, o := range orphans {
		queue = append(queue, o.Comment.ID)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := doomed[id]; seen {
			continue
		}
		doomed[id] = struct{}{}
		queue = append(queue, children[id]...)
	}

	ids := make([]string, 0, len(doomed))
	for id := range doomed {
		ids = append(ids, id)
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Comment{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge orphans: %w", res.Error)
	}
	s.logger.Info("orphaned comments purged", "orphans", len(orphans), "removed", res.RowsAffected)
	return res.RowsAffected, nil
}
