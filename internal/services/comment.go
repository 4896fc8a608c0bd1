package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mindboard/internal/metrics"
	"mindboard/internal/models"

	"gorm.io/gorm"
)

// errParentVanished means the parent row disappeared between creating a
// comment and linking it.
var errParentVanished = errors.New("parent record vanished")

type CommentService struct {
	db     *gorm.DB
	now    func() time.Time
	logger *slog.Logger
}

func NewCommentService(db *gorm.DB, opts ...Option) *CommentService {
	o := newOptions(opts)
	return &CommentService{db: db, now: o.now, logger: o.logger}
}

// AddComment creates a top-level comment and appends it to the article's
// comment list. The two writes are not atomic: if the second fails the
// comment is left unreferenced and reported for reconciliation.
func (s *CommentService) AddComment(ctx context.Context, articleID string, author models.AuthorSnapshot, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, s.record("add_comment", fmt.Errorf("%w: content is required", ErrValidation))
	}

	var article models.Article
	if err := s.db.WithContext(ctx).Where("id = ?", articleID).First(&article).Error; err != nil {
		return nil, s.record("add_comment", lookupErr(err, "article"))
	}

	comment, err := s.create(ctx, article.ID, author, content)
	if err != nil {
		return nil, s.record("add_comment", err)
	}

	refs := append(article.CommentIDs, comment.ID)
	if err := s.link(ctx, &models.Article{ID: article.ID}, "comment_ids", refs); err != nil {
		s.reportOrphan(comment, "article", article.ID, err)
		return nil, s.record("add_comment", fmt.Errorf("link comment to article: %w", err))
	}
	return comment, s.record("add_comment", nil)
}

// AddReply creates a reply under parentID. The reply inherits the parent's PostID.
func (s *CommentService) AddReply(ctx context.Context, parentID string, author models.AuthorSnapshot, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, s.record("add_reply", fmt.Errorf("%w: content is required", ErrValidation))
	}

	parent, err := s.find(ctx, parentID)
	if err != nil {
		return nil, s.record("add_reply", err)
	}

	reply, err := s.create(ctx, parent.PostID, author, content)
	if err != nil {
		return nil, s.record("add_reply", err)
	}

	refs := append(parent.ReplyIDs, reply.ID)
	if err := s.link(ctx, &models.Comment{ID: parent.ID}, "reply_ids", refs); err != nil {
		s.reportOrphan(reply, "comment", parent.ID, err)
		return nil, s.record("add_reply", fmt.Errorf("link reply to comment: %w", err))
	}
	return reply, s.record("add_reply", nil)
}

// Delete tombstones a comment that has replies and removes one that has none.
// It returns the tombstoned comment, or nil when the row was removed.
// Only the comment's author may delete it; article ownership is not consulted.
func (s *CommentService) Delete(ctx context.Context, commentID, acting string) (*models.Comment, error) {
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, s.record("delete", err)
	}
	if !CanMutate(acting, comment.Author.UserNum) {
		return nil, s.record("delete", fmt.Errorf("%w: only the author can delete this comment", ErrForbidden))
	}

	if len(comment.ReplyIDs) > 0 {
		err := s.db.WithContext(ctx).Model(comment).Updates(map[string]any{
			"content":    models.TombstoneContent,
			"tombstoned": true,
		}).Error
		if err != nil {
			return nil, s.record("delete", fmt.Errorf("tombstone comment: %w", err))
		}
		comment.Content = models.TombstoneContent
		comment.Tombstoned = true
		s.logger.Info("comment tombstoned", "comment_id", comment.ID, "replies", len(comment.ReplyIDs))
		return comment, s.record("delete", nil)
	}

	if err := s.db.WithContext(ctx).Delete(comment).Error; err != nil {
		return nil, s.record("delete", fmt.Errorf("delete comment: %w", err))
	}
	s.logger.Info("comment removed", "comment_id", comment.ID)
	return nil, s.record("delete", nil)
}

// Update replaces the content of a live comment.
func (s *CommentService) Update(ctx context.Context, commentID, acting, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, s.record("update", fmt.Errorf("%w: content is required", ErrValidation))
	}
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, s.record("update", err)
	}
	if !CanMutate(acting, comment.Author.UserNum) {
		return nil, s.record("update", fmt.Errorf("%w: only the author can edit this comment", ErrForbidden))
	}
	if comment.Tombstoned {
		return nil, s.record("update", fmt.Errorf("%w: comment has been deleted", ErrInvalidState))
	}

	if err := s.db.WithContext(ctx).Model(comment).Update("content", content).Error; err != nil {
		return nil, s.record("update", fmt.Errorf("update comment: %w", err))
	}
	comment.Content = content
	return comment, s.record("update", nil)
}

// View projects c for viewer with its direct replies loaded.
func (s *CommentService) View(ctx context.Context, c *models.Comment, viewer string) (CommentView, error) {
	graph := CommentGraph{}
	if err := fetchComments(ctx, s.db, c.ReplyIDs, graph); err != nil {
		return CommentView{}, err
	}
	return SanitizeComment(c, graph, viewer), nil
}

// Get loads a single comment by id.
func (s *CommentService) Get(ctx context.Context, commentID string) (*models.Comment, error) {
	return s.find(ctx, commentID)
}

func (s *CommentService) create(ctx context.Context, postID string, author models.AuthorSnapshot, content string) (*models.Comment, error) {
	now := s.now()
	comment := models.Comment{
		PostID:    postID,
		Author:    author,
		Content:   content,
		ReplyIDs:  models.StringList{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// link overwrites a reference list column. Concurrent appends to the same
// parent are last-write-wins.
func (s *CommentService) link(ctx context.Context, parent any, column string, refs models.StringList) error {
	res := s.db.WithContext(ctx).Model(parent).Update(column, refs)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errParentVanished
	}
	return nil
}

func (s *CommentService) reportOrphan(c *models.Comment, parentKind, parentID string, err error) {
	metrics.RecordOrphan()
	s.logger.Warn("comment persisted without parent reference; reconciliation needed",
		"comment_id", c.ID,
		"parent_kind", parentKind,
		"parent_id", parentID,
		"error", err,
	)
}

func (s *CommentService) find(ctx context.Context, commentID string) (*models.Comment, error) {
	if commentID == "" {
		return nil, fmt.Errorf("%w: comment does not exist", ErrNotFound)
	}
	var comment models.Comment
	if err := s.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error; err != nil {
		return nil, lookupErr(err, "comment")
	}
	return &comment, nil
}

func (s *CommentService) record(op string, err error) error {
	metrics.RecordMutation("comment", op, Class(err))
	return err
}
