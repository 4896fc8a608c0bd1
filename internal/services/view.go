package services

import (
	"context"
	"fmt"
	"time"

	"mindboard/internal/models"
	"mindboard/internal/utils"

	"gorm.io/gorm"
)

// AuthorView is the only author information a viewer sees. userNum is never exposed.
type AuthorView struct {
	Nick string `json:"nick"`
}

type ArticleView struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	ContentHTML   string        `json:"contentHtml"`
	Author        AuthorView    `json:"author"`
	LikesCount    int           `json:"likesCount"`
	IsLikedByUser bool          `json:"isLikedByUser"`
	IsMyArticle   bool          `json:"isMyArticle"`
	Comments      []CommentView `json:"comments"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type CommentView struct {
	ID          string      `json:"id"`
	PostID      string      `json:"postId"`
	Author      AuthorView  `json:"author"`
	Content     string      `json:"content"`
	Deleted     bool        `json:"deleted"`
	IsMyComment bool        `json:"isMyComment"`
	Replies     []ReplyView `json:"replies"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type ReplyView struct {
	ID        string     `json:"id"`
	PostID    string     `json:"postId"`
	Author    AuthorView `json:"author"`
	Content   string     `json:"content"`
	Deleted   bool       `json:"deleted"`
	IsMyReply bool       `json:"isMyReply"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CommentGraph indexes loaded comments and replies by id. Ids missing from
// the graph are dangling references and are skipped when rendering.
type CommentGraph map[string]models.Comment

func ownedBy(owner, viewer string) bool {
	return viewer != "" && owner == viewer
}

// SanitizeArticle projects an article and its comment tree for viewer.
// It reads from its arguments only and never modifies them.
func SanitizeArticle(a *models.Article, graph CommentGraph, viewer string) ArticleView {
	view := ArticleView{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		ContentHTML:   utils.RenderMarkdown(a.Content),
		Author:        AuthorView{Nick: a.Author.Nick},
		LikesCount:    len(a.Likes),
		IsLikedByUser: viewer != "" && a.LikedBy(viewer),
		IsMyArticle:   ownedBy(a.Author.UserNum, viewer),
		Comments:      make([]CommentView, 0, len(a.CommentIDs)),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	for _, id := range a.CommentIDs {
		c, ok := graph[id]
		if !ok {
			continue
		}
		view.Comments = append(view.Comments, SanitizeComment(&c, graph, viewer))
	}
	return view
}

// SanitizeComment projects a comment with its direct replies.
func SanitizeComment(c *models.Comment, graph CommentGraph, viewer string) CommentView {
	view := CommentView{
		ID:          c.ID,
		PostID:      c.PostID,
		Author:      AuthorView{Nick: c.Author.Nick},
		Content:     c.Content,
		Deleted:     c.Tombstoned,
		IsMyComment: ownedBy(c.Author.UserNum, viewer),
		Replies:     make([]ReplyView, 0, len(c.ReplyIDs)),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, id := range c.ReplyIDs {
		r, ok := graph[id]
		if !ok {
			continue
		}
		view.Replies = append(view.Replies, SanitizeReply(&r, viewer))
	}
	return view
}

func SanitizeReply(r *models.Comment, viewer string) ReplyView {
	return ReplyView{
		ID:        r.ID,
		PostID:    r.PostID,
		Author:    AuthorView{Nick: r.Author.Nick},
		Content:   r.Content,
		Deleted:   r.Tombstoned,
		IsMyReply: ownedBy(r.Author.UserNum, viewer),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// loadGraph fetches the comments referenced by articles plus their direct replies.
func loadGraph(ctx context.Context, gdb *gorm.DB, articles []models.Article) (CommentGraph, error) {
	graph := CommentGraph{}

	var commentIDs []string
	for _, a := range articles {
		commentIDs = append(commentIDs, a.CommentIDs...)
	}
	if err := fetchComments(ctx, gdb, commentIDs, graph); err != nil {
		return nil, err
	}

	var replyIDs []string
	for _, c := range graph {
		for _, id := range c.ReplyIDs {
			if _, ok := graph[id]; !ok {
				replyIDs = append(replyIDs, id)
			}
		}
	}
	if err := fetchComments(ctx, gdb, replyIDs, graph); err != nil {
		return nil, err
	}
	return graph, nil
}

func fetchComments(ctx context.Context, gdb *gorm.DB, ids []string, graph CommentGraph) error {
	if len(ids) == 0 {
		return nil
	}
	var comments []models.Comment
	if err := gdb.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error; err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	for _, c := range comments {
		graph[c.ID] = c
	}
	return nil
}
