package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"mindboard/internal/metrics"
	"mindboard/internal/models"

	"gorm.io/gorm"
)

// PageSize is fixed; callers cannot change it.
const PageSize = 10

// ArticlePage is one page of sanitized articles.
type ArticlePage struct {
	Articles    []ArticleView `json:"articles"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	TotalCount  int64         `json:"totalCount"`
}

type ArticleService struct {
	db     *gorm.DB
	now    func() time.Time
	logger *slog.Logger
}

func NewArticleService(db *gorm.DB, opts ...Option) *ArticleService {
	o := newOptions(opts)
	return &ArticleService{db: db, now: o.now, logger: o.logger}
}

// Create stores a new article with an empty like set and comment list.
func (s *ArticleService) Create(ctx context.Context, title, content string, author models.AuthorSnapshot) (*models.Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, s.record("create", fmt.Errorf("%w: title is required", ErrValidation))
	}
	if strings.TrimSpace(content) == "" {
		return nil, s.record("create", fmt.Errorf("%w: content is required", ErrValidation))
	}

	now := s.now()
	article := models.Article{
		Title:      title,
		Content:    content,
		Author:     author,
		CommentIDs: models.StringList{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&article).Error; err != nil {
		return nil, s.record("create", fmt.Errorf("create article: %w", err))
	}
	s.record("create", nil)
	s.logger.Info("article created", "article_id", article.ID, "author", author.UserNum)
	return &article, nil
}

// Update merges non-blank fields into the article. Only the author may update.
func (s *ArticleService) Update(ctx context.Context, articleID, title, content, acting string) (*models.Article, error) {
	article, err := s.find(ctx, articleID)
	if err != nil {
		return nil, s.record("update", err)
	}
	if !CanMutate(acting, article.Author.UserNum) {
		return nil, s.record("update", fmt.Errorf("%w: only the author can edit this article", ErrForbidden))
	}

	if t := strings.TrimSpace(title); t != "" {
		article.Title = t
	}
	if strings.TrimSpace(content) != "" {
		article.Content = content
	}

	err = s.db.WithContext(ctx).Model(article).Updates(map[string]any{
		"title":   article.Title,
		"content": article.Content,
	}).Error
	if err != nil {
		return nil, s.record("update", fmt.Errorf("update article: %w", err))
	}
	s.record("update", nil)
	return article, nil
}

// Delete removes the article and its likes. Comments are left in place.
func (s *ArticleService) Delete(ctx context.Context, articleID, acting string) error {
	article, err := s.find(ctx, articleID)
	if err != nil {
		return s.record("delete", err)
	}
	if !CanMutate(acting, article.Author.UserNum) {
		return s.record("delete", fmt.Errorf("%w: only the author can delete this article", ErrForbidden))
	}

	if err := s.db.WithContext(ctx).Select("Likes").Delete(article).Error; err != nil {
		return s.record("delete", fmt.Errorf("delete article: %w", err))
	}
	s.logger.Info("article deleted", "article_id", article.ID, "orphaned_comments", len(article.CommentIDs))
	return s.record("delete", nil)
}

// Like adds userNum to the like set.
func (s *ArticleService) Like(ctx context.Context, articleID, userNum string) error {
	if userNum == "" {
		return s.record("like", fmt.Errorf("%w: userNum is required", ErrValidation))
	}
	article, err := s.find(ctx, articleID)
	if err != nil {
		return s.record("like", err)
	}
	if article.LikedBy(userNum) {
		return s.record("like", fmt.Errorf("%w: article already liked", ErrConflict))
	}

	like := models.ArticleLike{ArticleID: article.ID, UserNum: userNum, CreatedAt: s.now()}
	if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.record("like", fmt.Errorf("%w: article already liked", ErrConflict))
		}
		return s.record("like", fmt.Errorf("create like: %w", err))
	}
	return s.record("like", nil)
}

// Unlike removes userNum from the like set. Removing an absent like is an error.
func (s *ArticleService) Unlike(ctx context.Context, articleID, userNum string) error {
	if userNum == "" {
		return s.record("unlike", fmt.Errorf("%w: userNum is required", ErrValidation))
	}
	article, err := s.find(ctx, articleID)
	if err != nil {
		return s.record("unlike", err)
	}
	if !article.LikedBy(userNum) {
		return s.record("unlike", fmt.Errorf("%w: article is not liked", ErrInvalidState))
	}

	res := s.db.WithContext(ctx).
		Where("article_id = ? AND user_num = ?", article.ID, userNum).
		Delete(&models.ArticleLike{})
	if res.Error != nil {
		return s.record("unlike", fmt.Errorf("delete like: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		// a concurrent unlike got there first
		return s.record("unlike", fmt.Errorf("%w: article is not liked", ErrInvalidState))
	}
	return s.record("unlike", nil)
}

// List returns articles newest first. page below 1 is treated as 1.
func (s *ArticleService) List(ctx context.Context, page int, viewer string) (*ArticlePage, error) {
	return s.list(ctx, "", page, viewer)
}

// ListByAuthor is List restricted to one author's articles.
func (s *ArticleService) ListByAuthor(ctx context.Context, author string, page int, viewer string) (*ArticlePage, error) {
	if author == "" {
		return nil, fmt.Errorf("%w: author userNum is required", ErrValidation)
	}
	return s.list(ctx, author, page, viewer)
}

// GetByID returns one sanitized article.
func (s *ArticleService) GetByID(ctx context.Context, articleID, viewer string) (*ArticleView, error) {
	article, err := s.find(ctx, articleID)
	if err != nil {
		return nil, err
	}
	graph, err := loadGraph(ctx, s.db, []models.Article{*article})
	if err != nil {
		return nil, err
	}
	view := SanitizeArticle(article, graph, viewer)
	return &view, nil
}

func (s *ArticleService) list(ctx context.Context, author string, page int, viewer string) (*ArticlePage, error) {
	if page < 1 {
		page = 1
	}

	scoped := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Article{})
		if author != "" {
			q = q.Where("author_user_num = ?", author)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(PageSize)))
	// beyond this the offset overflows
	if page > math.MaxInt/PageSize {
		return &ArticlePage{
			Articles:    []ArticleView{},
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalCount:  total,
		}, nil
	}

	var articles []models.Article
	err := scoped().Preload("Likes").
		Order("created_at DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	graph, err := loadGraph(ctx, s.db, articles)
	if err != nil {
		return nil, err
	}

	views := make([]ArticleView, 0, len(articles))
	for i := range articles {
		views = append(views, SanitizeArticle(&articles[i], graph, viewer))
	}

	return &ArticlePage{
		Articles:    views,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
	}, nil
}

func (s *ArticleService) find(ctx context.Context, articleID string) (*models.Article, error) {
	if articleID == "" {
		return nil, fmt.Errorf("%w: article does not exist", ErrNotFound)
	}
	var article models.Article
	if err := s.db.WithContext(ctx).Preload("Likes").Where("id = ?", articleID).First(&article).Error; err != nil {
		return nil, lookupErr(err, "article")
	}
	return &article, nil
}

func (s *ArticleService) record(op string, err error) error {
	metrics.RecordMutation("article", op, Class(err))
	return err
}
