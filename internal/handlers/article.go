package handlers

import (
	"log/slog"
	"net/http"

	"mindboard/internal/middleware"
	"mindboard/internal/services"
	"mindboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articles *services.ArticleService
	logger   *slog.Logger
}

func NewArticleHandler(articles *services.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, logger: logger}
}

type createArticleRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Blank fields keep their stored values.
type updateArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *ArticleHandler) List(c *gin.Context) {
	page, err := h.articles.List(c.Request.Context(), utils.ParsePage(c.Query("page")), middleware.CurrentUserNum(c))
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "articles loaded", page)
}

func (h *ArticleHandler) ListByAuthor(c *gin.Context) {
	page, err := h.articles.ListByAuthor(c.Request.Context(), c.Param("userNum"), utils.ParsePage(c.Query("page")), middleware.CurrentUserNum(c))
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "articles loaded", page)
}

func (h *ArticleHandler) Detail(c *gin.Context) {
	view, err := h.articles.GetByID(c.Request.Context(), c.Param("articleId"), middleware.CurrentUserNum(c))
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "article loaded", view)
}

// Create publishes an article authored by the signed-in user.
func (h *ArticleHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	article, err := h.articles.Create(c.Request.Context(), req.Title, req.Content, user.Snapshot())
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	view := services.SanitizeArticle(article, nil, user.UserNum)
	Respond(c, http.StatusCreated, "article created", view)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	userNum := middleware.CurrentUserNum(c)

	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if _, err := h.articles.Update(c.Request.Context(), c.Param("articleId"), req.Title, req.Content, userNum); err != nil {
		RenderError(c, h.logger, err)
		return
	}
	view, err := h.articles.GetByID(c.Request.Context(), c.Param("articleId"), userNum)
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "article updated", view)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), c.Param("articleId"), middleware.CurrentUserNum(c)); err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "article deleted", nil)
}

func (h *ArticleHandler) Like(c *gin.Context) {
	if err := h.articles.Like(c.Request.Context(), c.Param("articleId"), middleware.CurrentUserNum(c)); err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "article liked", nil)
}

func (h *ArticleHandler) Unlike(c *gin.Context) {
	if err := h.articles.Unlike(c.Request.Context(), c.Param("articleId"), middleware.CurrentUserNum(c)); err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "like removed", nil)
}
