package handlers

import (
	"log/slog"
	"net/http"

	"mindboard/internal/middleware"
	"mindboard/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
	logger   *slog.Logger
}

func NewCommentHandler(comments *services.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type createCommentRequest struct {
	PostID  string `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type contentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *CommentHandler) Detail(c *gin.Context) {
	comment, err := h.comments.Get(c.Request.Context(), c.Param("commentId"))
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	view, err := h.comments.View(c.Request.Context(), comment, middleware.CurrentUserNum(c))
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "comment loaded", gin.H{"comment": view})
}

func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), req.PostID, user.Snapshot(), req.Content)
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusCreated, "comment created", gin.H{
		"comment": services.SanitizeComment(comment, nil, user.UserNum),
	})
}

func (h *CommentHandler) CreateReply(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	reply, err := h.comments.AddReply(c.Request.Context(), c.Param("commentId"), user.Snapshot(), req.Content)
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusCreated, "reply created", gin.H{
		"reply": services.SanitizeReply(reply, user.UserNum),
	})
}

func (h *CommentHandler) Update(c *gin.Context) {
	userNum := middleware.CurrentUserNum(c)

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), c.Param("commentId"), userNum, req.Content)
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	view, err := h.comments.View(c.Request.Context(), comment, userNum)
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "comment updated", gin.H{"comment": view})
}

// Delete tombstones or removes the comment depending on whether it has replies.
func (h *CommentHandler) Delete(c *gin.Context) {
	userNum := middleware.CurrentUserNum(c)

	tombstone, err := h.comments.Delete(c.Request.Context(), c.Param("commentId"), userNum)
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	if tombstone != nil {
		view, err := h.comments.View(c.Request.Context(), tombstone, userNum)
		if err != nil {
			RenderError(c, h.logger, err)
			return
		}
		Respond(c, http.StatusOK, "comment marked as deleted", gin.H{"comment": view})
		return
	}
	Respond(c, http.StatusOK, "comment deleted", nil)
}
