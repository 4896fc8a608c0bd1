package handlers

import (
	"log/slog"
	"net/http"

	"mindboard/internal/auth"
	"mindboard/internal/middleware"
	"mindboard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users  *services.UserService
	tokens *auth.Issuer
	logger *slog.Logger
}

func NewAuthHandler(users *services.UserService, tokens *auth.Issuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

type registerRequest struct {
	UserNum  string   `json:"userNum" binding:"required"`
	Nick     string   `json:"nick" binding:"required,min=1,max=10"`
	Age      *int     `json:"age" binding:"required,min=0"`
	Gender   string   `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	Job      string   `json:"job" binding:"required,oneof=STUDENT HOUSEWIFE WORKER PROFESSIONAL OTHER"`
	Favorite []string `json:"favorite" binding:"max=3,dive,min=1,max=30"`
}

// Register creates the user, issues a token and signs the session in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		UserNum:  req.UserNum,
		Nick:     req.Nick,
		Age:      *req.Age,
		Gender:   req.Gender,
		Job:      req.Job,
		Favorite: req.Favorite,
	})
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(user.UserNum)
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.UserNum)
	if err := session.Save(); err != nil {
		h.logger.Warn("save session failed", "user_num", user.UserNum, "error", err)
	}

	Respond(c, http.StatusCreated, "registration completed", gin.H{"token": token, "user": user})
}

// CheckNickname reports whether ?nick= is still free.
func (h *AuthHandler) CheckNickname(c *gin.Context) {
	if err := h.users.NickAvailable(c.Request.Context(), c.Query("nick")); err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "nickname is available", nil)
}

// CheckExistUser reports whether a userNum has registered. It never issues credentials.
func (h *AuthHandler) CheckExistUser(c *gin.Context) {
	_, err := h.users.FindByNum(c.Request.Context(), c.Param("userNum"))
	switch {
	case err == nil:
		Respond(c, http.StatusOK, "user exists", gin.H{"exists": true})
	case isNotFound(err):
		Respond(c, http.StatusOK, "user does not exist", gin.H{"exists": false})
	default:
		RenderError(c, h.logger, err)
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		h.logger.Warn("clear session failed", "error", err)
	}
	Respond(c, http.StatusOK, "signed out", nil)
}
