package router

import (
	"log/slog"

	"mindboard/internal/auth"
	"mindboard/internal/handlers"
	"mindboard/internal/middleware"
	"mindboard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionName = "mindboard_session"

// Deps carries everything the routes need.
type Deps struct {
	Users         *services.UserService
	Articles      *services.ArticleService
	Comments      *services.CommentService
	Reports       *services.ReportService
	Forms         *services.FormService
	Tokens        *auth.Issuer
	SessionSecret string
	Logger        *slog.Logger
}

// New builds the engine with middleware and all routes registered.
func New(d Deps) *gin.Engine {
	handlers.RegisterValidation()

	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 7 * 24 * 3600})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.Observe(d.Logger))
	r.Use(middleware.LoadUser(d.Tokens, d.Users))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(r.Group("/api/v1"), d)
	return r
}

func RegisterRoutes(api *gin.RouterGroup, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Users, d.Tokens, d.Logger)
	articleHandler := handlers.NewArticleHandler(d.Articles, d.Logger)
	commentHandler := handlers.NewCommentHandler(d.Comments, d.Logger)
	formHandler := handlers.NewFormHandler(d.Forms, d.Logger)
	reportHandler := handlers.NewReportHandler(d.Reports, d.Logger)

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.GET("/auth/check-nickname", authHandler.CheckNickname)
	api.GET("/auth/check-existUser/:userNum", authHandler.CheckExistUser)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/articles", articleHandler.List)
	api.GET("/articles/:articleId", articleHandler.Detail)
	api.GET("/users/:userNum/articles", articleHandler.ListByAuthor)

	api.GET("/comments/:commentId", commentHandler.Detail)

	api.GET("/form", formHandler.List)
	api.GET("/form/:option", formHandler.Find)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/articles", articleHandler.Create)
		authorized.PUT("/articles/:articleId", articleHandler.Update)
		authorized.DELETE("/articles/:articleId", articleHandler.Delete)
		authorized.POST("/articles/:articleId/like", articleHandler.Like)
		authorized.POST("/articles/:articleId/unlike", articleHandler.Unlike)

		authorized.POST("/comments", commentHandler.Create)
		authorized.POST("/comments/:commentId/replies", commentHandler.CreateReply)
		authorized.PUT("/comments/:commentId", commentHandler.Update)
		authorized.DELETE("/comments/:commentId", commentHandler.Delete)

		authorized.POST("/aiReports", reportHandler.Save)
		authorized.GET("/aiReports/:userNum", reportHandler.List)
	}
}
