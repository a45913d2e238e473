package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/yamdb/internal/handler"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/model"
)

// RegisterValidators 注册自定义请求校验规则
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return model.UsernameRe.MatchString(fl.Field().String())
		})
	}
}

// RegisterRoutes 注册所有路由
// 每组路由显式声明自己的方法集与权限要求
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	secret := h.Config.AppSecret

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ==================== 注册与令牌 ====================
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/token", h.Token)
	}

	// ==================== 用户管理 ====================
	// 列表与创建是管理员专属；/users/me 由 :username 路由分发，
	// 除 "me" 外的单用户操作在 handler 里再做管理员检查
	users := v1.Group("/users")
	users.Use(middleware.RequireAuth(secret))
	{
		users.GET("", middleware.RequireAdmin(), h.ListUsers)
		users.POST("", middleware.RequireAdmin(), h.CreateUser)
		users.GET("/:username", h.GetUser)
		users.PATCH("/:username", h.UpdateUser)
		users.DELETE("/:username", h.DeleteUser)
	}

	// ==================== 分类与体裁 ====================
	// 读开放，写管理员；不提供修改操作，删除按 slug
	categories := v1.Group("/categories")
	categories.Use(middleware.OptionalAuth(secret), middleware.AdminOrReadOnly())
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.DELETE("/:slug", h.DeleteCategory)
	}

	genres := v1.Group("/genres")
	genres.Use(middleware.OptionalAuth(secret), middleware.AdminOrReadOnly())
	{
		genres.GET("", h.ListGenres)
		genres.POST("", h.CreateGenre)
		genres.DELETE("/:slug", h.DeleteGenre)
	}

	// ==================== 作品 ====================
	titles := v1.Group("/titles")
	titles.Use(middleware.OptionalAuth(secret), middleware.AdminOrReadOnly())
	{
		titles.GET("", h.ListTitles)
		titles.POST("", h.CreateTitle)
		titles.GET("/:title_id", h.GetTitle)
		titles.PATCH("/:title_id", h.UpdateTitle)
		titles.DELETE("/:title_id", h.DeleteTitle)
	}

	// ==================== 评论与留言 ====================
	// 读开放；创建需登录；修改删除的对象级权限在 service 里判定
	reviews := v1.Group("/titles/:title_id/reviews")
	reviews.Use(middleware.OptionalAuth(secret))
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", h.CreateReview)
		reviews.GET("/:review_id", h.GetReview)
		reviews.PATCH("/:review_id", h.UpdateReview)
		reviews.DELETE("/:review_id", h.DeleteReview)
	}

	comments := v1.Group("/titles/:title_id/reviews/:review_id/comments")
	comments.Use(middleware.OptionalAuth(secret))
	{
		comments.GET("", h.ListComments)
		comments.POST("", h.CreateComment)
		comments.GET("/:comment_id", h.GetComment)
		comments.PATCH("/:comment_id", h.UpdateComment)
		comments.DELETE("/:comment_id", h.DeleteComment)
	}
}
