package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/yamdb/internal/config"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/repository"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos    *repository.Repositories
	Config   *config.Config
	Auth     *service.AuthService
	Users    *service.UserService
	Category *service.CatalogService
	Genre    *service.CatalogService
	Titles   *service.TitleService
	Reviews  *service.ReviewService
	Comments *service.CommentService
}

// NewHandler 创建处理器并装配服务依赖
func NewHandler(repos *repository.Repositories, cfg *config.Config, mailer service.Mailer) *Handler {
	issuer := &service.JWTIssuer{Secret: cfg.AppSecret, Expiry: cfg.JWTExpiry}

	reviewSvc := service.NewReviewService(repos.Review, repos.Title)
	titleSvc := service.NewTitleService(repos.Title, repos.Category, repos.Genre, reviewSvc)

	return &Handler{
		Repos:    repos,
		Config:   cfg,
		Auth:     service.NewAuthService(repos.User, mailer, issuer),
		Users:    service.NewUserService(repos.User),
		Category: service.NewCategoryService(repos.Category, titleSvc.InvalidateList),
		Genre:    service.NewGenreService(repos.Genre, titleSvc.InvalidateList),
		Titles:   titleSvc,
		Reviews:  reviewSvc,
		Comments: service.NewCommentService(repos.Comment, repos.Review),
	}
}

// actor 把请求上下文里的认证信息转成显式身份参数
// service 层不接触 gin 上下文
func actor(c *gin.Context) (service.Actor, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}, false
	}
	return service.Actor{
		ID:          claims.UserID,
		Username:    claims.Username,
		Role:        claims.Role,
		IsSuperuser: claims.IsSuperuser,
	}, true
}

// pagination 解析分页参数，limit 默认 20，上限 100
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// bindJSON 解析请求体，校验失败时在响应里标注出错字段
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			utils.ValidationError(c, strings.ToLower(verrs[0].Field()), "字段校验失败")
			return false
		}
		utils.BadRequest(c, "请求格式不正确")
		return false
	}
	return true
}

// pathID 解析路径里的数字 ID，非法时返回 false
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
