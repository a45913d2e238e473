package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

// ==================== 留言 ====================

// reviewPath 解析 title_id 与 review_id 路径参数
func reviewPath(c *gin.Context) (titleID, reviewID int, ok bool) {
	titleID, ok = pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return 0, 0, false
	}
	reviewID, ok = pathID(c, "review_id")
	if !ok {
		utils.NotFound(c, "")
		return 0, 0, false
	}
	return titleID, reviewID, true
}

// ListComments 某评论下的留言列表，开放访问
func (h *Handler) ListComments(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	comments, err := h.Comments.List(titleID, reviewID, limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, comments)
}

// GetComment 读取单条留言，开放访问
func (h *Handler) GetComment(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	comment, err := h.Comments.Get(titleID, reviewID, commentID)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, comment)
}

// CreateComment 发布留言（需登录），作者取自认证身份
func (h *Handler) CreateComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	var req service.CommentInput
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.Comments.Create(a, titleID, reviewID, req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, comment)
}

// UpdateComment 修改留言（作者/协调员/管理员）
func (h *Handler) UpdateComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	var req service.CommentInput
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.Comments.Update(a, titleID, reviewID, commentID, req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, comment)
}

// DeleteComment 删除留言（作者/协调员/管理员）
func (h *Handler) DeleteComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	if err := h.Comments.Delete(a, titleID, reviewID, commentID); err != nil {
		utils.FromError(c, err)
		return
	}

	c.Status(204)
}
