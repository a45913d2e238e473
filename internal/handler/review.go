package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

// ==================== 评论 ====================

// ListReviews 某作品的评论列表，开放访问
func (h *Handler) ListReviews(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}
	limit, offset := pagination(c)

	reviews, err := h.Reviews.List(titleID, limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, reviews)
}

// GetReview 读取单条评论，开放访问
func (h *Handler) GetReview(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	review, err := h.Reviews.Get(titleID, reviewID)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, review)
}

// CreateReview 发布评论（需登录），作者取自认证身份
func (h *Handler) CreateReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}
	titleID, ok := pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	var req service.ReviewInput
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.Reviews.Create(a, titleID, req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, review)
}

// UpdateReview 修改评论（作者/协调员/管理员）
func (h *Handler) UpdateReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}
	titleID, ok := pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	var req service.ReviewPatch
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.Reviews.Update(a, titleID, reviewID, req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, review)
}

// DeleteReview 删除评论（作者/协调员/管理员）
func (h *Handler) DeleteReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}
	titleID, ok := pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	if err := h.Reviews.Delete(a, titleID, reviewID); err != nil {
		utils.FromError(c, err)
		return
	}

	c.Status(204)
}
