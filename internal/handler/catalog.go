package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

// ==================== 分类 ====================

// ListCategories 分类列表，开放访问，支持按名称搜索
func (h *Handler) ListCategories(c *gin.Context) {
	limit, offset := pagination(c)

	categories, err := h.Repos.Category.List(c.Query("search"), limit, offset)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, categories)
}

// CreateCategory 创建分类（管理员）
func (h *Handler) CreateCategory(c *gin.Context) {
	var req service.CatalogInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Category.Create(req); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, req)
}

// DeleteCategory 按 slug 删除分类（管理员）
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.Category.Delete(c.Param("slug")); err != nil {
		utils.FromError(c, err)
		return
	}

	c.Status(204)
}

// ==================== 体裁 ====================

// ListGenres 体裁列表，开放访问，支持按名称搜索
func (h *Handler) ListGenres(c *gin.Context) {
	limit, offset := pagination(c)

	genres, err := h.Repos.Genre.List(c.Query("search"), limit, offset)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, genres)
}

// CreateGenre 创建体裁（管理员）
func (h *Handler) CreateGenre(c *gin.Context) {
	var req service.CatalogInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Genre.Create(req); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, req)
}

// DeleteGenre 按 slug 删除体裁（管理员）
func (h *Handler) DeleteGenre(c *gin.Context) {
	if err := h.Genre.Delete(c.Param("slug")); err != nil {
		utils.FromError(c, err)
		return
	}

	c.Status(204)
}
