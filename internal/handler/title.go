package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/repository"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

// ==================== 作品 ====================

// ListTitles 作品列表，开放访问
// 过滤参数：category/genre（slug）、year、name
func (h *Handler) ListTitles(c *gin.Context) {
	limit, offset := pagination(c)
	year, _ := strconv.Atoi(c.Query("year"))

	titles, err := h.Titles.List(repository.TitleFilter{
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Year:     year,
		Name:     c.Query("name"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, titles)
}

// GetTitle 作品详情，开放访问
func (h *Handler) GetTitle(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	title, err := h.Titles.Get(id)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, title)
}

// CreateTitle 创建作品（管理员）
func (h *Handler) CreateTitle(c *gin.Context) {
	var req service.TitleInput
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.Titles.Create(req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, title)
}

// UpdateTitle 修改作品（管理员）
func (h *Handler) UpdateTitle(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	var req service.TitlePatch
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.Titles.Update(id, req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, title)
}

// DeleteTitle 删除作品（管理员）
func (h *Handler) DeleteTitle(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	if err := h.Titles.Delete(id); err != nil {
		utils.FromError(c, err)
		return
	}

	c.Status(204)
}
