package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

// ==================== 用户管理（管理员） ====================
// "me" 是保留用户名，/users/me 路由到当前用户自助操作

// ListUsers 用户列表，支持按用户名搜索
func (h *Handler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	search := c.Query("search")

	users, err := h.Users.List(search, limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, users)
}

// CreateUser 管理员创建用户
func (h *Handler) CreateUser(c *gin.Context) {
	var req service.UserInput
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.Users.Create(req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, profile)
}

// GetUser 按用户名读取，"me" 返回当前用户
func (h *Handler) GetUser(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		h.Me(c)
		return
	}
	if !h.requireAdmin(c) {
		return
	}

	profile, err := h.Users.Get(username)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, profile)
}

// UpdateUser 按用户名修改，"me" 走自助资料修改
func (h *Handler) UpdateUser(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		h.UpdateMe(c)
		return
	}
	if !h.requireAdmin(c) {
		return
	}

	var req service.UserPatch
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.Users.Update(username, req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, profile)
}

// DeleteUser 按用户名删除，自助端点不允许删号
func (h *Handler) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		utils.MethodNotAllowed(c)
		return
	}
	if !h.requireAdmin(c) {
		return
	}

	if err := h.Users.Delete(username); err != nil {
		utils.FromError(c, err)
		return
	}

	c.Status(204)
}

// requireAdmin /users/:username 下除 "me" 外都是管理员专属
func (h *Handler) requireAdmin(c *gin.Context) bool {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return false
	}
	if !a.IsAdmin() {
		utils.Forbidden(c, "需要管理员权限")
		return false
	}
	return true
}
