package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

// SignupRequest 注册请求
type SignupRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
}

// Signup 注册或重发确认码
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.Auth.Signup(req.Username, req.Email)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, result)
}

// TokenRequest 令牌请求
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// Token 用确认码换取访问令牌
func (h *Handler) Token(c *gin.Context) {
	var req TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.Auth.ObtainToken(req.Username, req.ConfirmationCode)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, result)
}

// Me 读取当前用户资料
func (h *Handler) Me(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}

	profile, err := h.Auth.Profile(a)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, profile)
}

// UpdateMe 修改当前用户资料，角色字段不可自改
func (h *Handler) UpdateMe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}

	var req service.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.Auth.UpdateProfile(a, req)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, profile)
}
