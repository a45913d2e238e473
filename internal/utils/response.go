package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/apperror"
)

// Response 统一API响应结构
type Response struct {
	Code    int         `json:"code"`              // 状态码
	Message string      `json:"message"`           // 消息
	Field   string      `json:"field,omitempty"`   // 校验失败的字段
	Data    interface{} `json:"data"`              // 数据
	Success bool        `json:"success"`           // 是否成功
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    200,
		Message: "success",
		Data:    data,
		Success: true,
	})
}

// Created 返回201创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    201,
		Message: "created",
		Data:    data,
		Success: true,
	})
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
		Success: false,
	})
}

// ValidationError 返回400错误并标注出错字段
func ValidationError(c *gin.Context, field, message string) {
	c.JSON(400, Response{
		Code:    400,
		Message: message,
		Field:   field,
		Success: false,
	})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// Unauthorized 返回401错误
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未登录"
	}
	Error(c, 401, message)
}

// Forbidden 返回403错误
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "权限不足"
	}
	Error(c, 403, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	Error(c, 404, message)
}

// MethodNotAllowed 返回405错误
func MethodNotAllowed(c *gin.Context) {
	Error(c, 405, "该方法不被允许")
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "服务器内部错误"
	}
	Error(c, 500, message)
}

// FromError 按领域错误分类映射 HTTP 响应
// 存储层唯一冲突在 service 层已转成校验错误，这里统一按 400 输出
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
		ValidationError(c, apperror.FieldOf(err), err.Error())
	case errors.Is(err, apperror.ErrPermission):
		Forbidden(c, err.Error())
	default:
		InternalServerError(c, "")
	}
}
