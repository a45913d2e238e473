package apperror

import (
	"errors"
	"fmt"
)

// 领域错误分类，handler 据此映射 HTTP 状态码
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrPermission = errors.New("permission denied")
	ErrConflict   = errors.New("conflict")
)

// AppError 领域错误，Field 可选，指向出错字段
type AppError struct {
	Err     error
	Field   string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound 资源不存在
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s不存在", resource),
	}
}

// Validation 校验失败，message 面向调用方
func Validation(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Field:   field,
		Message: message,
	}
}

// Conflict 存储层唯一约束冲突，对外按校验失败的形态报告
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Field:   field,
		Message: message,
	}
}

// Forbidden 权限不足
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrPermission,
		Message: message,
	}
}

// FieldOf 取出错误关联的字段名，非 AppError 返回空串
func FieldOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Field
	}
	return ""
}
