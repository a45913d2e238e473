package service

import "github.com/user/yamdb/internal/model"

// Actor 已认证的请求身份
// 所有需要鉴权的操作都显式接收 Actor 参数，不从全局状态取当前用户
type Actor struct {
	ID          int
	Username    string
	Role        string
	IsSuperuser bool
}

// IsAdmin 管理员或超级用户
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin || a.IsSuperuser
}

// IsModerator 协调员
func (a Actor) IsModerator() bool {
	return a.Role == model.RoleModerator
}

// CanModify 对象级写权限：作者本人、协调员、管理员或超级用户
func CanModify(a Actor, authorID int) bool {
	return a.ID == authorID || a.IsModerator() || a.IsAdmin()
}
