package service

import (
	"errors"

	"github.com/user/yamdb/internal/apperror"
	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

// AdminUserStore 用户管理接口用到的存取操作
type AdminUserStore interface {
	List(search string, limit, offset int) ([]*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(userID int) error
}

// UserService 管理员级的用户管理，角色只能从这里改
type UserService struct {
	users AdminUserStore
}

// NewUserService 创建用户管理服务
func NewUserService(users AdminUserStore) *UserService {
	return &UserService{users: users}
}

// UserInput 管理员创建/修改用户的入参
type UserInput struct {
	Username  string  `json:"username" binding:"required,username"`
	Email     string  `json:"email" binding:"required"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Bio       string  `json:"bio"`
	Role      *string `json:"role"`
}

func validateRole(role string) error {
	switch role {
	case model.RoleUser, model.RoleModerator, model.RoleAdmin:
		return nil
	}
	return apperror.Validation("role", "未知角色")
}

// List 用户列表
func (s *UserService) List(search string, limit, offset int) ([]*model.Profile, error) {
	users, err := s.users.List(search, limit, offset)
	if err != nil {
		return nil, err
	}
	profiles := make([]*model.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, model.NewProfile(u))
	}
	return profiles, nil
}

// Get 按用户名读取
func (s *UserService) Get(username string) (*model.Profile, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("用户")
	}
	return model.NewProfile(user), nil
}

// Create 管理员创建用户
func (s *UserService) Create(in UserInput) (*model.Profile, error) {
	if err := ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	role := model.RoleUser
	if in.Role != nil {
		if err := validateRole(*in.Role); err != nil {
			return nil, err
		}
		role = *in.Role
	}

	user := &model.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("username", "username 或 email 已被使用")
		}
		return nil, err
	}

	return model.NewProfile(user), nil
}

// UserPatch 管理员修改用户的入参，nil 字段不改动
type UserPatch struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// Update 管理员按用户名修改用户，含角色
func (s *UserService) Update(username string, in UserPatch) (*model.Profile, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("用户")
	}

	if in.Username != nil && *in.Username != user.Username {
		if err := ValidateUsername(*in.Username); err != nil {
			return nil, err
		}
		other, err := s.users.FindByUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperror.Validation("username", "该 username 已被使用")
		}
		user.Username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		if err := ValidateEmail(*in.Email); err != nil {
			return nil, err
		}
		other, err := s.users.FindByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperror.Validation("email", "该 email 已被使用")
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil {
		if err := validateRole(*in.Role); err != nil {
			return nil, err
		}
		user.Role = *in.Role
	}

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("username", "username 或 email 已被使用")
		}
		return nil, err
	}

	return model.NewProfile(user), nil
}

// Delete 管理员按用户名删除用户，其评论与留言级联删除
func (s *UserService) Delete(username string) error {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("用户")
	}
	return s.users.Delete(user.ID)
}
