package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/user/yamdb/internal/apperror"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore 认证流程用到的用户存取操作
type UserStore interface {
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByID(id int) (*model.User, error)
	Upsert(user *model.User) error
	Update(user *model.User) error
	UpdateConfirmationCode(userID int, hash string) error
}

// TokenIssuer 给已验证身份签发访问令牌
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// JWTIssuer 基于 HS256 JWT 的令牌签发实现
type JWTIssuer struct {
	Secret string
	Expiry time.Duration
}

func (i *JWTIssuer) Issue(user *model.User) (string, error) {
	return middleware.GenerateToken(
		user.ID, user.Username, user.Role, user.IsSuperuser, i.Secret, i.Expiry,
	)
}

// AuthService 注册与令牌签发
type AuthService struct {
	users  UserStore
	mailer Mailer
	tokens TokenIssuer
}

// NewAuthService 创建认证服务
func NewAuthService(users UserStore, mailer Mailer, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, mailer: mailer, tokens: tokens}
}

// SignupResult 注册响应，确认码只走邮件，不出现在响应体里
type SignupResult struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Signup 注册或重发确认码
// 同名重复注册会重新生成确认码并再次发信，响应保持幂等
func (s *AuthService) Signup(username, email string) (*SignupResult, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	byEmail, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	byUsername, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	switch {
	case byEmail != nil && byUsername != nil && byEmail.ID != byUsername.ID:
		return nil, apperror.Validation("", "该 username 与 email 已被注册，但属于不同账号")
	case byEmail != nil && byUsername == nil:
		return nil, apperror.Validation("email", "该 email 已被使用")
	case byUsername != nil && byEmail == nil:
		return nil, apperror.Validation("username", "该 username 已被使用")
	}

	code, err := generateConfirmationCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:         username,
		Email:            email,
		Role:             model.RoleUser,
		ConfirmationCode: string(hash),
	}
	if byUsername != nil {
		// 已有账号：只刷新确认码
		user = byUsername
		if err := s.users.UpdateConfirmationCode(user.ID, string(hash)); err != nil {
			return nil, err
		}
	} else if err := s.users.Upsert(user); err != nil {
		// 预检查与写入不是原子的，并发注册可能先抢占了 email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("email", "该 email 已被使用")
		}
		return nil, err
	}

	body := fmt.Sprintf("您的确认码：%s", code)
	if err := s.mailer.Send(user.Email, "确认码", body); err != nil {
		return nil, err
	}

	return &SignupResult{Email: user.Email, Username: user.Username}, nil
}

// TokenResult 令牌响应
type TokenResult struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// ObtainToken 用确认码换取访问令牌
// 确认码一次性使用，兑换成功后立即作废
func (s *AuthService) ObtainToken(username, confirmationCode string) (*TokenResult, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("用户")
	}

	if user.ConfirmationCode == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(confirmationCode)) != nil {
		return nil, apperror.Validation("confirmation_code", "确认码不正确")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	// 签发成功后才作废确认码，签发失败不消耗
	if err := s.users.UpdateConfirmationCode(user.ID, ""); err != nil {
		return nil, err
	}

	return &TokenResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}

// ProfileUpdate 自助资料修改的入参，nil 字段不改动
// 角色不在其中：自助接口永远改不了角色
type ProfileUpdate struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// Profile 读取自己的资料
func (s *AuthService) Profile(actor Actor) (*model.Profile, error) {
	user, err := s.users.FindByID(actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("用户")
	}
	return model.NewProfile(user), nil
}

// UpdateProfile 修改自己的资料
func (s *AuthService) UpdateProfile(actor Actor, in ProfileUpdate) (*model.Profile, error) {
	user, err := s.users.FindByID(actor.ID)
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

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("username", "username 或 email 已被使用")
		}
		return nil, err
	}

	return model.NewProfile(user), nil
}

// ValidateUsername 校验用户名：字符集、长度、保留名 me
func ValidateUsername(username string) error {
	if username == "" {
		return apperror.Validation("username", "username 不能为空")
	}
	if len(username) > model.MaxLengthName {
		return apperror.Validation("username", "username 过长")
	}
	if !model.UsernameRe.MatchString(username) {
		return apperror.Validation("username", "username 包含非法字符")
	}
	if strings.EqualFold(username, "me") {
		return apperror.Validation("username", `不允许使用 "me" 作为 username`)
	}
	return nil
}

// ValidateEmail 校验邮箱长度与基本格式
func ValidateEmail(email string) error {
	if email == "" {
		return apperror.Validation("email", "email 不能为空")
	}
	if len(email) > model.MaxLengthEmail {
		return apperror.Validation("email", "email 过长")
	}
	if !strings.Contains(email, "@") {
		return apperror.Validation("email", "email 格式不正确")
	}
	return nil
}

// generateConfirmationCode 生成 32 字节加密随机确认码，URL 安全编码
func generateConfirmationCode() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
