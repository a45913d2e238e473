package repository

import (
	"errors"

	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// Upsert 按 username 创建或更新确认码哈希
// 注册重试时用单条 upsert 刷新确认码，并发注册最终落下一份哈希
func (r *UserRepository) Upsert(user *model.User) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"confirmation_code"}),
	}).Create(user).Error
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(id int) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Update 保存用户资料字段
func (r *UserRepository) Update(user *model.User) error {
	return r.db.Model(user).Select(
		"username", "email", "first_name", "last_name", "bio", "role",
	).Updates(user).Error
}

// UpdateConfirmationCode 更新确认码哈希，置空即作废
func (r *UserRepository) UpdateConfirmationCode(userID int, hash string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Update("confirmation_code", hash).Error
}

// List 用户列表，支持按用户名模糊搜索
func (r *UserRepository) List(search string, limit, offset int) ([]*model.User, error) {
	var users []*model.User
	q := r.db.Order("id ASC")
	if search != "" {
		q = q.Where("username ILIKE ?", "%"+search+"%")
	}
	err := q.Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

// Delete 删除用户，关联的评论与留言级联删除
func (r *UserRepository) Delete(userID int) error {
	return r.db.Delete(&model.User{}, userID).Error
}
