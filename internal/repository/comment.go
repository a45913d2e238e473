package repository

import (
	"errors"

	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建留言
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID 根据 ID 查找留言，带作者
func (r *CommentRepository) FindByID(id int) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("Author").First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListByReview 某评论下的留言列表，发布时间从早到晚
func (r *CommentRepository) ListByReview(reviewID, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Preload("Author").
		Where("review_id = ?", reviewID).
		Order("pub_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

// Update 保存留言正文
func (r *CommentRepository) Update(comment *model.Comment) error {
	return r.db.Model(comment).Select("text").Updates(comment).Error
}

// Delete 删除留言
func (r *CommentRepository) Delete(id int) error {
	return r.db.Delete(&model.Comment{}, id).Error
}
