package repository

import (
	"database/sql"
	"errors"

	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create 创建评论
// (title_id, author_id) 上的唯一索引由存储层兜底，
// 并发重复创建会返回 gorm.ErrDuplicatedKey
func (r *ReviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

// FindByID 根据 ID 查找评论，带作者
func (r *ReviewRepository) FindByID(id int) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("Author").First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// ExistsByTitleAndAuthor 检查该作者是否已评论过该作品
func (r *ReviewRepository) ExistsByTitleAndAuthor(titleID, authorID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	return count > 0, err
}

// ListByTitle 某作品的评论列表，发布时间从早到晚
func (r *ReviewRepository) ListByTitle(titleID, limit, offset int) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.Preload("Author").
		Where("title_id = ?", titleID).
		Order("pub_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

// AverageScore 某作品评分均值，count 为 0 时无评论
func (r *ReviewRepository) AverageScore(titleID int) (float64, int64, error) {
	var avg sql.NullFloat64
	var count int64

	if err := r.db.Model(&model.Review{}).
		Where("title_id = ?", titleID).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	err := r.db.Model(&model.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Row().Scan(&avg)
	if err != nil {
		return 0, 0, err
	}

	return avg.Float64, count, nil
}

// Update 保存评论正文与评分
func (r *ReviewRepository) Update(review *model.Review) error {
	return r.db.Model(review).Select("text", "score").Updates(review).Error
}

// Delete 删除评论，留言级联删除
func (r *ReviewRepository) Delete(id int) error {
	return r.db.Delete(&model.Review{}, id).Error
}
