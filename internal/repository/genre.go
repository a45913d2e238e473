package repository

import (
	"errors"

	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Create 创建体裁
func (r *GenreRepository) Create(genre *model.Genre) error {
	return r.db.Create(genre).Error
}

// List 体裁列表，支持按名称模糊搜索
func (r *GenreRepository) List(search string, limit, offset int) ([]*model.Genre, error) {
	var genres []*model.Genre
	q := r.db.Order("id ASC")
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	err := q.Limit(limit).Offset(offset).Find(&genres).Error
	return genres, err
}

// FindBySlug 根据 slug 查找体裁
func (r *GenreRepository) FindBySlug(slug string) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.Where("slug = ?", slug).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &genre, nil
}

// FindBySlugs 批量按 slug 查找体裁
func (r *GenreRepository) FindBySlugs(slugs []string) ([]model.Genre, error) {
	var genres []model.Genre
	err := r.db.Where("slug IN ?", slugs).Find(&genres).Error
	return genres, err
}

// DeleteBySlug 根据 slug 删除体裁，关联表记录随之清理
func (r *GenreRepository) DeleteBySlug(slug string) error {
	return r.db.Where("slug = ?", slug).Delete(&model.Genre{}).Error
}
