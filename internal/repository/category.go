package repository

import (
	"errors"

	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 创建分类
func (r *CategoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

// List 分类列表，支持按名称模糊搜索
func (r *CategoryRepository) List(search string, limit, offset int) ([]*model.Category, error) {
	var categories []*model.Category
	q := r.db.Order("id ASC")
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	err := q.Limit(limit).Offset(offset).Find(&categories).Error
	return categories, err
}

// FindBySlug 根据 slug 查找分类
func (r *CategoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// DeleteBySlug 根据 slug 删除分类，引用它的作品分类置空
func (r *CategoryRepository) DeleteBySlug(slug string) error {
	return r.db.Where("slug = ?", slug).Delete(&model.Category{}).Error
}
