package repository

import (
	"errors"

	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

// TitleFilter 作品列表过滤条件，零值字段不参与过滤
type TitleFilter struct {
	Category string // 分类 slug，精确匹配
	Genre    string // 体裁 slug，精确匹配
	Year     int
	Name     string // 精确匹配
	Limit    int
	Offset   int
}

type TitleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

// Create 创建作品及体裁关联
func (r *TitleRepository) Create(title *model.Title) error {
	return r.db.Create(title).Error
}

// Update 保存作品字段并重建体裁关联
func (r *TitleRepository) Update(title *model.Title) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(title).Select(
			"name", "year", "description", "category_id",
		).Updates(map[string]interface{}{
			"name":        title.Name,
			"year":        title.Year,
			"description": title.Description,
			"category_id": title.CategoryID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(title).Association("Genres").Replace(title.Genres)
	})
}

// FindByID 根据 ID 查找作品，带分类与体裁
func (r *TitleRepository) FindByID(id int) (*model.Title, error) {
	var title model.Title
	err := r.db.Preload("Category").Preload("Genres").First(&title, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &title, nil
}

// Exists 仅检查作品是否存在，避免整行加载
func (r *TitleRepository) Exists(id int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Title{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List 作品列表，按过滤条件筛选，新作品在前
func (r *TitleRepository) List(f TitleFilter) ([]*model.Title, error) {
	var titles []*model.Title
	q := r.db.Preload("Category").Preload("Genres").Order("titles.id DESC")

	if f.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.Category)
	}
	if f.Genre != "" {
		q = q.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", f.Genre)
	}
	if f.Year != 0 {
		q = q.Where("titles.year = ?", f.Year)
	}
	if f.Name != "" {
		q = q.Where("titles.name = ?", f.Name)
	}

	err := q.Limit(f.Limit).Offset(f.Offset).Find(&titles).Error
	return titles, err
}

// Delete 删除作品，评论与留言级联删除
func (r *TitleRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Title{ID: id}).Association("Genres").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Title{}, id).Error
	})
}
