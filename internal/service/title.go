package service

import (
	"fmt"
	"time"

	"github.com/user/yamdb/internal/apperror"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/repository"
	"github.com/user/yamdb/internal/utils"
)

// TitleStore 作品存取操作
type TitleStore interface {
	Create(title *model.Title) error
	Update(title *model.Title) error
	FindByID(id int) (*model.Title, error)
	Exists(id int) (bool, error)
	List(f repository.TitleFilter) ([]*model.Title, error)
	Delete(id int) error
}

// CategoryResolver 按 slug 解析分类
type CategoryResolver interface {
	FindBySlug(slug string) (*model.Category, error)
}

// GenreResolver 按 slug 批量解析体裁
type GenreResolver interface {
	FindBySlugs(slugs []string) ([]model.Genre, error)
}

// RatingSource 读取作品评分
type RatingSource interface {
	Rating(titleID int) (*int, error)
}

// TitleService 作品的领域规则：年份校验、slug 解析、评分填充
type TitleService struct {
	titles     TitleStore
	categories CategoryResolver
	genres     GenreResolver
	ratings    RatingSource
	listCache  *utils.ListCache[[]*model.Title]
}

// NewTitleService 创建作品服务
func NewTitleService(titles TitleStore, categories CategoryResolver, genres GenreResolver, ratings RatingSource) *TitleService {
	return &TitleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		ratings:    ratings,
		listCache:  utils.NewListCache[[]*model.Title](500, time.Minute),
	}
}

// TitleInput 作品创建/修改入参，分类与体裁用 slug 指定
type TitleInput struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

// InvalidateList 作品列表缓存整体失效
func (s *TitleService) InvalidateList() {
	s.listCache.Clear()
}

func (s *TitleService) resolve(in TitleInput) (*model.Title, error) {
	if in.Name == "" {
		return nil, apperror.Validation("name", "name 不能为空")
	}
	if in.Year > time.Now().Year() {
		return nil, apperror.Validation("year", "发行年份不能大于当前年份")
	}

	title := &model.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}

	if in.Category != "" {
		category, err := s.categories.FindBySlug(in.Category)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.Validation("category", "分类不存在")
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if len(in.Genres) > 0 {
		genres, err := s.genres.FindBySlugs(in.Genres)
		if err != nil {
			return nil, err
		}
		if len(genres) != len(in.Genres) {
			return nil, apperror.Validation("genre", "体裁不存在")
		}
		title.Genres = genres
	}

	return title, nil
}

// Create 创建作品
func (s *TitleService) Create(in TitleInput) (*model.Title, error) {
	title, err := s.resolve(in)
	if err != nil {
		return nil, err
	}
	if err := s.titles.Create(title); err != nil {
		return nil, err
	}

	s.InvalidateList()
	return s.fillRating(title)
}

// TitlePatch 作品部分修改入参，nil 字段不改动
// Category 给空串表示摘掉分类，Genres 给空切片表示清空体裁
type TitlePatch struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

// Update 修改作品，未提供的字段保持原值
func (s *TitleService) Update(id int, p TitlePatch) (*model.Title, error) {
	existing, err := s.titles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("作品")
	}

	in := TitleInput{
		Name:        existing.Name,
		Year:        existing.Year,
		Description: existing.Description,
	}
	if existing.Category != nil {
		in.Category = existing.Category.Slug
	}
	in.Genres = make([]string, 0, len(existing.Genres))
	for _, g := range existing.Genres {
		in.Genres = append(in.Genres, g.Slug)
	}

	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Year != nil {
		in.Year = *p.Year
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Genres != nil {
		in.Genres = *p.Genres
	}

	title, err := s.resolve(in)
	if err != nil {
		return nil, err
	}
	title.ID = id
	if err := s.titles.Update(title); err != nil {
		return nil, err
	}

	s.InvalidateList()
	return s.Get(id)
}

// Get 读取作品详情，带评分
func (s *TitleService) Get(id int) (*model.Title, error) {
	title, err := s.titles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, apperror.NotFound("作品")
	}
	return s.fillRating(title)
}

// List 作品列表，结果带评分，短期缓存
func (s *TitleService) List(f repository.TitleFilter) ([]*model.Title, error) {
	key := fmt.Sprintf("%s|%s|%d|%s|%d|%d",
		f.Category, f.Genre, f.Year, f.Name, f.Limit, f.Offset)
	if cached, found := s.listCache.Get(key); found {
		return cached, nil
	}

	titles, err := s.titles.List(f)
	if err != nil {
		return nil, err
	}
	for _, t := range titles {
		if _, err := s.fillRating(t); err != nil {
			return nil, err
		}
	}

	s.listCache.Set(key, titles)
	return titles, nil
}

// Delete 删除作品，评论与留言级联删除
func (s *TitleService) Delete(id int) error {
	found, err := s.titles.Exists(id)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("作品")
	}

	if err := s.titles.Delete(id); err != nil {
		return err
	}

	s.InvalidateList()
	return nil
}

func (s *TitleService) fillRating(title *model.Title) (*model.Title, error) {
	rating, err := s.ratings.Rating(title.ID)
	if err != nil {
		return nil, err
	}
	title.Rating = rating
	if title.Genres == nil {
		title.Genres = []model.Genre{}
	}
	return title, nil
}
