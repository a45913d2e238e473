package service

import (
	"errors"
	"regexp"

	"github.com/user/yamdb/internal/apperror"
	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

// slugRe slug 允许的字符集
var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// SlugStore 分类与体裁共用的存取操作
type SlugStore interface {
	FindBySlug(slug string) (bool, error)
	Create(name, slug string) error
	DeleteBySlug(slug string) error
}

// CatalogInput 分类/体裁创建入参
type CatalogInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// CatalogService 分类与体裁的通用增删逻辑
// 分类与体裁字段完全一致，这里共用一套校验，
// 两个实体各拿一个实例，区别仅在底层存储与展示名
type CatalogService struct {
	store    SlugStore
	kind     string // 展示名，如 "分类"
	onChange func() // 变更后的回调，用于作品列表缓存失效
}

// NewCatalogService 创建分类/体裁服务
func NewCatalogService(store SlugStore, kind string, onChange func()) *CatalogService {
	return &CatalogService{store: store, kind: kind, onChange: onChange}
}

func validateSlug(slug string) error {
	if len(slug) > 50 {
		return apperror.Validation("slug", "slug 过长")
	}
	if !slugRe.MatchString(slug) {
		return apperror.Validation("slug", "slug 包含非法字符")
	}
	return nil
}

// Create 创建条目，slug 必须唯一
func (s *CatalogService) Create(in CatalogInput) error {
	if len(in.Name) > 256 {
		return apperror.Validation("name", "name 过长")
	}
	if err := validateSlug(in.Slug); err != nil {
		return err
	}

	if err := s.store.Create(in.Name, in.Slug); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("slug", "该 slug 已存在")
		}
		return err
	}

	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

// Delete 按 slug 删除条目，不存在时返回 not-found
func (s *CatalogService) Delete(slug string) error {
	found, err := s.store.FindBySlug(slug)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound(s.kind)
	}

	if err := s.store.DeleteBySlug(slug); err != nil {
		return err
	}

	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

// categoryStore / genreStore 把具体仓库适配到 SlugStore

type categoryStore struct {
	repo interface {
		FindBySlug(slug string) (*model.Category, error)
		Create(category *model.Category) error
		DeleteBySlug(slug string) error
	}
}

func (s categoryStore) FindBySlug(slug string) (bool, error) {
	c, err := s.repo.FindBySlug(slug)
	return c != nil, err
}

func (s categoryStore) Create(name, slug string) error {
	return s.repo.Create(&model.Category{Name: name, Slug: slug})
}

func (s categoryStore) DeleteBySlug(slug string) error {
	return s.repo.DeleteBySlug(slug)
}

type genreStore struct {
	repo interface {
		FindBySlug(slug string) (*model.Genre, error)
		Create(genre *model.Genre) error
		DeleteBySlug(slug string) error
	}
}

func (s genreStore) FindBySlug(slug string) (bool, error) {
	g, err := s.repo.FindBySlug(slug)
	return g != nil, err
}

func (s genreStore) Create(name, slug string) error {
	return s.repo.Create(&model.Genre{Name: name, Slug: slug})
}

func (s genreStore) DeleteBySlug(slug string) error {
	return s.repo.DeleteBySlug(slug)
}

// NewCategoryService 分类服务
func NewCategoryService(repo interface {
	FindBySlug(slug string) (*model.Category, error)
	Create(category *model.Category) error
	DeleteBySlug(slug string) error
}, onChange func()) *CatalogService {
	return NewCatalogService(categoryStore{repo: repo}, "分类", onChange)
}

// NewGenreService 体裁服务
func NewGenreService(repo interface {
	FindBySlug(slug string) (*model.Genre, error)
	Create(genre *model.Genre) error
	DeleteBySlug(slug string) error
}, onChange func()) *CatalogService {
	return NewCatalogService(genreStore{repo: repo}, "体裁", onChange)
}
