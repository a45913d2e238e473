package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/yamdb/internal/apperror"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/repository"
)

// fakeTitleStore 内存版作品存储，记录 List 调用次数供缓存断言
type fakeTitleStore struct {
	titles    map[int]*model.Title
	nextID    int
	listCalls int
}

func newFakeTitleStore() *fakeTitleStore {
	return &fakeTitleStore{titles: make(map[int]*model.Title)}
}

func (s *fakeTitleStore) Create(title *model.Title) error {
	s.nextID++
	title.ID = s.nextID
	stored := *title
	s.titles[title.ID] = &stored
	return nil
}

func (s *fakeTitleStore) Update(title *model.Title) error {
	stored := *title
	s.titles[title.ID] = &stored
	return nil
}

func (s *fakeTitleStore) FindByID(id int) (*model.Title, error) {
	if t, ok := s.titles[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeTitleStore) Exists(id int) (bool, error) {
	_, ok := s.titles[id]
	return ok, nil
}

func (s *fakeTitleStore) List(f repository.TitleFilter) ([]*model.Title, error) {
	s.listCalls++
	var out []*model.Title
	for id := 1; id <= s.nextID; id++ {
		t, ok := s.titles[id]
		if !ok {
			continue
		}
		if f.Name != "" && t.Name != f.Name {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeTitleStore) Delete(id int) error {
	delete(s.titles, id)
	return nil
}

type fakeCategoryResolver map[string]*model.Category

func (f fakeCategoryResolver) FindBySlug(slug string) (*model.Category, error) {
	return f[slug], nil
}

type fakeGenreResolver map[string]model.Genre

func (f fakeGenreResolver) FindBySlugs(slugs []string) ([]model.Genre, error) {
	var out []model.Genre
	for _, slug := range slugs {
		if g, ok := f[slug]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeRatingSource map[int]*int

func (f fakeRatingSource) Rating(titleID int) (*int, error) {
	return f[titleID], nil
}

func newTitleService() (*TitleService, *fakeTitleStore, fakeRatingSource) {
	store := newFakeTitleStore()
	categories := fakeCategoryResolver{
		"movies": {ID: 1, Name: "电影", Slug: "movies"},
	}
	genres := fakeGenreResolver{
		"sci-fi": {ID: 1, Name: "科幻", Slug: "sci-fi"},
		"drama":  {ID: 2, Name: "剧情", Slug: "drama"},
	}
	ratings := fakeRatingSource{}
	return NewTitleService(store, categories, genres, ratings), store, ratings
}

func TestTitleCreate(t *testing.T) {
	svc, _, _ := newTitleService()

	title, err := svc.Create(TitleInput{
		Name: "沙丘", Year: 2021, Category: "movies", Genres: []string{"sci-fi", "drama"},
	})
	require.NoError(t, err)
	require.NotNil(t, title.Category)
	assert.Equal(t, "movies", title.Category.Slug)
	assert.Len(t, title.Genres, 2)
	assert.Nil(t, title.Rating)
}

func TestTitleCreateRejectsFutureYear(t *testing.T) {
	svc, _, _ := newTitleService()

	_, err := svc.Create(TitleInput{Name: "未来", Year: time.Now().Year() + 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "year", apperror.FieldOf(err))

	// 当前年份允许
	_, err = svc.Create(TitleInput{Name: "今年", Year: time.Now().Year()})
	require.NoError(t, err)
}

func TestTitleCreateUnknownSlugs(t *testing.T) {
	svc, _, _ := newTitleService()

	_, err := svc.Create(TitleInput{Name: "x", Year: 2000, Category: "nope"})
	require.Error(t, err)
	assert.Equal(t, "category", apperror.FieldOf(err))

	_, err = svc.Create(TitleInput{Name: "x", Year: 2000, Genres: []string{"sci-fi", "nope"}})
	require.Error(t, err)
	assert.Equal(t, "genre", apperror.FieldOf(err))
}

func TestTitleGetFillsRating(t *testing.T) {
	svc, _, ratings := newTitleService()

	created, err := svc.Create(TitleInput{Name: "沙丘", Year: 2021})
	require.NoError(t, err)

	v := 8
	ratings[created.ID] = &v

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 8, *got.Rating)
	assert.NotNil(t, got.Genres)
}

func TestTitleGetMissing(t *testing.T) {
	svc, _, _ := newTitleService()

	_, err := svc.Get(999)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTitleListCaching(t *testing.T) {
	svc, store, _ := newTitleService()

	_, err := svc.Create(TitleInput{Name: "沙丘", Year: 2021})
	require.NoError(t, err)

	f := repository.TitleFilter{Limit: 20}
	first, err := svc.List(f)
	require.NoError(t, err)
	require.Len(t, first, 1)
	calls := store.listCalls

	// 第二次命中缓存，不再查存储
	_, err = svc.List(f)
	require.NoError(t, err)
	assert.Equal(t, calls, store.listCalls)

	// 失效后重新查询
	svc.InvalidateList()
	_, err = svc.List(f)
	require.NoError(t, err)
	assert.Equal(t, calls+1, store.listCalls)

	// 不同过滤条件是不同缓存键
	_, err = svc.List(repository.TitleFilter{Name: "沙丘", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, calls+2, store.listCalls)
}

func TestTitleUpdate(t *testing.T) {
	svc, _, _ := newTitleService()

	created, err := svc.Create(TitleInput{Name: "旧名", Year: 2000})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, TitlePatch{
		Name: strPtr("新名"), Year: intPtr(2001), Category: strPtr("movies"),
	})
	require.NoError(t, err)
	assert.Equal(t, "新名", updated.Name)

	_, err = svc.Update(999, TitlePatch{Name: strPtr("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTitlePartialUpdate(t *testing.T) {
	svc, _, _ := newTitleService()

	created, err := svc.Create(TitleInput{
		Name: "沙丘", Year: 2021, Category: "movies", Genres: []string{"sci-fi"},
	})
	require.NoError(t, err)

	// 只改简介，其余字段保持原值
	updated, err := svc.Update(created.ID, TitlePatch{Description: strPtr("新简介")})
	require.NoError(t, err)
	assert.Equal(t, "沙丘", updated.Name)
	assert.Equal(t, 2021, updated.Year)
	assert.Equal(t, "新简介", updated.Description)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "movies", updated.Category.Slug)
	require.Len(t, updated.Genres, 1)
	assert.Equal(t, "sci-fi", updated.Genres[0].Slug)

	// 提供的年份仍做校验
	_, err = svc.Update(created.ID, TitlePatch{Year: intPtr(time.Now().Year() + 1)})
	require.Error(t, err)
	assert.Equal(t, "year", apperror.FieldOf(err))

	// 空体裁切片表示清空
	updated, err = svc.Update(created.ID, TitlePatch{Genres: &[]string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Genres)
}

func TestTitleDelete(t *testing.T) {
	svc, store, _ := newTitleService()

	created, err := svc.Create(TitleInput{Name: "将删", Year: 2000})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))
	assert.Empty(t, store.titles)

	err = svc.Delete(created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
