package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/user/yamdb/internal/model"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImportService 从 CSV 数据集批量导入初始数据
// 文件之间有外键依赖，按阶段导入：
// 用户/分类/体裁 → 作品 → 作品体裁关联/评论 → 留言
// 重复导入是幂等的，已存在的主键跳过
type ImportService struct {
	db *gorm.DB
}

// NewImportService 创建导入服务
func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db}
}

// Run 执行导入，dir 是 CSV 数据目录
func (s *ImportService) Run(ctx context.Context, dir string) error {
	// 第一阶段：相互独立的基础表并发导入
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.importUsers(filepath.Join(dir, "users.csv")) })
	g.Go(func() error { return s.importCategories(filepath.Join(dir, "category.csv")) })
	g.Go(func() error { return s.importGenres(filepath.Join(dir, "genre.csv")) })
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.importTitles(filepath.Join(dir, "titles.csv")); err != nil {
		return err
	}

	g2, _ := errgroup.WithContext(ctx)
	g2.Go(func() error { return s.importGenreTitles(filepath.Join(dir, "genre_title.csv")) })
	g2.Go(func() error { return s.importReviews(filepath.Join(dir, "review.csv")) })
	if err := g2.Wait(); err != nil {
		return err
	}

	if err := s.importComments(filepath.Join(dir, "comments.csv")); err != nil {
		return err
	}

	return s.resyncSequences()
}

// importedTables 带自增主键的导入目标表
var importedTables = []string{
	"users", "categories", "genres", "titles", "reviews", "comments",
}

// resyncSequences 显式主键插入不会推进自增序列，
// 导入后把每张表的序列拨到当前最大 ID 之后，
// 否则后续 API 创建会从 1 开始分配并撞上已导入的主键
func (s *ImportService) resyncSequences() error {
	for _, table := range importedTables {
		if err := s.db.Exec(resyncStatement(table)).Error; err != nil {
			return fmt.Errorf("重置 %s 序列失败: %w", table, err)
		}
	}
	return nil
}

func resyncStatement(table string) string {
	return fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
		table, table)
}

// readCSV 读取带表头的 CSV，返回按列名索引的行
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 %s 失败: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	if len(records) < 1 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parsePubDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t
}

func (s *ImportService) insertIgnore(values interface{}) error {
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(values).Error
}

func (s *ImportService) importUsers(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, model.User{
			ID:        atoi(row["id"]),
			Username:  row["username"],
			Email:     row["email"],
			Role:      row["role"],
			Bio:       row["bio"],
			FirstName: row["first_name"],
			LastName:  row["last_name"],
		})
	}
	if len(users) == 0 {
		return nil
	}

	log.Printf("[导入] 用户 %d 条", len(users))
	return s.insertIgnore(users)
}

func (s *ImportService) importCategories(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, model.Category{
			ID:   atoi(row["id"]),
			Name: row["name"],
			Slug: row["slug"],
		})
	}
	if len(categories) == 0 {
		return nil
	}

	log.Printf("[导入] 分类 %d 条", len(categories))
	return s.insertIgnore(categories)
}

func (s *ImportService) importGenres(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	genres := make([]model.Genre, 0, len(rows))
	for _, row := range rows {
		genres = append(genres, model.Genre{
			ID:   atoi(row["id"]),
			Name: row["name"],
			Slug: row["slug"],
		})
	}
	if len(genres) == 0 {
		return nil
	}

	log.Printf("[导入] 体裁 %d 条", len(genres))
	return s.insertIgnore(genres)
}

func (s *ImportService) importTitles(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	titles := make([]model.Title, 0, len(rows))
	for _, row := range rows {
		title := model.Title{
			ID:   atoi(row["id"]),
			Name: row["name"],
			Year: atoi(row["year"]),
		}
		if categoryID := atoi(row["category"]); categoryID != 0 {
			title.CategoryID = &categoryID
		}
		titles = append(titles, title)
	}
	if len(titles) == 0 {
		return nil
	}

	log.Printf("[导入] 作品 %d 条", len(titles))
	return s.insertIgnore(titles)
}

// titleGenre 多对多关联表行，仅导入时使用
type titleGenre struct {
	TitleID int `gorm:"column:title_id"`
	GenreID int `gorm:"column:genre_id"`
}

func (titleGenre) TableName() string {
	return "title_genres"
}

func (s *ImportService) importGenreTitles(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	links := make([]titleGenre, 0, len(rows))
	for _, row := range rows {
		links = append(links, titleGenre{
			TitleID: atoi(row["title_id"]),
			GenreID: atoi(row["genre_id"]),
		})
	}
	if len(links) == 0 {
		return nil
	}

	log.Printf("[导入] 作品体裁关联 %d 条", len(links))
	return s.insertIgnore(links)
}

func (s *ImportService) importReviews(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	reviews := make([]model.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, model.Review{
			ID:       atoi(row["id"]),
			TitleID:  atoi(row["title_id"]),
			AuthorID: atoi(row["author"]),
			Text:     row["text"],
			Score:    atoi(row["score"]),
			PubDate:  parsePubDate(row["pub_date"]),
		})
	}
	if len(reviews) == 0 {
		return nil
	}

	log.Printf("[导入] 评论 %d 条", len(reviews))
	return s.insertIgnore(reviews)
}

func (s *ImportService) importComments(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	comments := make([]model.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, model.Comment{
			ID:       atoi(row["id"]),
			ReviewID: atoi(row["review_id"]),
			AuthorID: atoi(row["author"]),
			Text:     row["text"],
			PubDate:  parsePubDate(row["pub_date"]),
		})
	}
	if len(comments) == 0 {
		return nil
	}

	log.Printf("[导入] 留言 %d 条", len(comments))
	return s.insertIgnore(comments)
}
