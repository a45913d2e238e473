package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/user/yamdb/internal/apperror"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/utils"
	"gorm.io/gorm"
)

// ReviewStore 评论存取操作
type ReviewStore interface {
	Create(review *model.Review) error
	FindByID(id int) (*model.Review, error)
	ExistsByTitleAndAuthor(titleID, authorID int) (bool, error)
	ListByTitle(titleID, limit, offset int) ([]*model.Review, error)
	AverageScore(titleID int) (float64, int64, error)
	Update(review *model.Review) error
	Delete(id int) error
}

// TitleChecker 校验作品是否存在
type TitleChecker interface {
	Exists(id int) (bool, error)
}

// ReviewService 评论的领域规则：
// 评分范围、一人一评、作者/协调员/管理员的写权限、评分聚合
type ReviewService struct {
	reviews ReviewStore
	titles  TitleChecker
}

// NewReviewService 创建评论服务
func NewReviewService(reviews ReviewStore, titles TitleChecker) *ReviewService {
	return &ReviewService{reviews: reviews, titles: titles}
}

// ReviewInput 评论创建/修改入参
type ReviewInput struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

func validateScore(score int) error {
	if score < model.MinScore || score > model.MaxScore {
		return apperror.Validation("score", fmt.Sprintf(
			"评分必须在 %d 到 %d 之间", model.MinScore, model.MaxScore))
	}
	return nil
}

func (s *ReviewService) requireTitle(titleID int) error {
	found, err := s.titles.Exists(titleID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("作品")
	}
	return nil
}

// Create 发布评论，作者取自已认证身份
// 一人一评先做预检查，存储层唯一索引兜底并发场景，
// 冲突统一转成校验错误
func (s *ReviewService) Create(actor Actor, titleID int, in ReviewInput) (*model.Review, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}
	if err := validateScore(in.Score); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsByTitleAndAuthor(titleID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Validation("", "同一作品只能发布一条评论")
	}

	review := &model.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     in.Text,
		Score:    in.Score,
	}
	if err := s.reviews.Create(review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("", "同一作品只能发布一条评论")
		}
		return nil, err
	}
	review.AuthorName = actor.Username

	utils.RatingInvalidate(titleID)
	return review, nil
}

// Get 读取单条评论，必须属于路径里的作品
func (s *ReviewService) Get(titleID, reviewID int) (*model.Review, error) {
	review, err := s.reviews.FindByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.TitleID != titleID {
		return nil, apperror.NotFound("评论")
	}
	fillReviewAuthor(review)
	return review, nil
}

// List 某作品的评论列表，发布时间从早到晚
func (s *ReviewService) List(titleID, limit, offset int) ([]*model.Review, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByTitle(titleID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, r := range reviews {
		fillReviewAuthor(r)
	}
	return reviews, nil
}

// ReviewPatch 评论部分修改入参，nil 字段不改动
type ReviewPatch struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// Update 修改评论，限作者本人、协调员、管理员
// 修改已有评论不受一人一评限制
func (s *ReviewService) Update(actor Actor, titleID, reviewID int, p ReviewPatch) (*model.Review, error) {
	review, err := s.reviews.FindByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.TitleID != titleID {
		return nil, apperror.NotFound("评论")
	}
	if !CanModify(actor, review.AuthorID) {
		return nil, apperror.Forbidden("只有作者或协调员可以修改评论")
	}

	if p.Text != nil {
		review.Text = *p.Text
	}
	if p.Score != nil {
		if err := validateScore(*p.Score); err != nil {
			return nil, err
		}
		review.Score = *p.Score
	}
	if err := s.reviews.Update(review); err != nil {
		return nil, err
	}
	fillReviewAuthor(review)

	utils.RatingInvalidate(titleID)
	return review, nil
}

// Delete 删除评论，限作者本人、协调员、管理员
func (s *ReviewService) Delete(actor Actor, titleID, reviewID int) error {
	review, err := s.reviews.FindByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil || review.TitleID != titleID {
		return apperror.NotFound("评论")
	}
	if !CanModify(actor, review.AuthorID) {
		return apperror.Forbidden("只有作者或协调员可以删除评论")
	}

	if err := s.reviews.Delete(reviewID); err != nil {
		return err
	}

	utils.RatingInvalidate(titleID)
	return nil
}

// Rating 作品评分：所有评论分数的算术平均，四舍五入取整
// 无评论时返回 nil，结果进缓存，评论变更时失效
func (s *ReviewService) Rating(titleID int) (*int, error) {
	if rating, found := utils.RatingGet(titleID); found {
		return rating, nil
	}

	avg, count, err := s.reviews.AverageScore(titleID)
	if err != nil {
		return nil, err
	}

	var rating *int
	if count > 0 {
		v := int(math.Round(avg))
		rating = &v
	}

	utils.RatingSet(titleID, rating)
	return rating, nil
}

func fillReviewAuthor(r *model.Review) {
	if r.Author != nil {
		r.AuthorName = r.Author.Username
	}
}
