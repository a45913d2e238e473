package service

import (
	"github.com/user/yamdb/internal/apperror"
	"github.com/user/yamdb/internal/model"
)

// CommentStore 留言存取操作
type CommentStore interface {
	Create(comment *model.Comment) error
	FindByID(id int) (*model.Comment, error)
	ListByReview(reviewID, limit, offset int) ([]*model.Comment, error)
	Update(comment *model.Comment) error
	Delete(id int) error
}

// ReviewChecker 校验评论是否存在且属于路径里的作品
type ReviewChecker interface {
	FindByID(id int) (*model.Review, error)
}

// CommentService 评论下留言的领域规则，写权限与评论一致
type CommentService struct {
	comments CommentStore
	reviews  ReviewChecker
}

// NewCommentService 创建留言服务
func NewCommentService(comments CommentStore, reviews ReviewChecker) *CommentService {
	return &CommentService{comments: comments, reviews: reviews}
}

// CommentInput 留言创建/修改入参
type CommentInput struct {
	Text string `json:"text" binding:"required"`
}

func (s *CommentService) requireReview(titleID, reviewID int) error {
	review, err := s.reviews.FindByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil || review.TitleID != titleID {
		return apperror.NotFound("评论")
	}
	return nil
}

// Create 发布留言，作者取自已认证身份
func (s *CommentService) Create(actor Actor, titleID, reviewID int, in CommentInput) (*model.Comment, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     in.Text,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	comment.AuthorName = actor.Username

	return comment, nil
}

// Get 读取单条留言
func (s *CommentService) Get(titleID, reviewID, commentID int) (*model.Comment, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.ReviewID != reviewID {
		return nil, apperror.NotFound("留言")
	}
	fillCommentAuthor(comment)
	return comment, nil
}

// List 某评论下的留言列表，发布时间从早到晚
func (s *CommentService) List(titleID, reviewID, limit, offset int) ([]*model.Comment, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByReview(reviewID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		fillCommentAuthor(c)
	}
	return comments, nil
}

// Update 修改留言，限作者本人、协调员、管理员
func (s *CommentService) Update(actor Actor, titleID, reviewID, commentID int, in CommentInput) (*model.Comment, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.ReviewID != reviewID {
		return nil, apperror.NotFound("留言")
	}
	if !CanModify(actor, comment.AuthorID) {
		return nil, apperror.Forbidden("只有作者或协调员可以修改留言")
	}

	comment.Text = in.Text
	if err := s.comments.Update(comment); err != nil {
		return nil, err
	}
	fillCommentAuthor(comment)

	return comment, nil
}

// Delete 删除留言，限作者本人、协调员、管理员
func (s *CommentService) Delete(actor Actor, titleID, reviewID, commentID int) error {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return err
	}

	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.ReviewID != reviewID {
		return apperror.NotFound("留言")
	}
	if !CanModify(actor, comment.AuthorID) {
		return apperror.Forbidden("只有作者或协调员可以删除留言")
	}

	return s.comments.Delete(commentID)
}

func fillCommentAuthor(c *model.Comment) {
	if c.Author != nil {
		c.AuthorName = c.Author.Username
	}
}
