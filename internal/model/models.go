package model

import (
	"regexp"
	"time"
)

// 角色常量
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// 字段长度与评分范围限制
const (
	MaxLengthName  = 150
	MaxLengthEmail = 254
	MinScore       = 1
	MaxScore       = 10
)

// UsernameRe 用户名允许的字符集
var UsernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// User 用户模型
type User struct {
	ID               int       `json:"id" gorm:"primaryKey"`
	Username         string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email            string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	FirstName        string    `json:"first_name" gorm:"size:150"`
	LastName         string    `json:"last_name" gorm:"size:150"`
	Bio              string    `json:"bio" gorm:"type:text"`
	Role             string    `json:"role" gorm:"size:20;default:user"`
	IsSuperuser      bool      `json:"-"`
	ConfirmationCode string    `json:"-" gorm:"size:100"` // bcrypt 哈希，不落明文
	CreatedAt        time.Time `json:"created_at"`
}

// IsAdmin 管理员或超级用户
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// IsModerator 协调员
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// Category 作品分类
type Category struct {
	ID   int    `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

func (Category) TableName() string {
	return "categories"
}

// Genre 作品体裁（多对多标签）
type Genre struct {
	ID   int    `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

func (Genre) TableName() string {
	return "genres"
}

// Title 可评论的作品（书/影/音）
// Rating 不落库，读取时由评论分数聚合得出，无评论时为 nil
type Title struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:256;not null;index"`
	Year        int       `json:"year" gorm:"index"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  *int      `json:"-"`
	Category    *Category `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Genres      []Genre   `json:"genre" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE"`
	Rating      *int      `json:"rating" gorm:"-"`
}

func (Title) TableName() string {
	return "titles"
}

// Review 作品评论，每个用户对同一作品只能发布一条
type Review struct {
	ID       int       `json:"id" gorm:"primaryKey"`
	TitleID  int       `json:"-" gorm:"uniqueIndex:idx_review_title_author;not null"`
	Title    *Title    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID int       `json:"-" gorm:"uniqueIndex:idx_review_title_author;not null"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// 序列化时输出作者用户名
	AuthorName string `json:"author" gorm:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// Comment 评论下的留言
type Comment struct {
	ID       int       `json:"id" gorm:"primaryKey"`
	ReviewID int       `json:"-" gorm:"index;not null"`
	Review   *Review   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID int       `json:"-" gorm:"not null"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	AuthorName string `json:"author" gorm:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// Profile 用户资料的对外视图
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// NewProfile 由用户记录构造资料视图
func NewProfile(u *User) *Profile {
	return &Profile{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}
