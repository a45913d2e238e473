package utils

import (
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// Ratings 作品评分缓存实例
// 评分是读取时聚合的派生值，这里缓存计算结果，评论变更时按作品失效
var Ratings *cache.Cache

// InitCache 初始化缓存
func InitCache() {
	// 默认过期时间5分钟，清理间隔10分钟
	Ratings = cache.New(5*time.Minute, 10*time.Minute)
}

func ratingKey(titleID int) string {
	return "rating:" + strconv.Itoa(titleID)
}

// RatingGet 读取作品评分缓存，found 为 false 表示未缓存
// 缓存值可能是 nil（无评论的作品），与未缓存要区分开
func RatingGet(titleID int) (*int, bool) {
	if Ratings == nil {
		return nil, false
	}
	v, found := Ratings.Get(ratingKey(titleID))
	if !found {
		return nil, false
	}
	rating, _ := v.(*int)
	return rating, true
}

// RatingSet 写入作品评分缓存
func RatingSet(titleID int, rating *int) {
	if Ratings == nil {
		return
	}
	Ratings.Set(ratingKey(titleID), rating, cache.DefaultExpiration)
}

// RatingInvalidate 评论创建/修改/删除后让该作品的评分缓存失效
func RatingInvalidate(titleID int) {
	if Ratings == nil {
		return
	}
	Ratings.Delete(ratingKey(titleID))
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// ListCache 列表查询结果缓存封装
type ListCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewListCache 初始化，size 是最大缓存条数（如 500），ttl 是数据有效期（如 1分钟）
func NewListCache[T any](size int, ttl time.Duration) *ListCache[T] {
	// lru.New 是线程安全的
	c, _ := lru.New[string, CacheItem[T]](size)
	return &ListCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（LRU 中 Add 会自动处理更新）
func (c *ListCache[T]) Set(key string, value T) {
	item := CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	}
	c.storage.Add(key, item)
}

// Get 读取（带过期检查）
func (c *ListCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	// 检查是否过期
	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Delete 删除
func (c *ListCache[T]) Delete(key string) {
	c.storage.Remove(key)
}

// Clear 清空
func (c *ListCache[T]) Clear() {
	c.storage.Purge()
}

// Len 获取当前长度
func (c *ListCache[T]) Len() int {
	return c.storage.Len()
}
