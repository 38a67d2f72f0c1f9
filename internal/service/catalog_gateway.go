package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"coursehub/backend/internal/repository"
	pkgerrors "coursehub/backend/pkg/errors"
)

// CatalogGateway 课程目录查询
// 选课前确认课程存在且已发布
type CatalogGateway interface {
	CourseExistsAndPublished(ctx context.Context, courseID uint) (bool, error)
}

// PublishedCache 课程发布状态缓存（由 pkg/redis.Client 实现）
type PublishedCache interface {
	GetCoursePublished(ctx context.Context, courseID uint) (published bool, found bool, err error)
	SetCoursePublished(ctx context.Context, courseID uint, published bool, ttl time.Duration) error
}

type dbCatalogGateway struct {
	repo *repository.Repository
}

// NewCatalogGateway 创建基于数据库的 CatalogGateway
// cache 非 nil 且 ttl > 0 时在其外包一层 Redis 缓存
func NewCatalogGateway(repo *repository.Repository, cache PublishedCache, ttl time.Duration, logger *zap.Logger) CatalogGateway {
	var gw CatalogGateway = &dbCatalogGateway{repo: repo}
	if cache != nil && ttl > 0 {
		gw = &cachedCatalogGateway{next: gw, cache: cache, ttl: ttl, logger: logger}
	}
	return gw
}

func (g *dbCatalogGateway) CourseExistsAndPublished(ctx context.Context, courseID uint) (bool, error) {
	course, err := g.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return course.IsPublished(), nil
}

// cachedCatalogGateway 缓存装饰器
// 只缓存已发布结果，未发布/不存在每次回源，发布后立即可选
// 缓存读写失败只记日志，直接回源
type cachedCatalogGateway struct {
	next   CatalogGateway
	cache  PublishedCache
	ttl    time.Duration
	logger *zap.Logger
}

func (g *cachedCatalogGateway) CourseExistsAndPublished(ctx context.Context, courseID uint) (bool, error) {
	published, found, err := g.cache.GetCoursePublished(ctx, courseID)
	if err != nil {
		g.logger.Warn("读取课程发布缓存失败，回源查询", zap.Uint("course_id", courseID), zap.Error(err))
	} else if found && published {
		return true, nil
	}

	published, err = g.next.CourseExistsAndPublished(ctx, courseID)
	if err != nil {
		return false, err
	}

	if !published {
		return false, nil
	}
	if err := g.cache.SetCoursePublished(ctx, courseID, true, g.ttl); err != nil {
		g.logger.Warn("写入课程发布缓存失败", zap.Uint("course_id", courseID), zap.Error(err))
	}
	return true, nil
}
