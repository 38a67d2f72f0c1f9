package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"coursehub/backend/internal/model"
)

type fakePublishedCache struct {
	data   map[uint]bool
	getErr error
	sets   int
}

func (f *fakePublishedCache) GetCoursePublished(_ context.Context, id uint) (bool, bool, error) {
	if f.getErr != nil {
		return false, false, f.getErr
	}
	v, ok := f.data[id]
	return v, ok, nil
}

func (f *fakePublishedCache) SetCoursePublished(_ context.Context, id uint, published bool, _ time.Duration) error {
	f.data[id] = published
	f.sets++
	return nil
}

func TestCatalogGateway_DB(t *testing.T) {
	repo, mocks := newMockRepository()
	mocks.course.add(1, model.CourseStatusPublished)
	mocks.course.add(2, model.CourseStatusArchived)
	gw := NewCatalogGateway(repo, nil, time.Minute, zap.NewNop())

	cases := map[uint]bool{1: true, 2: false, 3: false}
	for id, want := range cases {
		got, err := gw.CourseExistsAndPublished(context.Background(), id)
		if err != nil {
			t.Fatalf("课程 %d: 意外错误 %v", id, err)
		}
		if got != want {
			t.Errorf("课程 %d: 期望 %v，实际 %v", id, want, got)
		}
	}
}

func TestCatalogGateway_StoreError(t *testing.T) {
	repo, mocks := newMockRepository()
	mocks.course.err = errors.New("db down")
	gw := NewCatalogGateway(repo, nil, 0, zap.NewNop())

	if _, err := gw.CourseExistsAndPublished(context.Background(), 1); err == nil {
		t.Error("存储异常应向上返回")
	}
}

func TestCatalogGateway_CacheHitAndFill(t *testing.T) {
	repo, mocks := newMockRepository()
	mocks.course.add(1, model.CourseStatusPublished)
	cache := &fakePublishedCache{data: map[uint]bool{9: true}}
	gw := NewCatalogGateway(repo, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	// 命中缓存，不回源
	if ok, _ := gw.CourseExistsAndPublished(ctx, 9); !ok {
		t.Error("应命中缓存返回 true")
	}

	// 未命中，回源并写缓存
	if ok, _ := gw.CourseExistsAndPublished(ctx, 1); !ok {
		t.Error("回源应返回 true")
	}
	if cache.sets != 1 || !cache.data[1] {
		t.Error("回源结果应写入缓存")
	}
}

func TestCatalogGateway_CacheErrorFallsBack(t *testing.T) {
	repo, mocks := newMockRepository()
	mocks.course.add(1, model.CourseStatusPublished)
	cache := &fakePublishedCache{data: map[uint]bool{}, getErr: errors.New("redis down")}
	gw := NewCatalogGateway(repo, cache, time.Minute, zap.NewNop())

	ok, err := gw.CourseExistsAndPublished(context.Background(), 1)
	if err != nil || !ok {
		t.Errorf("缓存异常应回源，实际 ok=%v err=%v", ok, err)
	}
}

func TestCatalogGateway_UnpublishedNotCached(t *testing.T) {
	repo, mocks := newMockRepository()
	mocks.course.add(1, model.CourseStatusDraft)
	// 旧版本遗留的 false 缓存视为未命中
	cache := &fakePublishedCache{data: map[uint]bool{1: false}}
	gw := NewCatalogGateway(repo, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	if ok, _ := gw.CourseExistsAndPublished(ctx, 1); ok {
		t.Fatal("草稿课程应返回 false")
	}
	if ok, _ := gw.CourseExistsAndPublished(ctx, 404); ok {
		t.Fatal("不存在的课程应返回 false")
	}
	if cache.sets != 0 {
		t.Errorf("未发布结果不应写入缓存，实际写入 %d 次", cache.sets)
	}

	// 发布后下一次查询立即可见
	mocks.course.add(1, model.CourseStatusPublished)
	if ok, _ := gw.CourseExistsAndPublished(ctx, 1); !ok {
		t.Error("发布后应立即返回 true")
	}
	if cache.sets != 1 || !cache.data[1] {
		t.Error("已发布结果应写入缓存")
	}
}
