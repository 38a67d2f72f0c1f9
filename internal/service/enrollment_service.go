package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coursehub/backend/internal/dto"
	"coursehub/backend/internal/model"
	"coursehub/backend/internal/repository"
	pkgerrors "coursehub/backend/pkg/errors"
	"coursehub/backend/pkg/redis"
)

// ── 选课模块业务错误 ──

var (
	ErrCourseNotAvailable      = pkgerrors.New(pkgerrors.ErrNotFound, "课程不存在或未发布")
	ErrEnrollmentNotFound      = pkgerrors.New(pkgerrors.ErrNotFound, "选课记录不存在")
	ErrAlreadyEnrolled         = pkgerrors.New(pkgerrors.ErrConflict, "已选过该课程")
	ErrInvalidEnrollmentStatus = pkgerrors.Validation("选课状态不合法",
		pkgerrors.FieldError{Field: "status", Reason: "必须为 active/completed/dropped/suspended 之一"})
)

// Locker 分布式互斥锁（由 pkg/redis.Client 实现）
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// EnrollmentService 选课业务接口
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uint) (*dto.EnrollmentResponse, error)
	Unenroll(ctx context.Context, userID, courseID uint) error
	UpdateStatus(ctx context.Context, userID, courseID uint, status string) (*dto.EnrollmentResponse, error)
	IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error)
	GetEnrollment(ctx context.Context, userID, courseID uint) (*dto.EnrollmentCheckResponse, error)
	ListMine(ctx context.Context, userID uint) ([]dto.EnrollmentResponse, error)
}

// lockRetryInterval 锁被占用时的轮询间隔
const lockRetryInterval = 50 * time.Millisecond

type enrollmentService struct {
	repo      *repository.Repository
	catalog   CatalogGateway
	locker    Locker
	lockTTL   time.Duration
	lockRetry time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService 创建 EnrollmentService 实例
// locker 为 nil 时不加锁，唯一约束仍是最终裁决
func NewEnrollmentService(repo *repository.Repository, catalog CatalogGateway, locker Locker, lockTTL time.Duration, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{
		repo:    repo,
		catalog: catalog,
		locker:    locker,
		lockTTL:   lockTTL,
		lockRetry: lockRetryInterval,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── Enroll ──────────────────────

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*dto.EnrollmentResponse, error) {
	ok, err := s.catalog.CourseExistsAndPublished(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程状态失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrCourseNotAvailable
	}

	if release := s.acquireEnrollLock(ctx, userID, courseID); release != nil {
		defer release()
	}

	existing, err := s.repo.Enrollment.GetByUserCourse(ctx, userID, courseID)
	if err == nil && existing != nil {
		return nil, ErrAlreadyEnrolled
	}
	if err != nil && !pkgerrors.IsRecordNotFound(err) {
		s.logger.Error("查询选课记录失败", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     model.EnrollmentStatusActive,
		EnrolledAt: s.now(),
	}
	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		// 并发请求先插入成功
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		s.logger.Error("创建选课记录失败", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("选课成功", zap.Uint("user_id", userID), zap.Uint("course_id", courseID))
	return toEnrollmentResponse(enrollment), nil
}

// acquireEnrollLock 在 lockTTL 内等待选课锁
// 返回 nil 表示未持锁继续执行，由存在性检查与唯一约束裁决，锁本身从不产生冲突错误
func (s *enrollmentService) acquireEnrollLock(ctx context.Context, userID, courseID uint) func() {
	if s.locker == nil {
		return nil
	}
	key := fmt.Sprintf("enroll:%d:%d", userID, courseID)
	deadline := time.Now().Add(s.lockTTL)

	for {
		release, err := s.locker.Lock(ctx, key, s.lockTTL)
		switch {
		case err == nil:
			return release
		case !errors.Is(err, redis.ErrLockNotAcquired):
			s.logger.Warn("获取选课锁失败，退回唯一约束判定", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Error(err))
			return nil
		}

		if !time.Now().Add(s.lockRetry).Before(deadline) {
			s.logger.Warn("等待选课锁超时，退回唯一约束判定",
				zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Duration("lock_ttl", s.lockTTL))
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.lockRetry):
		}
	}
}

// ────────────────────── Unenroll ──────────────────────

func (s *enrollmentService) Unenroll(ctx context.Context, userID, courseID uint) error {
	n, err := s.repo.Enrollment.UpdateStatus(ctx, userID, courseID, model.EnrollmentStatusDropped, nil)
	if err != nil {
		s.logger.Error("退课失败", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *enrollmentService) UpdateStatus(ctx context.Context, userID, courseID uint, status string) (*dto.EnrollmentResponse, error) {
	if !isEnrollmentStatus(status) {
		return nil, ErrInvalidEnrollmentStatus
	}

	var completedAt *time.Time
	if status == model.EnrollmentStatusCompleted {
		now := s.now()
		completedAt = &now
	}

	n, err := s.repo.Enrollment.UpdateStatus(ctx, userID, courseID, status, completedAt)
	if err != nil {
		s.logger.Error("更新选课状态失败", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.String("status", status), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		return nil, ErrEnrollmentNotFound
	}

	enrollment, err := s.repo.Enrollment.GetByUserCourse(ctx, userID, courseID)
	if err != nil {
		s.logger.Error("查询选课记录失败", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return toEnrollmentResponse(enrollment), nil
}

// ────────────────────── IsEnrolled ──────────────────────

func (s *enrollmentService) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	enrollment, err := s.repo.Enrollment.GetByUserCourse(ctx, userID, courseID)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return false, nil
		}
		s.logger.Error("查询选课记录失败", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Error(err))
		return false, err
	}
	return enrollment.IsActive(), nil
}

// GetEnrollment 查询选课状态及记录（无记录时 Enrollment 为空）
func (s *enrollmentService) GetEnrollment(ctx context.Context, userID, courseID uint) (*dto.EnrollmentCheckResponse, error) {
	enrollment, err := s.repo.Enrollment.GetByUserCourse(ctx, userID, courseID)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return &dto.EnrollmentCheckResponse{Enrolled: false}, nil
		}
		s.logger.Error("查询选课记录失败", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return &dto.EnrollmentCheckResponse{
		Enrolled:   enrollment.IsActive(),
		Enrollment: toEnrollmentResponse(enrollment),
	}, nil
}

// ListMine 列出用户全部选课记录（含已退课）
func (s *enrollmentService) ListMine(ctx context.Context, userID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.Enrollment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出选课记录失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		result = append(result, *toEnrollmentResponse(&enrollments[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func isEnrollmentStatus(status string) bool {
	for _, s := range model.EnrollmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func toEnrollmentResponse(e *model.Enrollment) *dto.EnrollmentResponse {
	resp := &dto.EnrollmentResponse{
		ID:         e.EnrollmentID,
		UserID:     e.UserID,
		CourseID:   e.CourseID,
		Status:     e.Status,
		EnrolledAt: e.EnrolledAt.Format(dto.TimeLayout),
		Grade:      e.Grade,
	}
	if e.CompletedAt != nil {
		resp.CompletedAt = e.CompletedAt.Format(dto.TimeLayout)
	}
	return resp
}
