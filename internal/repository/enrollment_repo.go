package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"coursehub/backend/internal/model"
)

// EnrollmentRepository 选课记录数据访问接口
type EnrollmentRepository interface {
	// Create 插入新记录；(user_id, course_id) 冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByUserCourse(ctx context.Context, userID, courseID uint) (*model.Enrollment, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Enrollment, error)
	// UpdateStatus 原地覆盖状态；completedAt 非 nil 时一并写入
	UpdateStatus(ctx context.Context, userID, courseID uint, status string, completedAt *time.Time) (int64, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByUserCourse(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) UpdateStatus(ctx context.Context, userID, courseID uint, status string, completedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	result := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(updates)
	return result.RowsAffected, result.Error
}
