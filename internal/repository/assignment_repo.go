package repository

import (
	"context"

	"gorm.io/gorm"

	"coursehub/backend/internal/model"
)

// AssignmentRepository 作业数据访问接口
type AssignmentRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Assignment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) GetByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}
