package repository

import (
	"context"

	"gorm.io/gorm"

	"coursehub/backend/internal/model"
)

// CourseRepository 课程目录只读访问接口
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}
