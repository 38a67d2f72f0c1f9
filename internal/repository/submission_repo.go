package repository

import (
	"context"

	"gorm.io/gorm"

	"coursehub/backend/internal/model"
)

// SubmissionFilter 提交列表过滤条件
type SubmissionFilter struct {
	Status string
	Late   *bool
}

// SubmissionRepository 作业提交数据访问接口
type SubmissionRepository interface {
	// Create 插入首次提交；(assignment_id, user_id) 冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, submission *model.Submission) error
	GetByID(ctx context.Context, id uint) (*model.Submission, error)
	GetByAssignmentUser(ctx context.Context, assignmentID, userID uint) (*model.Submission, error)
	// Resubmit 原地覆盖内容、提交时间、迟交标记与状态
	Resubmit(ctx context.Context, submission *model.Submission) error
	// SaveGrade 写入分数、评语、评分时间与状态，不触碰 is_late
	SaveGrade(ctx context.Context, submission *model.Submission) error
	ListByAssignment(ctx context.Context, assignmentID uint, filter SubmissionFilter, offset, limit int) ([]model.Submission, int64, error)
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) GetByAssignmentUser(ctx context.Context, assignmentID, userID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) Resubmit(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(map[string]interface{}{
			"content":      submission.Content,
			"file_url":     submission.FileURL,
			"submitted_at": submission.SubmittedAt,
			"is_late":      submission.IsLate,
			"status":       submission.Status,
		}).Error
}

func (r *submissionRepo) SaveGrade(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(map[string]interface{}{
			"score":     submission.Score,
			"feedback":  submission.Feedback,
			"graded_at": submission.GradedAt,
			"graded_by": submission.GradedBy,
			"status":    submission.Status,
		}).Error
}

func (r *submissionRepo) ListByAssignment(ctx context.Context, assignmentID uint, filter SubmissionFilter, offset, limit int) ([]model.Submission, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("assignment_id = ?", assignmentID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Late != nil {
		query = query.Where("is_late = ?", *filter.Late)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []model.Submission
	q := query.Order("submitted_at ASC, submission_id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&submissions).Error; err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}
