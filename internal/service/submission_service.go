package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coursehub/backend/internal/dto"
	"coursehub/backend/internal/model"
	"coursehub/backend/internal/repository"
	pkgerrors "coursehub/backend/pkg/errors"
)

// ── 作业提交模块业务错误 ──

var (
	ErrAssignmentNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "作业不存在")
	ErrSubmissionNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "提交记录不存在")
)

// SubmissionService 作业提交业务接口
//
// 每个 (assignment, user) 只有一条提交记录：
//   - 首次提交插入，之后的提交原地覆盖
//   - is_late 在提交时按当前时间与截止时间确定，评分不会重算
type SubmissionService interface {
	Submit(ctx context.Context, assignmentID, userID uint, req *dto.SubmitRequest) (*dto.SubmissionResponse, error)
	Grade(ctx context.Context, submissionID uint, req *dto.GradeSubmissionRequest, graderID uint) (*dto.SubmissionResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, assignmentID uint, req *dto.SubmissionListRequest) ([]dto.SubmissionResponse, int64, error)
}

type submissionService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(repo *repository.Repository, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, assignmentID, userID uint, req *dto.SubmitRequest) (*dto.SubmissionResponse, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	submission := &model.Submission{
		AssignmentID: assignmentID,
		UserID:       userID,
		Content:      req.Content,
		FileURL:      req.FileURL,
		Status:       model.SubmissionStatusSubmitted,
		IsLate:       assignment.IsLateAt(now),
		SubmittedAt:  now,
	}

	existing, err := s.repo.Submission.GetByAssignmentUser(ctx, assignmentID, userID)
	switch {
	case err == nil:
		return s.overwrite(ctx, existing, submission)
	case !pkgerrors.IsRecordNotFound(err):
		s.logger.Error("查询提交记录失败", zap.Uint("assignment_id", assignmentID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	if err := s.repo.Submission.Create(ctx, submission); err != nil {
		if !pkgerrors.IsUniqueViolation(err) {
			s.logger.Error("创建提交记录失败", zap.Uint("assignment_id", assignmentID), zap.Uint("user_id", userID), zap.Error(err))
			return nil, err
		}

		// 并发首次提交：对方已插入，改为覆盖其记录
		winner, getErr := s.repo.Submission.GetByAssignmentUser(ctx, assignmentID, userID)
		if getErr != nil {
			s.logger.Error("读取并发提交记录失败", zap.Uint("assignment_id", assignmentID), zap.Uint("user_id", userID), zap.Error(getErr))
			return nil, fmt.Errorf("读取并发提交记录失败: %w", getErr)
		}
		return s.overwrite(ctx, winner, submission)
	}

	s.logger.Info("作业提交成功",
		zap.Uint("submission_id", submission.SubmissionID),
		zap.Uint("assignment_id", assignmentID),
		zap.Bool("is_late", submission.IsLate),
	)
	return toSubmissionResponse(submission), nil
}

// overwrite 用 incoming 的内容覆盖已有记录，分数与评语保留
func (s *submissionService) overwrite(ctx context.Context, existing, incoming *model.Submission) (*dto.SubmissionResponse, error) {
	existing.Content = incoming.Content
	existing.FileURL = incoming.FileURL
	existing.SubmittedAt = incoming.SubmittedAt
	existing.IsLate = incoming.IsLate
	existing.Status = model.SubmissionStatusSubmitted

	if err := s.repo.Submission.Resubmit(ctx, existing); err != nil {
		s.logger.Error("覆盖提交记录失败", zap.Uint("submission_id", existing.SubmissionID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("作业重新提交成功",
		zap.Uint("submission_id", existing.SubmissionID),
		zap.Bool("is_late", existing.IsLate),
	)
	return toSubmissionResponse(existing), nil
}

// ────────────────────── Grade ──────────────────────

func (s *submissionService) Grade(ctx context.Context, submissionID uint, req *dto.GradeSubmissionRequest, graderID uint) (*dto.SubmissionResponse, error) {
	if req.Score == nil {
		return nil, pkgerrors.Validation("评分参数不合法", pkgerrors.FieldError{Field: "score", Reason: "不能为空"})
	}

	submission, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交记录失败", zap.Uint("submission_id", submissionID), zap.Error(err))
		return nil, err
	}

	assignment, err := s.getAssignment(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}

	score := *req.Score
	if score < 0 || score > assignment.MaxScore {
		return nil, pkgerrors.Validation("评分参数不合法", pkgerrors.FieldError{
			Field:  "score",
			Reason: fmt.Sprintf("必须在 0 到 %g 之间", assignment.MaxScore),
		})
	}

	now := s.now()
	submission.Score = &score
	submission.Feedback = req.Feedback
	submission.GradedAt = &now
	submission.GradedBy = &graderID
	submission.Status = model.SubmissionStatusGraded

	if err := s.repo.Submission.SaveGrade(ctx, submission); err != nil {
		s.logger.Error("保存评分失败", zap.Uint("submission_id", submissionID), zap.Error(err))
		return nil, err
	}

	return toSubmissionResponse(submission), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *submissionService) GetByID(ctx context.Context, id uint) (*dto.SubmissionResponse, error) {
	submission, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交记录失败", zap.Uint("submission_id", id), zap.Error(err))
		return nil, err
	}
	return toSubmissionResponse(submission), nil
}

// ────────────────────── ListByAssignment ──────────────────────

func (s *submissionService) ListByAssignment(ctx context.Context, assignmentID uint, req *dto.SubmissionListRequest) ([]dto.SubmissionResponse, int64, error) {
	if _, err := s.getAssignment(ctx, assignmentID); err != nil {
		return nil, 0, err
	}

	filter := repository.SubmissionFilter{Status: req.Status, Late: req.Late}
	submissions, total, err := s.repo.Submission.ListByAssignment(ctx, assignmentID, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出提交记录失败", zap.Uint("assignment_id", assignmentID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		result = append(result, *toSubmissionResponse(&submissions[i]))
	}
	return result, total, nil
}

// ── 内部辅助方法 ──

func (s *submissionService) getAssignment(ctx context.Context, id uint) (*model.Assignment, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.Uint("assignment_id", id), zap.Error(err))
		return nil, err
	}
	return assignment, nil
}

func toSubmissionResponse(sub *model.Submission) *dto.SubmissionResponse {
	resp := &dto.SubmissionResponse{
		ID:           sub.SubmissionID,
		AssignmentID: sub.AssignmentID,
		UserID:       sub.UserID,
		Content:      sub.Content,
		FileURL:      sub.FileURL,
		Score:        sub.Score,
		Feedback:     sub.Feedback,
		Status:       sub.Status,
		IsLate:       sub.IsLate,
		SubmittedAt:  sub.SubmittedAt.Format(dto.TimeLayout),
	}
	if sub.GradedAt != nil {
		resp.GradedAt = sub.GradedAt.Format(dto.TimeLayout)
	}
	return resp
}
