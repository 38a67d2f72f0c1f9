package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"coursehub/backend/internal/repository"
	pkgerrors "coursehub/backend/pkg/errors"
)

// QuestionService 题目顺序业务接口
type QuestionService interface {
	// Reorder 按 orderedIDs 重新编号 1..N
	// orderedIDs 必须与测验当前题目集合完全一致，否则不做任何修改
	Reorder(ctx context.Context, quizID uint, orderedIDs []uint) error
}

type questionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQuestionService 创建 QuestionService 实例
func NewQuestionService(repo *repository.Repository, logger *zap.Logger) QuestionService {
	return &questionService{repo: repo, logger: logger}
}

// ────────────────────── Reorder ──────────────────────

func (s *questionService) Reorder(ctx context.Context, quizID uint, orderedIDs []uint) error {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if _, err := txRepo.Quiz.GetByIDForUpdate(ctx, quizID); err != nil {
			if pkgerrors.IsRecordNotFound(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("读取测验头失败: %w", err)
		}

		currentIDs, err := txRepo.Question.ListIDsByQuiz(ctx, quizID)
		if err != nil {
			return fmt.Errorf("读取题目失败: %w", err)
		}

		if fields := diffQuestionSet(currentIDs, orderedIDs); len(fields) > 0 {
			return pkgerrors.Validation("题目集合与测验当前题目不一致", fields...)
		}

		if err := txRepo.Question.UpdateOrders(ctx, quizID, orderedIDs); err != nil {
			return fmt.Errorf("更新题目顺序失败: %w", err)
		}
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == nil {
			s.logger.Error("题目重排失败", zap.Uint("quiz_id", quizID), zap.Error(err))
		}
		return err
	}

	s.logger.Info("题目重排成功", zap.Uint("quiz_id", quizID), zap.Int("count", len(orderedIDs)))
	return nil
}

// diffQuestionSet 比较提交集合与当前集合
// 报告数量不符、重复、未知与缺失的题目 ID
func diffQuestionSet(current, supplied []uint) []pkgerrors.FieldError {
	var fields []pkgerrors.FieldError

	if len(current) != len(supplied) {
		fields = append(fields, pkgerrors.FieldError{
			Field:  "question_ids",
			Reason: fmt.Sprintf("数量应为 %d，实际 %d", len(current), len(supplied)),
		})
	}

	currentSet := make(map[uint]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}

	seen := make(map[uint]struct{}, len(supplied))
	var duplicated, unknown []uint
	for _, id := range supplied {
		if _, dup := seen[id]; dup {
			duplicated = append(duplicated, id)
			continue
		}
		seen[id] = struct{}{}
		if _, ok := currentSet[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	var missing []uint
	for _, id := range current {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(duplicated) > 0 {
		fields = append(fields, pkgerrors.FieldError{Field: "question_ids", Reason: "重复的题目: " + joinIDs(duplicated)})
	}
	if len(unknown) > 0 {
		fields = append(fields, pkgerrors.FieldError{Field: "question_ids", Reason: "不属于该测验的题目: " + joinIDs(unknown)})
	}
	if len(missing) > 0 {
		fields = append(fields, pkgerrors.FieldError{Field: "question_ids", Reason: "缺少题目: " + joinIDs(missing)})
	}
	return fields
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}
