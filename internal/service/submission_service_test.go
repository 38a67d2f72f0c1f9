package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"coursehub/backend/internal/dto"
	"coursehub/backend/internal/model"
	pkgerrors "coursehub/backend/pkg/errors"
)

// ── 测试辅助 ──

var dueDate = time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

func setupTestSubmissionService(now time.Time) (*submissionService, *mockRepos) {
	repo, mocks := newMockRepository()
	mocks.assignment.assignments[1] = &model.Assignment{
		AssignmentID: 1,
		CourseID:     10,
		Title:        "实验报告一",
		DueDate:      dueDate,
		MaxScore:     100,
	}
	svc := NewSubmissionService(repo, zap.NewNop()).(*submissionService)
	svc.now = func() time.Time { return now }
	return svc, mocks
}

func floatPtr(v float64) *float64 { return &v }

// ── Submit 测试 ──

func TestSubmissionService_Submit_OnTime(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate.Add(-time.Hour))

	result, err := svc.Submit(context.Background(), 1, 7, &dto.SubmitRequest{Content: "答案"})
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if result.IsLate {
		t.Error("截止前提交不应标记迟交")
	}
	if result.Status != model.SubmissionStatusSubmitted {
		t.Errorf("期望 Status=submitted，实际=%s", result.Status)
	}
}

func TestSubmissionService_Submit_ExactlyAtDueDate(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate)

	result, _ := svc.Submit(context.Background(), 1, 7, &dto.SubmitRequest{Content: "答案"})
	if result.IsLate {
		t.Error("恰好在截止时间提交不算迟交")
	}
}

func TestSubmissionService_Submit_Late(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate.Add(time.Second))

	result, _ := svc.Submit(context.Background(), 1, 7, &dto.SubmitRequest{Content: "答案"})
	if !result.IsLate {
		t.Error("截止后提交应标记迟交")
	}
}

func TestSubmissionService_Submit_AssignmentNotFound(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate)

	_, err := svc.Submit(context.Background(), 404, 7, &dto.SubmitRequest{Content: "x"})
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("期望 ErrAssignmentNotFound，实际: %v", err)
	}
}

func TestSubmissionService_Resubmit_OverwritesInPlace(t *testing.T) {
	svc, mocks := setupTestSubmissionService(dueDate.Add(-time.Hour))
	ctx := context.Background()

	first, _ := svc.Submit(ctx, 1, 7, &dto.SubmitRequest{Content: "v1"})

	// 截止后重新提交
	svc.now = func() time.Time { return dueDate.Add(time.Hour) }
	second, err := svc.Submit(ctx, 1, 7, &dto.SubmitRequest{Content: "v2", FileURL: "https://files.example.com/v2.pdf"})
	if err != nil {
		t.Fatalf("重新提交应成功: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("重新提交应覆盖同一记录: %d != %d", second.ID, first.ID)
	}
	if len(mocks.submission.rows) != 1 {
		t.Errorf("期望 1 条记录，实际 %d", len(mocks.submission.rows))
	}
	row := mocks.submission.rows[first.ID]
	if row.Content != "v2" || row.FileURL == "" {
		t.Error("内容与附件应被覆盖")
	}
	if !row.IsLate {
		t.Error("迟交标记应按重新提交时间重算")
	}
	if !row.SubmittedAt.Equal(dueDate.Add(time.Hour)) {
		t.Errorf("提交时间应更新，实际 %v", row.SubmittedAt)
	}
}

func TestSubmissionService_Resubmit_AfterGradeResetsStatus(t *testing.T) {
	svc, mocks := setupTestSubmissionService(dueDate.Add(-time.Hour))
	ctx := context.Background()

	first, _ := svc.Submit(ctx, 1, 7, &dto.SubmitRequest{Content: "v1"})
	_, _ = svc.Grade(ctx, first.ID, &dto.GradeSubmissionRequest{Score: floatPtr(80)}, 2)

	_, _ = svc.Submit(ctx, 1, 7, &dto.SubmitRequest{Content: "v2"})
	row := mocks.submission.rows[first.ID]
	if row.Status != model.SubmissionStatusSubmitted {
		t.Errorf("重新提交后状态应为 submitted，实际 %s", row.Status)
	}
	if row.Score == nil || *row.Score != 80 {
		t.Error("重新提交保留原分数，待再次评分覆盖")
	}
}

func TestSubmissionService_Submit_FirstWriteRace(t *testing.T) {
	svc, mocks := setupTestSubmissionService(dueDate.Add(time.Minute))
	mocks.submission.raceWinner = &model.Submission{
		AssignmentID: 1,
		UserID:       7,
		Content:      "winner",
		Status:       model.SubmissionStatusSubmitted,
		SubmittedAt:  dueDate.Add(-time.Minute),
	}

	result, err := svc.Submit(context.Background(), 1, 7, &dto.SubmitRequest{Content: "loser"})
	if err != nil {
		t.Fatalf("并发首次提交的失败方应改为覆盖，实际: %v", err)
	}
	if len(mocks.submission.rows) != 1 {
		t.Fatalf("期望 1 条记录，实际 %d", len(mocks.submission.rows))
	}
	row := mocks.submission.rows[result.ID]
	if row.Content != "loser" || !row.IsLate {
		t.Errorf("应以后到者内容覆盖: %+v", row)
	}
	if mocks.submission.resubmits != 1 {
		t.Errorf("期望 1 次覆盖，实际 %d", mocks.submission.resubmits)
	}
}

// ── Grade 测试 ──

func TestSubmissionService_Grade_Success(t *testing.T) {
	svc, mocks := setupTestSubmissionService(dueDate.Add(time.Hour))
	ctx := context.Background()
	sub, _ := svc.Submit(ctx, 1, 7, &dto.SubmitRequest{Content: "答案"})

	// 评分时间远晚于截止，迟交标记保持提交时的值
	gradedAt := dueDate.Add(72 * time.Hour)
	svc.now = func() time.Time { return gradedAt }
	feedback := "不错"
	result, err := svc.Grade(ctx, sub.ID, &dto.GradeSubmissionRequest{Score: floatPtr(92.5), Feedback: &feedback}, 2)
	if err != nil {
		t.Fatalf("Grade 应成功: %v", err)
	}
	if result.Status != model.SubmissionStatusGraded {
		t.Errorf("期望 Status=graded，实际=%s", result.Status)
	}
	if result.Score == nil || *result.Score != 92.5 {
		t.Errorf("分数不符: %v", result.Score)
	}
	if !result.IsLate {
		t.Error("评分不应改变迟交标记")
	}

	row := mocks.submission.rows[sub.ID]
	if row.GradedAt == nil || !row.GradedAt.Equal(gradedAt) {
		t.Error("应写入评分时间")
	}
	if row.GradedBy == nil || *row.GradedBy != 2 {
		t.Error("应记录评分人")
	}
}

func TestSubmissionService_Grade_OnTimeStaysOnTime(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate.Add(-time.Hour))
	ctx := context.Background()
	sub, _ := svc.Submit(ctx, 1, 7, &dto.SubmitRequest{Content: "答案"})

	svc.now = func() time.Time { return dueDate.Add(240 * time.Hour) }
	result, _ := svc.Grade(ctx, sub.ID, &dto.GradeSubmissionRequest{Score: floatPtr(60)}, 2)
	if result.IsLate {
		t.Error("按时提交在截止后评分仍不算迟交")
	}
}

func TestSubmissionService_Grade_NotFound(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate)

	_, err := svc.Grade(context.Background(), 404, &dto.GradeSubmissionRequest{Score: floatPtr(1)}, 2)
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("期望 ErrSubmissionNotFound，实际: %v", err)
	}
}

func TestSubmissionService_Grade_ScoreOutOfRange(t *testing.T) {
	svc, mocks := setupTestSubmissionService(dueDate)
	ctx := context.Background()
	sub, _ := svc.Submit(ctx, 1, 7, &dto.SubmitRequest{Content: "答案"})

	for _, score := range []float64{-1, 100.5} {
		_, err := svc.Grade(ctx, sub.ID, &dto.GradeSubmissionRequest{Score: floatPtr(score)}, 2)
		if !errors.Is(err, pkgerrors.ErrValidation) {
			t.Errorf("分数 %v: 期望 Validation，实际: %v", score, err)
		}
	}
	if mocks.submission.rows[sub.ID].Status != model.SubmissionStatusSubmitted {
		t.Error("校验失败不应修改记录")
	}
}

func TestSubmissionService_Grade_MissingScore(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate)

	_, err := svc.Grade(context.Background(), 1, &dto.GradeSubmissionRequest{}, 2)
	if !errors.Is(err, pkgerrors.ErrValidation) {
		t.Errorf("期望 Validation，实际: %v", err)
	}
}

// ── 查询测试 ──

func TestSubmissionService_ListByAssignment(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate.Add(-time.Hour))
	ctx := context.Background()

	_, _ = svc.Submit(ctx, 1, 1, &dto.SubmitRequest{Content: "a"})
	_, _ = svc.Submit(ctx, 1, 2, &dto.SubmitRequest{Content: "b"})
	svc.now = func() time.Time { return dueDate.Add(time.Hour) }
	_, _ = svc.Submit(ctx, 1, 3, &dto.SubmitRequest{Content: "c"})

	list, total, err := svc.ListByAssignment(ctx, 1, &dto.SubmissionListRequest{})
	if err != nil {
		t.Fatalf("ListByAssignment 应成功: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Errorf("期望 3 条，实际 total=%d len=%d", total, len(list))
	}

	late := true
	list, total, _ = svc.ListByAssignment(ctx, 1, &dto.SubmissionListRequest{Late: &late})
	if total != 1 || list[0].UserID != 3 {
		t.Errorf("迟交过滤结果不符: total=%d", total)
	}

	if _, _, err := svc.ListByAssignment(ctx, 404, &dto.SubmissionListRequest{}); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("期望 ErrAssignmentNotFound，实际: %v", err)
	}
}

func TestSubmissionService_GetByID(t *testing.T) {
	svc, _ := setupTestSubmissionService(dueDate)
	ctx := context.Background()
	sub, _ := svc.Submit(ctx, 1, 7, &dto.SubmitRequest{Content: "答案"})

	got, err := svc.GetByID(ctx, sub.ID)
	if err != nil || got.UserID != 7 {
		t.Errorf("GetByID 结果不符: %+v, %v", got, err)
	}
	if _, err := svc.GetByID(ctx, 404); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("期望 ErrSubmissionNotFound，实际: %v", err)
	}
}
