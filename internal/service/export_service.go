package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"coursehub/backend/internal/model"
	"coursehub/backend/internal/repository"
	pkgerrors "coursehub/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportCourseNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "课程不存在")
	ErrExportGenerateFail   = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 导出内容以 bytes.Buffer 返回，由 Handler 层设置响应头后写出：
//   - ExportGradebook: 单个作业的提交与评分 (.xlsx)
//   - ExportDeadlines: 课程全部作业截止时间 (.ics)
type ExportService interface {
	ExportGradebook(ctx context.Context, assignmentID uint) (*bytes.Buffer, string, error)
	ExportDeadlines(ctx context.Context, courseID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportGradebook — 导出作业成绩单为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "成绩单"
//   - 第 1 行：作业标题与截止时间
//   - 第 2 行表头：学生 | 提交时间 | 迟交 | 状态 | 分数 | 评语

func (s *exportService) ExportGradebook(ctx context.Context, assignmentID uint) (*bytes.Buffer, string, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return nil, "", ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.Uint("assignment_id", assignmentID), zap.Error(err))
		return nil, "", err
	}

	submissions, _, err := s.repo.Submission.ListByAssignment(ctx, assignmentID, repository.SubmissionFilter{}, 0, 0)
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.Uint("assignment_id", assignmentID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "成绩单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "D", 10)
	f.SetColWidth(sheetName, "E", "E", 8)
	f.SetColWidth(sheetName, "F", "F", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s（截止 %s，满分 %g）",
		assignment.Title, assignment.DueDate.Format("2006-01-02 15:04"), assignment.MaxScore))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	headers := []string{"学生", "提交时间", "迟交", "状态", "分数", "评语"}
	for i, h := range headers {
		c, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, c, h)
	}
	f.SetCellStyle(sheetName, "A2", "F2", headerStyle)

	for i, sub := range submissions {
		row := i + 3
		f.SetCellValue(sheetName, cell("A", row), sub.UserID)
		f.SetCellValue(sheetName, cell("B", row), sub.SubmittedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, cell("C", row), yesNo(sub.IsLate))
		f.SetCellValue(sheetName, cell("D", row), sub.Status)
		if sub.Score != nil {
			f.SetCellValue(sheetName, cell("E", row), *sub.Score)
		}
		if sub.Feedback != nil {
			f.SetCellValue(sheetName, cell("F", row), *sub.Feedback)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("成绩单_%s.xlsx", assignment.Title)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportDeadlines — 导出课程作业截止时间为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个作业一个 VEVENT，DTSTART=DTEND=截止时间，UID 按作业 ID 固定，
// 订阅端重复拉取时能识别为同一事件。

func (s *exportService) ExportDeadlines(ctx context.Context, courseID uint) (*bytes.Buffer, string, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return nil, "", ErrExportCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, "", err
	}

	assignments, err := s.repo.Assignment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程作业失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	if err := buildDeadlineCalendar(course, assignments, s.now()).SerializeTo(buf); err != nil {
		s.logger.Error("生成 ICS 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("course-%d-deadlines.ics", courseID)
	return buf, filename, nil
}

func buildDeadlineCalendar(course *model.Course, assignments []model.Assignment, stamp time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//coursehub//deadlines//ZH")
	cal.SetName(course.Title + " 作业截止")

	for _, a := range assignments {
		evt := cal.AddEvent(fmt.Sprintf("assignment-%d@coursehub", a.AssignmentID))
		evt.SetDtStampTime(stamp.UTC())
		evt.SetStartAt(a.DueDate.UTC())
		evt.SetEndAt(a.DueDate.UTC())
		evt.SetSummary(fmt.Sprintf("[截止] %s", a.Title))
		if a.Description != "" {
			evt.SetDescription(a.Description)
		}
	}
	return cal
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
