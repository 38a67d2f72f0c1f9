package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"coursehub/backend/internal/dto"
	"coursehub/backend/internal/model"
	"coursehub/backend/internal/repository"
	pkgerrors "coursehub/backend/pkg/errors"
)

// ── 测验模块业务错误 ──

var (
	ErrQuizNotFound       = pkgerrors.New(pkgerrors.ErrNotFound, "测验不存在")
	ErrQuizCourseNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "测验所属课程不存在")
)

// QuizService 测验编辑业务接口
//
// 测验头与题目作为一个聚合写入：
//   - Create / Update / Delete 均在单个事务内完成
//   - total_points 在同一事务内按题目分值重算
//   - Update 提供题目列表时整体替换（旧题目全部删除，新题目获得新 ID）
type QuizService interface {
	Create(ctx context.Context, req *dto.CreateQuizRequest, callerID uint) (*dto.QuizResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.QuizResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateQuizRequest, callerID uint) (*dto.QuizResponse, error)
	Delete(ctx context.Context, id uint) error
}

type quizService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQuizService 创建 QuizService 实例
func NewQuizService(repo *repository.Repository, logger *zap.Logger) QuizService {
	return &quizService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *quizService) Create(ctx context.Context, req *dto.CreateQuizRequest, callerID uint) (*dto.QuizResponse, error) {
	fields := validateQuizTitle(req.Title, "title")
	fields = append(fields, validateQuestions(req.Questions)...)
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("测验定义不合法", fields...)
	}

	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return nil, ErrQuizCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	maxAttempts := req.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 1
	}
	quiz := &model.Quiz{
		CourseID:         req.CourseID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		MaxAttempts:      maxAttempts,
		PassingScore:     req.PassingScore,
	}
	quiz.CreatedBy = &callerID
	quiz.UpdatedBy = &callerID

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Quiz.Create(ctx, quiz); err != nil {
			return fmt.Errorf("插入测验头失败: %w", err)
		}

		questions := buildQuestions(quiz.QuizID, req.Questions)
		if err := txRepo.Question.CreateBatch(ctx, questions); err != nil {
			return fmt.Errorf("插入题目失败: %w", err)
		}

		quiz.TotalPoints = model.SumPoints(questions)
		if err := txRepo.Quiz.UpdateTotalPoints(ctx, quiz.QuizID, quiz.TotalPoints); err != nil {
			return fmt.Errorf("更新测验总分失败: %w", err)
		}
		quiz.Questions = questions
		return nil
	})
	if err != nil {
		s.logger.Error("创建测验失败", zap.Uint("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建测验成功",
		zap.Uint("quiz_id", quiz.QuizID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("total_points", quiz.TotalPoints),
	)
	return toQuizResponse(quiz), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *quizService) GetByID(ctx context.Context, id uint) (*dto.QuizResponse, error) {
	quiz, err := s.repo.Quiz.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsRecordNotFound(err) {
			return nil, ErrQuizNotFound
		}
		s.logger.Error("查询测验失败", zap.Uint("quiz_id", id), zap.Error(err))
		return nil, err
	}
	return toQuizResponse(quiz), nil
}

// ────────────────────── Update ──────────────────────

func (s *quizService) Update(ctx context.Context, id uint, req *dto.UpdateQuizRequest, callerID uint) (*dto.QuizResponse, error) {
	var fields []pkgerrors.FieldError
	if req.Title != nil {
		fields = append(fields, validateQuizTitle(*req.Title, "title")...)
	}
	if req.Questions != nil {
		fields = append(fields, validateQuestions(*req.Questions)...)
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("测验定义不合法", fields...)
	}

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		// 锁定测验头，避免与重排交错
		quiz, err := txRepo.Quiz.GetByIDForUpdate(ctx, id)
		if err != nil {
			if pkgerrors.IsRecordNotFound(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("读取测验头失败: %w", err)
		}

		applyQuizUpdate(quiz, req)
		quiz.UpdatedBy = &callerID
		if err := txRepo.Quiz.UpdateHeader(ctx, quiz); err != nil {
			return fmt.Errorf("更新测验头失败: %w", err)
		}

		if req.Questions == nil {
			return nil
		}

		if err := txRepo.Question.DeleteByQuiz(ctx, id); err != nil {
			return fmt.Errorf("删除旧题目失败: %w", err)
		}
		questions := buildQuestions(id, *req.Questions)
		if err := txRepo.Question.CreateBatch(ctx, questions); err != nil {
			return fmt.Errorf("插入新题目失败: %w", err)
		}
		if err := txRepo.Quiz.UpdateTotalPoints(ctx, id, model.SumPoints(questions)); err != nil {
			return fmt.Errorf("更新测验总分失败: %w", err)
		}
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == nil {
			s.logger.Error("更新测验失败", zap.Uint("quiz_id", id), zap.Error(err))
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *quizService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if _, err := txRepo.Quiz.GetByIDForUpdate(ctx, id); err != nil {
			if pkgerrors.IsRecordNotFound(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("读取测验头失败: %w", err)
		}

		// 题目与测验头在同一事务内删除
		if err := txRepo.Question.DeleteByQuiz(ctx, id); err != nil {
			return fmt.Errorf("删除题目失败: %w", err)
		}
		if _, err := txRepo.Quiz.Delete(ctx, id); err != nil {
			return fmt.Errorf("删除测验头失败: %w", err)
		}
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == nil {
			s.logger.Error("删除测验失败", zap.Uint("quiz_id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("删除测验成功", zap.Uint("quiz_id", id))
	return nil
}

// ── 内部辅助方法 ──

func applyQuizUpdate(quiz *model.Quiz, req *dto.UpdateQuizRequest) {
	if req.Title != nil {
		quiz.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimitMinutes != nil {
		quiz.TimeLimitMinutes = *req.TimeLimitMinutes
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
}

// buildQuestions 按输入顺序生成题目，顺序从 1 开始
func buildQuestions(quizID uint, inputs []dto.QuestionInput) []model.Question {
	questions := make([]model.Question, 0, len(inputs))
	for i, in := range inputs {
		qType := in.QuestionType
		if qType == "" {
			qType = model.QuestionTypeSingleChoice
		}
		required := true
		if in.IsRequired != nil {
			required = *in.IsRequired
		}
		var options datatypes.JSON
		if hasOptions(in.Options) {
			options = datatypes.JSON(in.Options)
		}
		questions = append(questions, model.Question{
			QuizID:        quizID,
			Text:          strings.TrimSpace(in.Text),
			QuestionType:  qType,
			Options:       options,
			CorrectAnswer: in.CorrectAnswer,
			Points:        in.Points,
			SortOrder:     i + 1,
			IsRequired:    required,
		})
	}
	return questions
}

func validateQuizTitle(title, field string) []pkgerrors.FieldError {
	if strings.TrimSpace(title) == "" {
		return []pkgerrors.FieldError{{Field: field, Reason: "不能为空"}}
	}
	return nil
}

// validateQuestions 逐题校验，返回全部失败字段
func validateQuestions(inputs []dto.QuestionInput) []pkgerrors.FieldError {
	var fields []pkgerrors.FieldError
	for i, in := range inputs {
		prefix := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(in.Text) == "" {
			fields = append(fields, pkgerrors.FieldError{Field: prefix + ".text", Reason: "不能为空"})
		}
		if strings.TrimSpace(in.CorrectAnswer) == "" {
			fields = append(fields, pkgerrors.FieldError{Field: prefix + ".correct_answer", Reason: "不能为空"})
		}
		if in.Points < 0 {
			fields = append(fields, pkgerrors.FieldError{Field: prefix + ".points", Reason: "不能为负数"})
		}
		if hasOptions(in.Options) {
			var arr []json.RawMessage
			if err := json.Unmarshal(in.Options, &arr); err != nil {
				fields = append(fields, pkgerrors.FieldError{Field: prefix + ".options", Reason: "必须为 JSON 数组"})
			}
		}
	}
	return fields
}

func hasOptions(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func toQuizResponse(quiz *model.Quiz) *dto.QuizResponse {
	questions := make([]dto.QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, dto.QuestionResponse{
			ID:            q.QuestionID,
			Text:          q.Text,
			QuestionType:  q.QuestionType,
			Options:       json.RawMessage(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			Order:         q.SortOrder,
			IsRequired:    q.IsRequired,
		})
	}
	return &dto.QuizResponse{
		ID:               quiz.QuizID,
		CourseID:         quiz.CourseID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		MaxAttempts:      quiz.MaxAttempts,
		PassingScore:     quiz.PassingScore,
		TotalPoints:      quiz.TotalPoints,
		Questions:        questions,
		CreatedAt:        quiz.CreatedAt.Format(dto.TimeLayout),
		UpdatedAt:        quiz.UpdatedAt.Format(dto.TimeLayout),
	}
}
