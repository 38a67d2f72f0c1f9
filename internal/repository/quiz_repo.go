package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursehub/backend/internal/model"
)

// QuizRepository 测验头数据访问接口
type QuizRepository interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	// GetByID 读取测验头及按顺序排列的题目
	GetByID(ctx context.Context, id uint) (*model.Quiz, error)
	// GetByIDForUpdate 读取并锁定测验头行（须在事务内调用）
	GetByIDForUpdate(ctx context.Context, id uint) (*model.Quiz, error)
	UpdateHeader(ctx context.Context, quiz *model.Quiz) error
	UpdateTotalPoints(ctx context.Context, id uint, total int) error
	Delete(ctx context.Context, id uint) (int64, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Quiz, error)
}

type quizRepo struct {
	db *gorm.DB
}

// NewQuizRepo 创建 QuizRepository 实例
func NewQuizRepo(db *gorm.DB) QuizRepository {
	return &quizRepo{db: db}
}

func (r *quizRepo) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(quiz).Error
}

func (r *quizRepo) GetByID(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, question_id ASC")
		}).
		Where("quiz_id = ?", id).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) GetByIDForUpdate(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("quiz_id = ?", id).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) UpdateHeader(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).
		Model(&model.Quiz{}).
		Where("quiz_id = ?", quiz.QuizID).
		Updates(map[string]interface{}{
			"title":              quiz.Title,
			"description":        quiz.Description,
			"time_limit_minutes": quiz.TimeLimitMinutes,
			"max_attempts":       quiz.MaxAttempts,
			"passing_score":      quiz.PassingScore,
			"updated_by":         quiz.UpdatedBy,
		}).Error
}

func (r *quizRepo) UpdateTotalPoints(ctx context.Context, id uint, total int) error {
	return r.db.WithContext(ctx).
		Model(&model.Quiz{}).
		Where("quiz_id = ?", id).
		Update("total_points", total).Error
}

func (r *quizRepo) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("quiz_id = ?", id).
		Delete(&model.Quiz{})
	return result.RowsAffected, result.Error
}

func (r *quizRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("quiz_id ASC").
		Find(&quizzes).Error
	return quizzes, err
}

// ── 题目 ──

// QuestionRepository 题目数据访问接口
type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []model.Question) error
	DeleteByQuiz(ctx context.Context, quizID uint) error
	ListIDsByQuiz(ctx context.Context, quizID uint) ([]uint, error)
	// UpdateOrders 以单条 UPDATE 将 orderedIDs[i] 的顺序设为 i+1
	UpdateOrders(ctx context.Context, quizID uint, orderedIDs []uint) error
}

type questionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo 创建 QuestionRepository 实例
func NewQuestionRepo(db *gorm.DB) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *questionRepo) DeleteByQuiz(ctx context.Context, quizID uint) error {
	return r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Delete(&model.Question{}).Error
}

func (r *questionRepo) ListIDsByQuiz(ctx context.Context, quizID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("quiz_id = ?", quizID).
		Order("sort_order ASC").
		Pluck("question_id", &ids).Error
	return ids, err
}

func (r *questionRepo) UpdateOrders(ctx context.Context, quizID uint, orderedIDs []uint) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	var expr strings.Builder
	args := make([]interface{}, 0, len(orderedIDs)*2)
	expr.WriteString("CASE question_id")
	for i, id := range orderedIDs {
		expr.WriteString(" WHEN ? THEN ?::int")
		args = append(args, id, i+1)
	}
	expr.WriteString(" END")

	result := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("quiz_id = ? AND question_id IN ?", quizID, orderedIDs).
		Update("sort_order", gorm.Expr(expr.String(), args...))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(len(orderedIDs)) {
		return fmt.Errorf("重排影响行数不符: 期望 %d, 实际 %d", len(orderedIDs), result.RowsAffected)
	}
	return nil
}
