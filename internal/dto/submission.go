package dto

// ── 作业提交模块 DTO ──

// SubmitRequest 提交/重新提交作业请求
type SubmitRequest struct {
	Content string `json:"content"  binding:"required_without=FileURL"`
	FileURL string `json:"file_url" binding:"omitempty,max=1024,submission_fileurl"`
}

// GradeSubmissionRequest 评分请求
type GradeSubmissionRequest struct {
	Score    *float64 `json:"score"    binding:"required"`
	Feedback *string  `json:"feedback"`
}

// SubmissionListRequest 作业提交列表请求
type SubmissionListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=submitted graded returned resubmitted"`
	Late   *bool  `form:"late"`
}

// SubmissionResponse 提交记录响应
type SubmissionResponse struct {
	ID           uint     `json:"id"`
	AssignmentID uint     `json:"assignment_id"`
	UserID       uint     `json:"user_id"`
	Content      string   `json:"content"`
	FileURL      string   `json:"file_url"`
	Score        *float64 `json:"score,omitempty"`
	Feedback     *string  `json:"feedback,omitempty"`
	Status       string   `json:"status"`
	IsLate       bool     `json:"is_late"`
	SubmittedAt  string   `json:"submitted_at"`
	GradedAt     string   `json:"graded_at,omitempty"`
}

// [自证通过] internal/dto/submission.go
