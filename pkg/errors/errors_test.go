package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestError_UnwrapsToKind(t *testing.T) {
	errDup := New(ErrConflict, "已选修该课程")
	wrapped := fmt.Errorf("enroll: %w", errDup)

	assert.True(t, errors.Is(wrapped, errDup))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, ErrConflict, KindOf(wrapped))
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Nil(t, KindOf(errors.New("connection reset")))
	assert.Nil(t, KindOf(nil))
}

func TestValidation_MessageIncludesFields(t *testing.T) {
	err := Validation("题目定义不完整",
		FieldError{Field: "questions[0].text", Reason: "不能为空"},
		FieldError{Field: "questions[1].points", Reason: "不能为负数"},
	)

	assert.Equal(t, ErrValidation, KindOf(err))
	assert.Contains(t, err.Error(), "questions[0].text: 不能为空")
	assert.Contains(t, err.Error(), "questions[1].points: 不能为负数")
	assert.Len(t, err.Fields, 2)
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"raw pg 23505", &pgconn.PgError{Code: "23505"}, true},
		{"raw pg fk violation", &pgconn.PgError{Code: "23503"}, false},
		{"record not found", gorm.ErrRecordNotFound, false},
		{"other", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsUniqueViolation(tc.err))
		})
	}
}
