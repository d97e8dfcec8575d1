package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type essayForm struct {
	Question string   `form:"question" validate:"notblank" msg:"문제를 입력해주세요"`
	Answer   string   `form:"student_answer" validate:"notblank" msg:"답안을 작성해주세요"`
	Score    int      `form:"max_score" validate:"gte=1"`
	Names    []string `form:"names" validate:"omitempty,min=1"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(essayForm{Question: "q", Answer: "a", Score: 100}))

	err := Struct(&essayForm{Question: "  ", Answer: "a", Score: 100})
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "question", vErr.Field)
	assert.Equal(t, "문제를 입력해주세요", vErr.Error())

	err = Struct(essayForm{Question: "q", Answer: "\n", Score: 100})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "답안을 작성해주세요", vErr.Message)

	err = Struct(essayForm{Question: "q", Answer: "a"})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "max_score 항목을 확인해주세요", vErr.Message)
}
