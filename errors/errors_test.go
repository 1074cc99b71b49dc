package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	original := &customError{msg: "custom"}
	wrapped := Wrap(original, "wrapped")

	var target *customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "custom", target.msg)
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestTemplateErrors(t *testing.T) {
	err := NewTemplateError("unknown field %q", "wrapper_class")
	assert.True(t, IsTemplateError(err))
	assert.Equal(t, `unknown field "wrapper_class"`, err.Error())

	wrapped := WrapTemplate(New("template: header:3: bad"), "rendering header")
	assert.True(t, IsTemplateError(wrapped))
	assert.Contains(t, wrapped.Error(), "rendering header")

	assert.False(t, IsTemplateError(nil))
	assert.False(t, IsTemplateError(New("other")))
}

func TestUnsupportedTypeErrors(t *testing.T) {
	err := Wrap(NewUnsupportedTypeError("type %s has no mapping", "any"), "attribute value")
	assert.True(t, IsUnsupportedTypeError(err))
	assert.False(t, Is(err, ErrTemplate))
}

func TestInvalidConfigError(t *testing.T) {
	err := NewInvalidConfigError("jobs must be >= 0, got %d", -1)
	assert.True(t, Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "-1")
}
