package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidArgumentf(t *testing.T) {
	err := NewInvalidArgumentf("null entry in names array: %v", []string{"a", ""})
	require.NotNil(t, err)
	assert.Equal(t, "null entry in names array: [a ]", err.Error())
	assert.True(t, IsInvalidArgument(err))
	assert.False(t, IsIO(err))
}

func TestInvalidArgumentSurvivesWrap(t *testing.T) {
	err := Wrap(NewInvalidArgumentf("names == nil"), "add static import")
	assert.True(t, IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "add static import")
}

func TestWrapIO(t *testing.T) {
	original := fs.ErrPermission
	wrapped := WrapIO(original, "create output file")

	assert.True(t, IsIO(wrapped))
	assert.True(t, Is(wrapped, fs.ErrPermission))
	assert.Contains(t, wrapped.Error(), "create output file")
	assert.False(t, IsInvalidArgument(wrapped))
}

func TestWrapIOf(t *testing.T) {
	wrapped := WrapIOf(New("disk full"), "write %s", "Foo.java")
	assert.True(t, IsIO(wrapped))
	assert.Equal(t, "write Foo.java: disk full", wrapped.Error())
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, WrapIO(nil, "context"))
	assert.Nil(t, WrapIOf(nil, "context %d", 1))
	assert.Nil(t, Wrap(nil, "context"))
	assert.False(t, IsIO(nil))
	assert.False(t, IsInvalidArgument(nil))
}

func TestAssertionFailedf(t *testing.T) {
	err := AssertionFailedf("render into memory failed: %v", New("boom"))
	assert.True(t, IsAssertionFailure(err))
}

func TestStackTrace(t *testing.T) {
	err := NewInvalidArgumentf("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestWithHint(t *testing.T) {
	err := WithHint(NewInvalidArgumentf("bad indent"), "use spaces or tabs")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "use spaces or tabs", hints[0])
	assert.True(t, IsInvalidArgument(err))
}

func ExampleWrapIO() {
	err := WrapIO(New("connection reset"), "write source")
	fmt.Println(err)
	// Output: write source: connection reset
}
