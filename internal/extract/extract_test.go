package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTXT(t *testing.T) {
	text, err := Extract([]byte("Jane Doe\nSoftware Engineer"), "txt")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSoftware Engineer", text)
}

func TestExtractExtensionVariants(t *testing.T) {
	text, err := Extract([]byte("hello"), ".TXT")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtractTXTDropsInvalidUTF8(t *testing.T) {
	text, err := Extract([]byte{'o', 'k', 0xff, 0xfe, '!'}, "txt")
	require.NoError(t, err)
	assert.Equal(t, "ok!", text)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := Extract([]byte("data"), "odt")
	require.Error(t, err)

	var unsupported *UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "odt", unsupported.Extension)
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract([]byte("not a pdf at all"), "pdf")
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestExtractCorruptDOCX(t *testing.T) {
	_, err := Extract([]byte("not a zip archive"), "docx")
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestContainPanicConvertsToParseError(t *testing.T) {
	run := func() (text string, err error) {
		defer containPanic("reader panicked", &err)
		panic("runtime error: index out of range [3] with length 2")
	}

	text, err := run()
	require.Error(t, err)
	assert.Empty(t, text)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Message, "reader panicked")
	assert.Contains(t, parseErr.Message, "index out of range")
}

func TestContainPanicLeavesErrorOnCleanReturn(t *testing.T) {
	run := func() (text string, err error) {
		defer containPanic("reader panicked", &err)
		return "fine", nil
	}

	text, err := run()
	require.NoError(t, err)
	assert.Equal(t, "fine", text)
}
