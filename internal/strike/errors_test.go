package strike

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Wrapping(t *testing.T) {
	err := fmt.Errorf("add entry: %w", NewWriteFailure("insert", "database is locked", io.ErrUnexpectedEOF))

	assert.True(t, IsWriteFailure(err))
	assert.False(t, IsStorageUnavailable(err))
	assert.True(t, errors.Is(err, ErrWriteFailure))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "insert: database is locked")
}

func TestError_Codes(t *testing.T) {
	assert.True(t, IsStorageUnavailable(NewStorageUnavailable("open", "cannot create directory", nil)))
	assert.True(t, errors.Is(NewStorageUnavailable("open", "x", nil), ErrStorageUnavailable))
	assert.True(t, IsInvalidInput(NewInvalidInput("bad")))
	assert.False(t, IsInvalidInput(errors.New("bad")))
	assert.Equal(t, "bad", NewInvalidInput("bad").Error())
}

func TestValidateCount(t *testing.T) {
	assert.NoError(t, ValidateCount(1))
	assert.True(t, IsInvalidInput(ValidateCount(0)))
	assert.True(t, IsInvalidInput(ValidateCount(-5)))
}

func TestParseOrderMode(t *testing.T) {
	for _, s := range []string{"tag", "by-tag"} {
		m, err := ParseOrderMode(s)
		assert.NoError(t, err)
		assert.Equal(t, ByTag, m)
	}
	m, err := ParseOrderMode("date")
	assert.NoError(t, err)
	assert.Equal(t, ByDate, m)
	assert.Equal(t, "by-date", m.String())

	_, err = ParseOrderMode("size")
	assert.True(t, IsInvalidInput(err))
}
