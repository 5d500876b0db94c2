package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := Newf(CodeNotFound, "task %d not found", 7)
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrNoActiveUser))
	assert.Equal(t, "task 7 not found", err.Error())
}

func TestCodeOfThroughWrapping(t *testing.T) {
	base := Wrap(CodePersistence, "complete task", stderrors.New("disk I/O error"))
	wrapped := fmt.Errorf("command: %w", base)

	assert.Equal(t, CodePersistence, CodeOf(wrapped))
	assert.True(t, HasCode(wrapped, CodePersistence))
	assert.Equal(t, "complete task: disk I/O error", base.Error())
	assert.Equal(t, "disk I/O error", stderrors.Unwrap(base).Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(stderrors.New("boom")))
	assert.False(t, HasCode(nil, CodeUnknown))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 2, CodeInvalidArgument.ExitCode())
	assert.Equal(t, 3, CodeNotFound.ExitCode())
	assert.Equal(t, 4, CodeNoActiveUser.ExitCode())
	assert.Equal(t, 5, CodeAlreadyExists.ExitCode())
	assert.Equal(t, 6, CodePersistence.ExitCode())
	assert.Equal(t, 1, CodeUnknown.ExitCode())
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeNotFound, "palace not found", map[string]string{"palace_id": "3"})
	assert.Equal(t, "3", err.Metadata["palace_id"])
}
