package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildError_IsBuildFailed(t *testing.T) {
	cause := errors.New("exit status 2")
	err := fmt.Errorf("build sqlite: %w", &BuildError{Phase: PhaseCompile, Err: cause, Output: "cc: error"})

	assert.ErrorIs(t, err, ErrBuildFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDownloadFailed)

	var buildErr *BuildError
	assert.True(t, errors.As(err, &buildErr))
	assert.Equal(t, PhaseCompile, buildErr.Phase)
	assert.Contains(t, err.Error(), "compile")
	assert.Contains(t, err.Error(), "cc: error")
}

func TestBuildError_NoOutput(t *testing.T) {
	err := &BuildError{Phase: PhaseConfigure, Err: errors.New("boom")}
	assert.NotContains(t, err.Error(), "\n")
}
