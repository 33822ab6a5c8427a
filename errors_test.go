package patternpress_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/patternpress/patternpress"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("application error", func(t *testing.T) {
		t.Parallel()

		err := patternpress.Errorf(patternpress.ENOTFOUND, "no credential saved")
		assert.Equal(t, patternpress.ENOTFOUND, patternpress.ErrorCode(err))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("outer: %w", patternpress.Errorf(patternpress.EUNAUTHORIZED, "rejected"))
		assert.Equal(t, patternpress.EUNAUTHORIZED, patternpress.ErrorCode(err))
	})

	t.Run("non-application error is internal", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, patternpress.EINTERNAL, patternpress.ErrorCode(errors.New("boom")))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "", patternpress.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no credential saved", patternpress.ErrorMessage(patternpress.Errorf(patternpress.ENOTFOUND, "no credential saved")))
	assert.Equal(t, "Internal error.", patternpress.ErrorMessage(errors.New("boom")))
	assert.Equal(t, "", patternpress.ErrorMessage(nil))
}
