package casewatch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/casewatch"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := casewatch.Errorf(casewatch.ENOTFOUND, "case number %s not found", "080-CR-0001")

	assert.Equal(t, casewatch.ENOTFOUND, casewatch.ErrorCode(err))
	assert.Equal(t, "case number 080-CR-0001 not found", casewatch.ErrorMessage(err))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("opening session: %w", casewatch.Errorf(casewatch.EUNAVAILABLE, "no browser"))

	assert.Equal(t, casewatch.EUNAVAILABLE, casewatch.ErrorCode(err))
	assert.Equal(t, "no browser", casewatch.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, casewatch.EINTERNAL, casewatch.ErrorCode(err))
	assert.Equal(t, "Internal error.", casewatch.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, casewatch.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, casewatch.ErrorMessage(nil))
}
