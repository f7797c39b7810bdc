package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertErrorIs checks that err matches target with errors.Is.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	assert.Truef(t, errors.Is(err, target), "expected %v to match %v", err, target)
}

// AssertDecimalEqual compares decimals by value, ignoring scale.
func AssertDecimalEqual(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "expected %s, got %s", want, got)
}
