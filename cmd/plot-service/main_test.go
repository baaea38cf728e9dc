package main

import (
	"errors"
	"testing"
	"time"

	apperrors "plot-query-service/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRetryWithBackoff(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}, 5, time.Millisecond, log, "op")
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		cause := apperrors.NewDatabaseConnectionFailedError(errors.New("dial tcp"))
		err := retryWithBackoff(func() error {
			calls++
			return cause
		}, 3, time.Millisecond, log, "Catalog load")
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "after 3 attempts")
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			return apperrors.NewDuplicatePlotIDError("1")
		}, 5, time.Millisecond, log, "Catalog load")
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retry policy follows the error code", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			return &apperrors.StandardError{Code: apperrors.ErrCodeIndexNotFound, Message: "missing", Retryable: true}
		}, 5, time.Millisecond, log, "Catalog load")
		require.Error(t, err)
		assert.Equal(t, 1, calls)

		calls = 0
		err = retryWithBackoff(func() error {
			calls++
			return &apperrors.StandardError{Code: apperrors.ErrCodeSearchQueryFailed, Message: "timeout"}
		}, 3, time.Millisecond, log, "Catalog load")
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})
}
