package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rohmanhakim/docuprism/pkg/retry"
	"github.com/rohmanhakim/docuprism/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff() timeutil.BackoffParam {
	return timeutil.NewBackoffParam(time.Millisecond, 2.0, 10*time.Millisecond)
}

func params(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(0, 0, 42, maxAttempts, fastBackoff())
}

// endpointError mimics a summarization endpoint failure.
type endpointError struct {
	msg       string
	retryable bool
}

func (e *endpointError) Error() string {
	return e.msg
}

func (e *endpointError) Severity() failure.Severity {
	if e.retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *endpointError) IsRetryable() bool {
	return e.retryable
}

// opaqueError has no IsRetryable method.
type opaqueError struct{}

func (opaqueError) Error() string              { return "opaque" }
func (opaqueError) Severity() failure.Severity { return failure.SeverityRecoverable }

// script returns a function failing with errs in order, then succeeding with summary.
func script(summary string, errs ...failure.ClassifiedError) (func(context.Context) (string, failure.ClassifiedError), *int) {
	calls := 0
	return func(context.Context) (string, failure.ClassifiedError) {
		calls++
		if calls <= len(errs) {
			return "", errs[calls-1]
		}
		return summary, nil
	}, &calls
}

func TestRetry_Outcomes(t *testing.T) {
	unavailable := &endpointError{msg: "503 service unavailable", retryable: true}
	unauthorized := &endpointError{msg: "401 unauthorized", retryable: false}

	tests := []struct {
		name         string
		maxAttempts  int
		errs         []failure.ClassifiedError
		wantSuccess  bool
		wantAttempts int
		wantCalls    int
	}{
		{"first attempt succeeds", 3, nil, true, 1, 1},
		{"succeeds after transient failures", 3, []failure.ClassifiedError{unavailable, unavailable}, true, 3, 3},
		{"fatal error stops immediately", 3, []failure.ClassifiedError{unauthorized}, false, 1, 1},
		{"fatal after transient", 5, []failure.ClassifiedError{unavailable, unauthorized}, false, 2, 2},
		{"attempts exhausted", 2, []failure.ClassifiedError{unavailable, unavailable, unavailable}, false, 2, 2},
		{"opaque errors are retried", 2, []failure.ClassifiedError{opaqueError{}}, true, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, calls := script("- point", tt.errs...)

			result := retry.Retry(context.Background(), params(tt.maxAttempts), fn)

			assert.Equal(t, tt.wantSuccess, result.IsSuccess())
			assert.Equal(t, tt.wantAttempts, result.Attempts())
			assert.Equal(t, tt.wantCalls, *calls)
			if tt.wantSuccess {
				assert.Equal(t, "- point", result.Value())
				assert.Nil(t, result.Err())
			} else {
				assert.Empty(t, result.Value())
				assert.NotNil(t, result.Err())
			}
		})
	}
}

func TestRetry_FatalErrorReturnedAsIs(t *testing.T) {
	unauthorized := &endpointError{msg: "401 unauthorized"}
	fn, _ := script("", unauthorized)

	result := retry.Retry(context.Background(), params(3), fn)

	assert.Same(t, unauthorized, result.Err())
	assert.Equal(t, failure.SeverityFatal, result.Err().Severity())
}

func TestRetry_ExhaustedError(t *testing.T) {
	last := &endpointError{msg: "429 too many requests", retryable: true}
	fn, _ := script("", last, last, last)

	result := retry.Retry(context.Background(), params(3), fn)

	var retryErr *retry.RetryError
	require.ErrorAs(t, result.Err(), &retryErr)
	assert.Equal(t, retry.RetryErrorCause(retry.ErrExhaustedAttempts), retryErr.Cause)
	assert.True(t, retryErr.IsRetryable())
	assert.Contains(t, retryErr.Error(), "exhausted 3 attempts")
	assert.Contains(t, retryErr.Error(), "429 too many requests")

	var got *endpointError
	require.ErrorAs(t, result.Err(), &got, "last attempt error must stay reachable")
	assert.Same(t, last, got)
	assert.True(t, errors.Is(result.Err(), &retry.RetryError{}))
}

func TestRetry_MaxAttemptsLessThanOne(t *testing.T) {
	fn, calls := script("never")

	result := retry.Retry(context.Background(), params(0), fn)

	var retryErr *retry.RetryError
	require.ErrorAs(t, result.Err(), &retryErr)
	assert.Equal(t, retry.RetryErrorCause(retry.ErrZeroAttempt), retryErr.Cause)
	assert.Equal(t, 0, *calls)
	assert.Equal(t, 0, result.Attempts())
}

func TestRetry_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	fn := func(context.Context) (string, failure.ClassifiedError) {
		calls++
		cancel()
		return "", &endpointError{msg: "timeout", retryable: true}
	}
	slow := retry.NewRetryParam(0, 0, 42, 5, timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second))

	result := retry.Retry(ctx, slow, fn)

	require.True(t, result.IsFailure())
	assert.Equal(t, 1, calls)
	var retryErr *retry.RetryError
	require.ErrorAs(t, result.Err(), &retryErr)
	assert.Equal(t, retry.RetryErrorCause(retry.ErrCanceled), retryErr.Cause)
	assert.False(t, retryErr.IsRetryable())
	assert.Equal(t, failure.SeverityFatal, result.Err().Severity())
}

func TestRetry_PassesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "request-1")

	result := retry.Retry(ctx, params(1), func(ctx context.Context) (string, failure.ClassifiedError) {
		return ctx.Value(ctxKey{}).(string), nil
	})

	assert.Equal(t, "request-1", result.Value())
}

func TestRetry_GenericResultTypes(t *testing.T) {
	type summary struct{ text string }

	ptr := retry.Retry(context.Background(), params(1), func(context.Context) (*summary, failure.ClassifiedError) {
		return &summary{text: "tldr"}, nil
	})
	require.True(t, ptr.IsSuccess())
	assert.Equal(t, "tldr", ptr.Value().text)

	slice := retry.Retry(context.Background(), params(1), func(context.Context) ([]string, failure.ClassifiedError) {
		return []string{"a", "b"}, nil
	})
	assert.Equal(t, []string{"a", "b"}, slice.Value())
}

func TestNewRetryParam(t *testing.T) {
	backoff := fastBackoff()

	p := retry.NewRetryParam(100*time.Millisecond, 50*time.Millisecond, 42, 5, backoff)

	assert.Equal(t, 100*time.Millisecond, p.BaseDelay)
	assert.Equal(t, 50*time.Millisecond, p.Jitter)
	assert.Equal(t, int64(42), p.RandomSeed)
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, backoff, p.BackoffParam)
}

func BenchmarkRetry(b *testing.B) {
	fn := func(context.Context) (int, failure.ClassifiedError) {
		return 42, nil
	}
	p := params(3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = retry.Retry(context.Background(), p, fn)
	}
}
