package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"429", &StatusError{StatusCode: http.StatusTooManyRequests}, true},
		{"503", &StatusError{StatusCode: http.StatusServiceUnavailable}, true},
		{"400", &StatusError{StatusCode: http.StatusBadRequest}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableError(tc.err))
		})
	}
}

func TestRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Equal(t, time.Duration(0), RetryAfter(resp, time.Minute))

	resp.Header.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, RetryAfter(resp, time.Minute))

	resp.Header.Set("Retry-After", "120")
	assert.Equal(t, 10*time.Second, RetryAfter(resp, 10*time.Second))
}
