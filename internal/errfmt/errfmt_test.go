package errfmt_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/deevus/compliance-tui/internal/compliance"
	"github.com/deevus/compliance-tui/internal/errfmt"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), "Request timed out"},
		{"cancelled", context.Canceled, "Request cancelled"},
		{"status", &compliance.StatusError{StatusCode: 503}, "Server returned 503 Service Unavailable"},
		{"unknown status", &compliance.StatusError{StatusCode: 599}, "Server returned 599"},
		{"net timeout", fmt.Errorf("dial: %w", timeoutErr{}), "Network timeout"},
		{"plain", errors.New("width unavailable"), "width unavailable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errfmt.Format(tc.err))
		})
	}
}
