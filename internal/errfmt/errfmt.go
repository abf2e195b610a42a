package errfmt

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/deevus/compliance-tui/internal/compliance"
)

// Format turns err into a short message fit for display in the UI.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *compliance.StatusError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.As(err, &statusErr):
		text := http.StatusText(statusErr.StatusCode)
		if text == "" {
			return fmt.Sprintf("Server returned %d", statusErr.StatusCode)
		}
		return fmt.Sprintf("Server returned %d %s", statusErr.StatusCode, text)
	case errors.As(err, &netErr) && netErr.Timeout():
		return "Network timeout"
	case errors.As(err, &netErr):
		return "Network error: " + netErr.Error()
	}
	return err.Error()
}
