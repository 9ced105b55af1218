package device

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/muurk/krakenctl/internal/protocol"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NewNotFoundError(0x1e71, 0x2007), IsNotFound},
		{"access denied", NewAccessDeniedError("/dev/hidraw3", errors.New("permission denied")), IsAccessDenied},
		{"handshake", NewHandshakeTimeoutError(12, true, false, nil), IsHandshakeTimeout},
		{"transport", NewTransportError("write", errors.New("io")), IsTransportError},
		{"timeout", NewTimeoutError("status", nil), IsTimeout},
		{"validation", NewValidationError(protocol.ErrInvalidSpeed), IsValidationError},
		{"closed", NewClosedError(), IsClosed},
		{"wrapped", fmt.Errorf("open: %w", NewNotFoundError(1, 2)), IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
			if len(GetTroubleshootingHint(tt.err)) == 0 {
				t.Error("expected troubleshooting hints")
			}
			if GetShortErrorMessage(tt.err) == "" {
				t.Error("expected a short message")
			}
		})
	}
}

func TestHandshakeTimeoutMessageNamesMissingReplies(t *testing.T) {
	err := NewHandshakeTimeoutError(12, false, true, nil)
	msg := err.Error()
	if !strings.Contains(msg, "firmware info") {
		t.Errorf("message %q does not mention firmware info", msg)
	}
	if strings.Contains(msg, "lighting info") {
		t.Errorf("message %q mentions a reply that arrived", msg)
	}
}

func TestRetryable(t *testing.T) {
	if !IsRetryable(NewTransportError("read", errors.New("busy"))) {
		t.Error("plain transport error should be retryable")
	}
	if IsRetryable(NewTransportError("read", ErrHandleInvalid)) {
		t.Error("invalid handle should not be retryable")
	}
	if IsRetryable(errors.New("other")) {
		t.Error("non-device errors are never retryable")
	}
}

func TestValidationErrorUnwrapsEncodeError(t *testing.T) {
	_, encErr := protocol.BuildLighting(protocol.ChannelRing, protocol.EffectFixed, nil, protocol.SpeedNormal)
	err := NewValidationError(encErr)

	var ee *protocol.EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if ee.Kind != protocol.TooFewColors {
		t.Errorf("Kind = %v, want TooFewColors", ee.Kind)
	}
	if got := GetShortErrorMessage(err); got != encErr.Error() {
		t.Errorf("short message = %q, want %q", got, encErr.Error())
	}
}
