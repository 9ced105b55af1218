package device

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/protocol"
)

// drainReadTimeout bounds each read while discarding buffered reports.
const drainReadTimeout = 5 * time.Millisecond

// drainLimit caps the number of reports discarded in one drain.
const drainLimit = 64

// HandshakeState tracks acknowledgments seen while a session initializes.
type HandshakeState struct {
	FirmwareAck bool
	LightingAck bool
	Firmware    protocol.FirmwareVersion
	Reads       int
}

// Observe records one report and reports whether the handshake is complete.
// Unrelated reports are ignored.
func (h *HandshakeState) Observe(f protocol.Frame) bool {
	switch {
	case protocol.IsFirmwareInfo(f):
		if v, err := protocol.ParseFirmwareVersion(f); err == nil {
			h.Firmware = v
		}
		h.FirmwareAck = true
	case protocol.IsLightingInfo(f):
		h.LightingAck = true
	}
	return h.Done()
}

// Done reports whether both acknowledgments arrived.
func (h *HandshakeState) Done() bool {
	return h.FirmwareAck && h.LightingAck
}

// Handshake sends the initialization commands and waits for the firmware and
// lighting replies. Reading stops after opts.HandshakeAttempts reads or when
// ctx or opts.HandshakeTimeout expires, whichever comes first. Once both
// replies are in, any further buffered reports are discarded.
func Handshake(ctx context.Context, t Transport, opts Options) (*HandshakeState, error) {
	opts = opts.withDefaults()
	if opts.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.HandshakeTimeout)
		defer cancel()
	}

	for _, f := range protocol.HandshakeFrames() {
		if err := t.Write(f.Bytes()); err != nil {
			return nil, NewTransportError("handshake write", err)
		}
	}

	state := &HandshakeState{}
	for state.Reads < opts.HandshakeAttempts {
		timeout, err := readTimeout(ctx, opts.ReadTimeout)
		if err != nil {
			return state, NewHandshakeTimeoutError(state.Reads, state.FirmwareAck, state.LightingAck, err)
		}

		b, err := t.Read(timeout)
		state.Reads++
		if errors.Is(err, ErrReadTimeout) {
			continue
		}
		if err != nil {
			return state, NewTransportError("handshake read", err)
		}

		f, err := protocol.FrameFromBytes(b)
		if err != nil {
			logging.Warn("Skipping malformed report", zap.Error(err))
			continue
		}
		if state.Observe(f) {
			logging.LogHandshake(state.Firmware.String(), state.Reads, state.FirmwareAck, state.LightingAck)
			drained := drain(t)
			if drained > 0 {
				logging.Debug("Drained buffered reports", zap.Int("count", drained))
			}
			return state, nil
		}
	}

	logging.LogHandshake(state.Firmware.String(), state.Reads, state.FirmwareAck, state.LightingAck)
	return state, NewHandshakeTimeoutError(state.Reads, state.FirmwareAck, state.LightingAck, nil)
}

// drain discards already buffered reports and returns how many were dropped.
func drain(t Transport) int {
	n := 0
	for n < drainLimit {
		if _, err := t.Read(drainReadTimeout); err != nil {
			break
		}
		n++
	}
	return n
}

// readTimeout returns the per-read timeout capped by the ctx deadline.
func readTimeout(ctx context.Context, perRead time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < perRead {
			return left, nil
		}
	}
	return perRead, nil
}
