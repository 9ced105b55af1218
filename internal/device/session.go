package device

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/protocol"
)

const (
	// DefaultReadTimeout bounds a single report read
	DefaultReadTimeout = 500 * time.Millisecond

	// DefaultHandshakeAttempts is the maximum number of reads while waiting
	// for the handshake replies
	DefaultHandshakeAttempts = 12

	// DefaultHandshakeTimeout bounds the whole handshake
	DefaultHandshakeTimeout = 5 * time.Second

	// DefaultStatusAttempts is the maximum number of reads while waiting for
	// a status report
	DefaultStatusAttempts = 16
)

// Options controls session timing.
type Options struct {
	ReadTimeout       time.Duration
	HandshakeAttempts int
	HandshakeTimeout  time.Duration
	StatusAttempts    int
}

// DefaultOptions returns the standard timing.
func DefaultOptions() Options {
	return Options{
		ReadTimeout:       DefaultReadTimeout,
		HandshakeAttempts: DefaultHandshakeAttempts,
		HandshakeTimeout:  DefaultHandshakeTimeout,
		StatusAttempts:    DefaultStatusAttempts,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = d.ReadTimeout
	}
	if o.HandshakeAttempts <= 0 {
		o.HandshakeAttempts = d.HandshakeAttempts
	}
	if o.HandshakeTimeout < 0 {
		o.HandshakeTimeout = d.HandshakeTimeout
	}
	if o.StatusAttempts <= 0 {
		o.StatusAttempts = d.StatusAttempts
	}
	return o
}

// Session is an initialized connection to one cooler.
//
// Every operation holds the session lock for its full report sequence, so
// multi-report lighting commands are never interleaved with other writes or
// status reads. A Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	transport Transport
	opts      Options
	firmware  protocol.FirmwareVersion
	closed    bool
}

// Open opens the first attached Kraken X3 and performs the handshake.
func Open(ctx context.Context, opts Options) (*Session, error) {
	return OpenWith(ctx, OpenHID, opts)
}

// OpenWith opens a transport with open and performs the handshake.
func OpenWith(ctx context.Context, open OpenFunc, opts Options) (*Session, error) {
	t, err := open(protocol.VendorID, protocol.ProductID)
	if err != nil {
		return nil, err
	}
	return NewSession(ctx, t, opts)
}

// NewSession performs the handshake on an already open transport. The
// transport is closed if the handshake fails.
func NewSession(ctx context.Context, t Transport, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	state, err := Handshake(ctx, t, opts)
	if err != nil {
		_ = t.Close()
		return nil, err
	}
	return &Session{
		transport: t,
		opts:      opts,
		firmware:  state.Firmware,
	}, nil
}

// FirmwareVersion returns the version reported during the handshake.
func (s *Session) FirmwareVersion() protocol.FirmwareVersion {
	return s.firmware
}

// SetColor applies a lighting effect to a channel. The request is validated
// and encoded before anything is written.
func (s *Session) SetColor(ctx context.Context, ch protocol.Channel, effect protocol.Effect, colors []protocol.Color, speed protocol.SpeedLevel) error {
	frames, err := protocol.BuildLighting(ch, effect, colors, speed)
	if err != nil {
		return NewValidationError(err)
	}
	logging.Debug("Setting lighting",
		zap.Stringer("channel", ch),
		zap.Stringer("effect", effect),
		zap.Int("colors", len(colors)),
		zap.Stringer("speed", speed),
		zap.Int("reports", len(frames)),
	)
	return s.WriteFrames(ctx, frames)
}

// SetPumpDuty holds the pump at a fixed duty.
func (s *Session) SetPumpDuty(ctx context.Context, duty int) error {
	f, err := protocol.BuildFixedPumpDuty(duty)
	if err != nil {
		return NewValidationError(err)
	}
	return s.WriteFrames(ctx, []protocol.Frame{f})
}

// SetPumpProfile uploads a temperature to duty curve.
func (s *Session) SetPumpProfile(ctx context.Context, points []protocol.CurvePoint) error {
	f, err := protocol.BuildPumpProfile(points)
	if err != nil {
		return NewValidationError(err)
	}
	return s.WriteFrames(ctx, []protocol.Frame{f})
}

// WriteFrames sends frames in order while holding the session lock.
// If ctx ends midway the remaining frames are not sent.
func (s *Session) WriteFrames(ctx context.Context, frames []protocol.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewClosedError()
	}

	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return NewTimeoutError("write cancelled", err)
		}
		if err := s.transport.Write(f.Bytes()); err != nil {
			s.checkHandle(err)
			logging.Error("Report write failed", zap.Int("index", i), zap.Error(err))
			return NewTransportError("write", err)
		}
	}
	return nil
}

// Status returns the next telemetry report. Reports buffered before the call
// are discarded first, so the result is fresh. Non-status reports are skipped.
func (s *Session) Status(ctx context.Context) (protocol.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return protocol.Status{}, NewClosedError()
	}

	drain(s.transport)

	for attempt := 0; attempt < s.opts.StatusAttempts; attempt++ {
		timeout, err := readTimeout(ctx, s.opts.ReadTimeout)
		if err != nil {
			return protocol.Status{}, NewTimeoutError("waiting for status report", err)
		}

		b, err := s.transport.Read(timeout)
		if errors.Is(err, ErrReadTimeout) {
			continue
		}
		if err != nil {
			s.checkHandle(err)
			return protocol.Status{}, NewTransportError("read", err)
		}

		f, err := protocol.FrameFromBytes(b)
		if err != nil || !protocol.IsStatusFrame(f) {
			tag0, tag1 := f.Tag()
			logging.Debug("Skipping non-status report", zap.Uint8("tag0", tag0), zap.Uint8("tag1", tag1))
			continue
		}
		return protocol.DecodeStatus(f), nil
	}
	return protocol.Status{}, NewTimeoutError("no status report received", nil)
}

// Close releases the device. Calling Close more than once is safe.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	logging.Info("Session closed")
	return s.transport.Close()
}

// checkHandle marks the session closed when the transport reports that the
// handle is no longer usable. Caller holds s.mu.
func (s *Session) checkHandle(err error) {
	if errors.Is(err, ErrHandleInvalid) && !s.closed {
		s.closed = true
		_ = s.transport.Close()
		logging.Warn("Device handle invalid; session closed", zap.Error(err))
	}
}
