package device

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muurk/krakenctl/internal/protocol"
)

func TestHandshake_CompletesAfterBothReplies(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(firmwareReply(1, 10, 0), lightingReply())

	state, err := Handshake(context.Background(), ft, testOptions())
	if err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}
	if state.Reads != 2 {
		t.Errorf("Reads = %d, want 2", state.Reads)
	}
	if !state.Done() {
		t.Error("Done() = false, want true")
	}
	if got := state.Firmware.String(); got != "1.10.0" {
		t.Errorf("Firmware = %s, want 1.10.0", got)
	}

	want := protocol.HandshakeFrames()
	writes := ft.written()
	if len(writes) != len(want) {
		t.Fatalf("writes = %d, want %d", len(writes), len(want))
	}
	for i := range want {
		if !bytes.Equal(writes[i], want[i].Bytes()) {
			t.Errorf("write %d = % x, want % x", i, writes[i][:6], want[i].Bytes()[:6])
		}
	}
}

func TestHandshake_RepliesInAnyOrder(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(statusReport(30, 0, 1500, 50), lightingReply(), nil, firmwareReply(2, 0, 1))

	state, err := Handshake(context.Background(), ft, testOptions())
	if err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}
	if state.Reads != 4 {
		t.Errorf("Reads = %d, want 4", state.Reads)
	}
	if state.Firmware != (protocol.FirmwareVersion{Major: 2, Patch: 1}) {
		t.Errorf("Firmware = %v", state.Firmware)
	}
}

func TestHandshake_DrainsBufferedReports(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(firmwareReply(1, 0, 0), lightingReply(), statusReport(1, 0, 0, 0), statusReport(2, 0, 0, 0))

	if _, err := Handshake(context.Background(), ft, testOptions()); err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}
	if len(ft.reads) != 0 {
		t.Errorf("%d reports left unread after drain", len(ft.reads))
	}
}

func TestHandshake_TimesOutWithoutLightingReply(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(firmwareReply(1, 0, 0))

	state, err := Handshake(context.Background(), ft, testOptions())
	if !IsHandshakeTimeout(err) {
		t.Fatalf("error = %v, want handshake timeout", err)
	}
	if !IsTimeout(err) {
		t.Error("IsTimeout() = false for handshake timeout")
	}
	if state.Reads != DefaultHandshakeAttempts {
		t.Errorf("Reads = %d, want %d", state.Reads, DefaultHandshakeAttempts)
	}
	if !state.FirmwareAck || state.LightingAck {
		t.Errorf("acks = (%v, %v), want (true, false)", state.FirmwareAck, state.LightingAck)
	}
}

func TestHandshake_ContextDeadline(t *testing.T) {
	ft := &fakeTransport{}
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := Handshake(ctx, ft, testOptions())
	if !IsHandshakeTimeout(err) {
		t.Fatalf("error = %v, want handshake timeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error %v does not wrap context.DeadlineExceeded", err)
	}
}

func TestHandshake_ReadFailure(t *testing.T) {
	ft := &fakeTransport{}
	ft.queueErr(ErrHandleInvalid)

	_, err := Handshake(context.Background(), ft, testOptions())
	if !IsTransportError(err) {
		t.Fatalf("error = %v, want transport error", err)
	}
	if IsRetryable(err) {
		t.Error("invalid handle error should not be retryable")
	}
}

func TestHandshakeState_Observe(t *testing.T) {
	var h HandshakeState
	f, _ := protocol.FrameFromBytes(lightingReply())
	if h.Observe(f) {
		t.Error("Observe(lighting) = true before firmware reply")
	}
	f, _ = protocol.FrameFromBytes(firmwareReply(1, 2, 3))
	if !h.Observe(f) {
		t.Error("Observe(firmware) = false after both replies")
	}
}

func TestNewSession_ClosesTransportOnHandshakeFailure(t *testing.T) {
	ft := &fakeTransport{}

	s, err := NewSession(context.Background(), ft, testOptions())
	if err == nil {
		t.Fatal("NewSession() error = nil, want handshake timeout")
	}
	if s != nil {
		t.Error("NewSession() returned a session on failure")
	}
	if ft.closed != 1 {
		t.Errorf("transport closed %d times, want 1", ft.closed)
	}
}

func TestOpenWith_PropagatesOpenError(t *testing.T) {
	open := func(vid, pid uint16) (Transport, error) {
		return nil, NewNotFoundError(vid, pid)
	}

	_, err := OpenWith(context.Background(), open, testOptions())
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want not found", err)
	}
}
