package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/muurk/krakenctl/internal/device"
	"github.com/muurk/krakenctl/internal/protocol"
)

type fakeSource struct {
	mu       sync.Mutex
	readings []protocol.Status
	err      error
	calls    int
}

func (f *fakeSource) Status(ctx context.Context) (protocol.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return protocol.Status{}, f.err
	}
	if len(f.readings) == 0 {
		return protocol.Status{LiquidTempC: 30}, nil
	}
	st := f.readings[0]
	f.readings = f.readings[1:]
	return st, nil
}

func TestPoller_PollOnceUpdatesLatest(t *testing.T) {
	src := &fakeSource{readings: []protocol.Status{{LiquidTempC: 31.5, PumpRPM: 1800, PumpDutyPercent: 60}}}
	p := NewPoller(src, time.Second, "1.10.0")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	if _, ok := p.Latest(); ok {
		t.Fatal("Latest() should be empty before the first poll")
	}

	r, err := p.PollOnce(context.Background())
	if err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}
	want := Reading{LiquidTempC: 31.5, PumpRPM: 1800, PumpDutyPercent: 60, Firmware: "1.10.0", Timestamp: fixed}
	if r != want {
		t.Errorf("PollOnce() = %+v, want %+v", r, want)
	}
	if latest, ok := p.Latest(); !ok || latest != want {
		t.Errorf("Latest() = %+v, %v", latest, ok)
	}
	if r.Status() != (protocol.Status{LiquidTempC: 31.5, PumpRPM: 1800, PumpDutyPercent: 60}) {
		t.Errorf("Status() = %v", r.Status())
	}
}

func TestPoller_ErrorKeepsPreviousReading(t *testing.T) {
	src := &fakeSource{}
	p := NewPoller(src, time.Second, "")
	if _, err := p.PollOnce(context.Background()); err != nil {
		t.Fatal(err)
	}

	src.err = device.NewTimeoutError("no status report received", nil)
	if _, err := p.PollOnce(context.Background()); err == nil {
		t.Fatal("PollOnce() error = nil, want timeout")
	}
	if _, ok := p.Latest(); !ok {
		t.Error("failed poll dropped the previous reading")
	}
	if !device.IsTimeout(p.LastError()) {
		t.Errorf("LastError() = %v", p.LastError())
	}
}

func TestPoller_CriticalFlag(t *testing.T) {
	src := &fakeSource{readings: []protocol.Status{{LiquidTempC: 59.2, PumpDutyPercent: 100}}}
	p := NewPoller(src, time.Second, "")
	r, err := p.PollOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !r.Critical {
		t.Error("Critical = false at 59.2 °C")
	}
}

func TestPoller_SubscribersGetLatestOnly(t *testing.T) {
	src := &fakeSource{readings: []protocol.Status{{LiquidTempC: 30}, {LiquidTempC: 31}, {LiquidTempC: 32}}}
	p := NewPoller(src, time.Second, "")

	ch, unsubscribe := p.Subscribe()
	for i := 0; i < 3; i++ {
		if _, err := p.PollOnce(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case r := <-ch:
		if r.LiquidTempC != 32 {
			t.Errorf("slow subscriber got %.1f, want the latest 32.0", r.LiquidTempC)
		}
	default:
		t.Fatal("no reading delivered")
	}

	unsubscribe()
	unsubscribe()
	if p.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe", p.Subscribers())
	}
	if _, open := <-ch; open {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestPoller_RunStopsOnClosedSession(t *testing.T) {
	src := &fakeSource{err: device.NewClosedError()}
	p := NewPoller(src, 10*time.Millisecond, "")

	err := p.Run(context.Background())
	if !device.IsClosed(err) {
		t.Fatalf("Run() error = %v, want closed", err)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	src := &fakeSource{err: errors.New("transient")}
	p := NewPoller(src, 5*time.Millisecond, "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v, want nil on cancellation", err)
	}
	src.mu.Lock()
	calls := src.calls
	src.mu.Unlock()
	if calls < 2 {
		t.Errorf("polled %d times, want repeated polls despite transient errors", calls)
	}
}
