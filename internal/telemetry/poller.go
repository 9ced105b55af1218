package telemetry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/device"
	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/protocol"
)

// DefaultInterval is the status poll period.
const DefaultInterval = time.Second

// StatusSource yields status readings. *device.Session implements it.
type StatusSource interface {
	Status(ctx context.Context) (protocol.Status, error)
}

// Reading is one timestamped status sample as published to clients.
type Reading struct {
	LiquidTempC     float64   `json:"liquid_temp_c" cbor:"liquid_temp_c"`
	PumpRPM         uint16    `json:"pump_rpm" cbor:"pump_rpm"`
	PumpDutyPercent uint8     `json:"pump_duty_percent" cbor:"pump_duty_percent"`
	Critical        bool      `json:"critical" cbor:"critical"`
	Firmware        string    `json:"firmware,omitempty" cbor:"firmware,omitempty"`
	Timestamp       time.Time `json:"timestamp" cbor:"timestamp"`
}

// NewReading wraps a status report.
func NewReading(st protocol.Status, firmware string, at time.Time) Reading {
	return Reading{
		LiquidTempC:     st.LiquidTempC,
		PumpRPM:         st.PumpRPM,
		PumpDutyPercent: st.PumpDutyPercent,
		Critical:        st.Critical(),
		Firmware:        firmware,
		Timestamp:       at.UTC(),
	}
}

// Status returns the protocol status carried by the reading.
func (r Reading) Status() protocol.Status {
	return protocol.Status{
		LiquidTempC:     r.LiquidTempC,
		PumpRPM:         r.PumpRPM,
		PumpDutyPercent: r.PumpDutyPercent,
	}
}

// Poller reads status on an interval and fans readings out to subscribers.
// Slow subscribers only ever see the most recent reading.
type Poller struct {
	source   StatusSource
	interval time.Duration
	firmware string
	now      func() time.Time

	mu      sync.RWMutex
	latest  *Reading
	lastErr error

	subsMu sync.Mutex
	subs   map[chan Reading]struct{}
}

// NewPoller creates a poller for source. firmware is attached to every reading.
func NewPoller(source StatusSource, interval time.Duration, firmware string) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
		firmware: firmware,
		now:      time.Now,
		subs:     make(map[chan Reading]struct{}),
	}
}

// Interval returns the poll period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run polls until ctx is done. It returns nil on cancellation and the
// session error if the device goes away.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.PollOnce(ctx); err != nil {
			if device.IsClosed(err) {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// PollOnce reads one status report and publishes it to subscribers.
// The read is bounded by the poll interval.
func (p *Poller) PollOnce(ctx context.Context) (Reading, error) {
	readCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	st, err := p.source.Status(readCtx)
	if err != nil {
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		logging.Warn("Status poll failed", zap.Error(err))
		return Reading{}, err
	}

	r := NewReading(st, p.firmware, p.now())
	p.mu.Lock()
	p.latest = &r
	p.lastErr = nil
	p.mu.Unlock()

	p.broadcast(r)
	return r, nil
}

// Latest returns the most recent reading, if any.
func (p *Poller) Latest() (Reading, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return Reading{}, false
	}
	return *p.latest, true
}

// LastError returns the error from the most recent poll, or nil.
func (p *Poller) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Subscribe registers for readings. The returned function unsubscribes and
// closes the channel.
func (p *Poller) Subscribe() (<-chan Reading, func()) {
	ch := make(chan Reading, 1)
	p.subsMu.Lock()
	p.subs[ch] = struct{}{}
	p.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.subsMu.Lock()
			delete(p.subs, ch)
			p.subsMu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscribers.
func (p *Poller) Subscribers() int {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	return len(p.subs)
}

func (p *Poller) broadcast(r Reading) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- r:
		default:
			// replace the stale reading
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- r:
			default:
			}
		}
	}
}
