package device

import (
	"sync"
	"time"

	"github.com/muurk/krakenctl/internal/protocol"
)

type fakeRead struct {
	data []byte
	err  error
}

// fakeTransport replays scripted reads and records writes. An empty read
// queue behaves like a device with nothing to say.
type fakeTransport struct {
	mu      sync.Mutex
	reads   []fakeRead
	writes  [][]byte
	closed  int
	readN   int
	onWrite func(report []byte) error
}

func (f *fakeTransport) queue(reports ...[]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range reports {
		if r == nil {
			f.reads = append(f.reads, fakeRead{err: ErrReadTimeout})
			continue
		}
		f.reads = append(f.reads, fakeRead{data: r})
	}
}

func (f *fakeTransport) queueErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, fakeRead{err: err})
}

func (f *fakeTransport) Write(report []byte) error {
	f.mu.Lock()
	hook := f.onWrite
	f.writes = append(f.writes, append([]byte(nil), report...))
	f.mu.Unlock()
	if hook != nil {
		return hook(report)
	}
	return nil
}

func (f *fakeTransport) Read(timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readN++
	if len(f.reads) == 0 {
		return nil, ErrReadTimeout
	}
	r := f.reads[0]
	f.reads = f.reads[1:]
	return r.data, r.err
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeTransport) written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.writes...)
}

func firmwareReply(major, minor, patch byte) []byte {
	b := make([]byte, protocol.FrameSize)
	b[0], b[1] = 0x11, 0x01
	b[0x11], b[0x12], b[0x13] = major, minor, patch
	return b
}

func lightingReply() []byte {
	b := make([]byte, protocol.FrameSize)
	b[0], b[1] = 0x21, 0x03
	return b
}

func statusReport(whole, tenths byte, rpm uint16, duty byte) []byte {
	b := make([]byte, protocol.FrameSize)
	b[0], b[1] = 0x75, 0x01
	b[15], b[16] = whole, tenths
	b[17], b[18] = byte(rpm), byte(rpm>>8)
	b[19] = duty
	return b
}

func testOptions() Options {
	return Options{
		ReadTimeout:       time.Millisecond,
		HandshakeAttempts: DefaultHandshakeAttempts,
		HandshakeTimeout:  time.Second,
		StatusAttempts:    4,
	}
}
