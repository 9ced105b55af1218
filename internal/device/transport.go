package device

import (
	"errors"
	"time"
)

// Transport performs fixed-length report I/O on an open device handle.
// Implementations need not be safe for concurrent use; Session serializes access.
type Transport interface {
	// Write sends one report.
	Write(report []byte) error
	// Read blocks for at most timeout and returns one report. It returns an
	// error wrapping ErrReadTimeout when nothing arrived in time.
	Read(timeout time.Duration) ([]byte, error)
	// Close releases the handle.
	Close() error
}

// OpenFunc opens a transport to the first device matching vendor and product.
type OpenFunc func(vendorID, productID uint16) (Transport, error)

var (
	// ErrReadTimeout is returned by Transport.Read when no report arrived.
	ErrReadTimeout = errors.New("read timeout")
	// ErrHandleInvalid marks errors after which the handle cannot be reused.
	ErrHandleInvalid = errors.New("device handle invalid")
)
