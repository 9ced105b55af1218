package device

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sstallion/go-hid"
	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/protocol"
)

var hidInit sync.Once
var hidInitErr error

func initHID() error {
	hidInit.Do(func() {
		hidInitErr = hid.Init()
	})
	return hidInitErr
}

// Info describes one attached HID device.
type Info struct {
	Path         string `json:"path"`
	VendorID     uint16 `json:"vendor_id"`
	ProductID    uint16 `json:"product_id"`
	Serial       string `json:"serial,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Product      string `json:"product,omitempty"`
	Interface    int    `json:"interface"`
}

// String returns a one-line description.
func (i Info) String() string {
	name := i.Product
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("%04x:%04x %s (%s)", i.VendorID, i.ProductID, name, i.Path)
}

// List enumerates attached devices matching vendor and product.
func List(vendorID, productID uint16) ([]Info, error) {
	if err := initHID(); err != nil {
		return nil, NewTransportError("hid init", err)
	}

	var infos []Info
	err := hid.Enumerate(vendorID, productID, func(d *hid.DeviceInfo) error {
		infos = append(infos, Info{
			Path:         d.Path,
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Serial:       d.SerialNbr,
			Manufacturer: d.MfrStr,
			Product:      d.ProductStr,
			Interface:    d.InterfaceNbr,
		})
		return nil
	})
	if err != nil {
		return nil, NewTransportError("enumerate", err)
	}
	return infos, nil
}

// HIDTransport is a Transport over a hidapi device handle.
type HIDTransport struct {
	dev    *hid.Device
	path   string
	mu     sync.Mutex
	closed bool
}

// OpenHID opens the first attached device matching vendor and product.
func OpenHID(vendorID, productID uint16) (Transport, error) {
	infos, err := List(vendorID, productID)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, NewNotFoundError(vendorID, productID)
	}

	path := infos[0].Path
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, NewAccessDeniedError(path, err)
	}

	logging.Info("Opened HID device",
		zap.String("path", path),
		zap.String("product", infos[0].Product),
	)
	return &HIDTransport{dev: dev, path: path}, nil
}

// OpenDefault opens the Kraken X3.
func OpenDefault() (Transport, error) {
	return OpenHID(protocol.VendorID, protocol.ProductID)
}

// Path returns the platform device path.
func (t *HIDTransport) Path() string {
	return t.path
}

// Write sends one report.
func (t *HIDTransport) Write(report []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrHandleInvalid
	}

	n, err := t.dev.Write(report)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandleInvalid, err)
	}
	if n != len(report) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(report))
	}
	logging.LogFrame("write", report)
	return nil
}

// Read waits up to timeout for one report.
func (t *HIDTransport) Read(timeout time.Duration) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrHandleInvalid
	}

	buf := make([]byte, protocol.FrameSize)
	n, err := t.dev.ReadWithTimeout(buf, timeout)
	if err != nil {
		if errors.Is(err, hid.ErrTimeout) {
			return nil, ErrReadTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrHandleInvalid, err)
	}
	logging.LogFrame("read", buf[:n])
	return buf[:n], nil
}

// Close releases the handle. Calling Close twice is a no-op.
func (t *HIDTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.dev.Close()
}
