package device

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for device session operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeDeviceNotFound indicates no matching HID device is attached
	ErrTypeDeviceNotFound ErrorType = iota
	// ErrTypeAccessDenied indicates the device exists but could not be opened
	ErrTypeAccessDenied
	// ErrTypeHandshakeTimeout indicates the device never acknowledged initialization
	ErrTypeHandshakeTimeout
	// ErrTypeTransport indicates a read or write failure on an open handle
	ErrTypeTransport
	// ErrTypeTimeout indicates a bounded wait expired
	ErrTypeTimeout
	// ErrTypeValidation indicates a request was rejected before any I/O
	ErrTypeValidation
	// ErrTypeClosed indicates the session was closed or its handle became invalid
	ErrTypeClosed
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeDeviceNotFound:
		return "Device Not Found"
	case ErrTypeAccessDenied:
		return "Access Denied"
	case ErrTypeHandshakeTimeout:
		return "Handshake Timeout"
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeClosed:
		return "Session Closed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while talking to the cooler
type DeviceError struct {
	Type      ErrorType // Category of error
	Message   string    // Human-readable error message
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether the caller may retry the same call
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a device-not-found error
func NewNotFoundError(vendorID, productID uint16) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeDeviceNotFound,
		Message: fmt.Sprintf("no HID device %04x:%04x attached", vendorID, productID),
	}
}

// NewAccessDeniedError creates an open/permission error
func NewAccessDeniedError(path string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeAccessDenied,
		Message: fmt.Sprintf("could not open %s", path),
		Err:     err,
	}
}

// NewHandshakeTimeoutError creates a handshake error describing which
// acknowledgments were missing.
func NewHandshakeTimeoutError(reads int, firmwareAck, lightingAck bool, err error) *DeviceError {
	var missing []string
	if !firmwareAck {
		missing = append(missing, "firmware info")
	}
	if !lightingAck {
		missing = append(missing, "lighting info")
	}
	return &DeviceError{
		Type:      ErrTypeHandshakeTimeout,
		Message:   fmt.Sprintf("no %s reply after %d reads", strings.Join(missing, " or "), reads),
		Err:       err,
		Retryable: true,
	}
}

// NewTransportError creates an I/O error for the given operation
func NewTransportError(op string, err error) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeTransport,
		Message:   op + " failed",
		Err:       err,
		Retryable: !errors.Is(err, ErrHandleInvalid),
	}
}

// NewTimeoutError creates a bounded-wait expiry error
func NewTimeoutError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeTimeout,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewValidationError wraps an encoding error; nothing was sent to the device
func NewValidationError(err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeValidation,
		Message: "request rejected",
		Err:     err,
	}
}

// NewClosedError reports use of a closed session
func NewClosedError() *DeviceError {
	return &DeviceError{
		Type:    ErrTypeClosed,
		Message: "session is closed; reopen the device",
	}
}

func isType(err error, t ErrorType) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == t
	}
	return false
}

// IsNotFound checks if an error is a device-not-found error
func IsNotFound(err error) bool { return isType(err, ErrTypeDeviceNotFound) }

// IsAccessDenied checks if an error is an open/permission error
func IsAccessDenied(err error) bool { return isType(err, ErrTypeAccessDenied) }

// IsHandshakeTimeout checks if an error is a handshake timeout
func IsHandshakeTimeout(err error) bool { return isType(err, ErrTypeHandshakeTimeout) }

// IsTransportError checks if an error is an I/O failure
func IsTransportError(err error) bool { return isType(err, ErrTypeTransport) }

// IsTimeout checks if an error is a bounded-wait expiry (handshake included)
func IsTimeout(err error) bool {
	return isType(err, ErrTypeTimeout) || isType(err, ErrTypeHandshakeTimeout)
}

// IsValidationError checks if an error is a rejected request
func IsValidationError(err error) bool { return isType(err, ErrTypeValidation) }

// IsClosed checks if an error reports a closed session
func IsClosed(err error) bool { return isType(err, ErrTypeClosed) }

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Retryable
	}
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) []string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return nil
	}

	switch devErr.Type {
	case ErrTypeDeviceNotFound:
		return []string{
			"Check that the cooler's internal USB cable is connected",
			"Run 'krakenctl list' to see attached devices",
			"Only the Kraken X53/X63/X73 (1e71:2007) is supported",
		}
	case ErrTypeAccessDenied:
		return []string{
			"Your user may lack permission for the hidraw node",
			"Add a udev rule: SUBSYSTEM==\"hidraw\", ATTRS{idVendor}==\"1e71\", MODE=\"0660\", GROUP=\"plugdev\"",
			"Close other tools (CAM, liquidctl) that may hold the device",
		}
	case ErrTypeHandshakeTimeout:
		return []string{
			"The device did not answer the initialization requests",
			"Unplug and reconnect the cooler's USB cable",
			"Increase device.handshake_timeout in the config file",
		}
	case ErrTypeTimeout:
		return []string{
			"The device did not send a report in time",
			"Try increasing --timeout",
		}
	case ErrTypeTransport, ErrTypeClosed:
		return []string{
			"The USB connection was interrupted",
			"Reconnect the device and run the command again",
		}
	case ErrTypeValidation:
		return []string{"Run 'krakenctl effects' to see each effect's color limits"}
	default:
		return nil
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeDeviceNotFound:
		return "Kraken cooler not found"
	case ErrTypeAccessDenied:
		return "Permission denied opening the cooler"
	case ErrTypeHandshakeTimeout:
		return "Cooler did not complete initialization"
	case ErrTypeTimeout:
		return "Cooler not responding (timeout)"
	case ErrTypeTransport:
		return "USB communication failed"
	case ErrTypeClosed:
		return "Session closed"
	case ErrTypeValidation:
		if devErr.Err != nil {
			return devErr.Err.Error()
		}
		return devErr.Message
	default:
		return devErr.Message
	}
}
