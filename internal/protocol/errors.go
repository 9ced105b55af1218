package protocol

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an encoding failure.
type ErrorKind int

const (
	// TooFewColors: fewer colors than the effect's minimum
	TooFewColors ErrorKind = iota
	// NoColorsNeeded: colors supplied to an effect that takes none
	NoColorsNeeded
	// TooManyColors: more colors than the effect's maximum
	TooManyColors
	// InvalidSpeed: speed class or level outside the timing table
	InvalidSpeed
	// UnknownEffect: effect value outside the enumeration
	UnknownEffect
	// InvalidChannel: channel value outside the enumeration
	InvalidChannel
	// InvalidPumpCurve: malformed pump duty curve
	InvalidPumpCurve
)

// Sentinel errors for errors.Is matching against *EncodeError.
var (
	ErrInvalidColorCount = errors.New("invalid color count")
	ErrInvalidSpeed      = errors.New("invalid speed index")
	ErrUnknownEffect     = errors.New("unknown effect")
	ErrInvalidChannel    = errors.New("invalid channel")
	ErrInvalidPumpCurve  = errors.New("invalid pump curve")
)

func (k ErrorKind) String() string {
	switch k {
	case TooFewColors:
		return "too few colors"
	case NoColorsNeeded:
		return "no colors needed"
	case TooManyColors:
		return "too many colors"
	case InvalidSpeed:
		return "invalid speed"
	case UnknownEffect:
		return "unknown effect"
	case InvalidChannel:
		return "invalid channel"
	case InvalidPumpCurve:
		return "invalid pump curve"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// EncodeError is returned when a request cannot be encoded. It is always
// raised before any report is produced.
type EncodeError struct {
	Kind       ErrorKind
	Effect     Effect
	Channel    Channel
	Got        int // colors supplied
	Min, Max   int // effect color bounds
	SpeedClass int
	Speed      SpeedLevel
	Detail     string
}

func (e *EncodeError) Error() string {
	switch e.Kind {
	case TooFewColors:
		return fmt.Sprintf("not enough colors for mode '%s': got %d, at least %d required", e.Effect, e.Got, e.Min)
	case NoColorsNeeded:
		return fmt.Sprintf("too many colors for mode '%s': got %d, none needed", e.Effect, e.Got)
	case TooManyColors:
		return fmt.Sprintf("too many colors for mode '%s': got %d, max colors: %d", e.Effect, e.Got, e.Max)
	case InvalidSpeed:
		return fmt.Sprintf("invalid speed index: class %d, level %d", e.SpeedClass, int(e.Speed))
	case UnknownEffect:
		return fmt.Sprintf("unknown effect: %d", int(e.Effect))
	case InvalidChannel:
		return fmt.Sprintf("invalid channel: %d", int(e.Channel))
	case InvalidPumpCurve:
		return "invalid pump curve: " + e.Detail
	default:
		return e.Kind.String()
	}
}

// Is lets errors.Is match an *EncodeError against the package sentinels.
func (e *EncodeError) Is(target error) bool {
	switch target {
	case ErrInvalidColorCount:
		return e.Kind == TooFewColors || e.Kind == NoColorsNeeded || e.Kind == TooManyColors
	case ErrInvalidSpeed:
		return e.Kind == InvalidSpeed
	case ErrUnknownEffect:
		return e.Kind == UnknownEffect
	case ErrInvalidChannel:
		return e.Kind == InvalidChannel
	case ErrInvalidPumpCurve:
		return e.Kind == InvalidPumpCurve
	}
	return false
}

// IsColorCountError reports whether err is a color-count validation failure
// and returns its kind.
func IsColorCountError(err error) (ErrorKind, bool) {
	var encErr *EncodeError
	if errors.As(err, &encErr) && errors.Is(encErr, ErrInvalidColorCount) {
		return encErr.Kind, true
	}
	return 0, false
}
