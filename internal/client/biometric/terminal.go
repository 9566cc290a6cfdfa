package biometric

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TerminalSensor simulates a device sensor on a terminal: a challenge is a
// confirmation prompt, answered with Enter (or "y") and declined with "n".
type TerminalSensor struct {
	status Status
	in     LineReader
	out    io.Writer
}

// LineReader yields terminal input one line at a time. ReadLine returns
// early with an error when ctx is done.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// NewTerminalSensor returns a sensor of type kind. TypeNone yields a device
// without biometric hardware.
func NewTerminalSensor(kind Type, enrolled bool, in LineReader, out io.Writer) *TerminalSensor {
	st := Status{IsAvailable: kind != TypeNone, IsEnrolled: enrolled, BiometricType: kind}
	return &TerminalSensor{status: normalize(st), in: in, out: out}
}

func (s *TerminalSensor) Capabilities(context.Context) (Status, error) {
	return s.status, nil
}

func (s *TerminalSensor) Challenge(ctx context.Context, reason string) error {
	if !s.status.IsAvailable {
		return ErrSensorNotPresent
	}
	if !s.status.IsEnrolled {
		return ErrNotEnrolled
	}

	if _, err := fmt.Fprintf(s.out, "[%s] %s\nConfirm with Enter, type n to cancel\n> ", s.status.BiometricType, reason); err != nil {
		return fmt.Errorf("%w: %v", ErrPlatform, err)
	}

	line, err := s.in.ReadLine(ctx)
	if err != nil {
		return ErrCancelled
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return nil
	default:
		return ErrCancelled
	}
}
