package exchange

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error taxonomy. Every venue backend maps its SDK or HTTP failures onto one
// of these sentinels so callers can branch with errors.Is.
var (
	// ErrUnavailable: the venue session was never initialized. Fatal for
	// the call, not the process.
	ErrUnavailable = errors.New("venue unavailable")

	// ErrSymbolUnknown: the venue does not recognize the pair.
	ErrSymbolUnknown = errors.New("symbol unknown")

	// ErrTransient: timeout, venue 5xx, rate limit. Safe to retry with
	// backoff.
	ErrTransient = errors.New("venue transient failure")

	// ErrPermanent: malformed request, insufficient balance. Retrying the
	// same call cannot succeed.
	ErrPermanent = errors.New("venue rejected request")
)

func Transient(err error) error {
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

func IsTransient(err error) bool {
	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent) || errors.Is(err, ErrSymbolUnknown)
}
