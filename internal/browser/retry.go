package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
)

// MaxAttempts is the hard cap on retry attempts for a single test step
const MaxAttempts = 3

// transientMarkers is the allowlist of error substrings that justify a
// retry with a fresh browser. Anything not on this list - assertion
// failures in particular - propagates immediately.
var transientMarkers = []string{
	"timeout",
	"deadline exceeded",
	"session not created",
	"connection refused",
	"connection reset",
	"websocket: bad handshake",
	"target crashed",
	"cannot connect to chrome",
	"browser process exited",
	"net::err_connection",
	"net::err_timed_out",
}

// killProcesses is the process-kill step run between transient failures.
// Tests swap it out so exercising the retry loop never touches real
// browser processes on the host.
var killProcesses = KillBrowserProcesses

// permanentError marks an error that must never be retried
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps an error so Do will never retry it. Test code uses
// this for assertion-class failures detected inside a retried step.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// IsTransient reports whether err matches the retry allowlist
func IsTransient(err error) bool {
	if err == nil || IsPermanent(err) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Do runs step up to attempts times. Between transient failures it kills
// any stuck browser processes and calls reset so the caller can rebuild
// its session. Permanent and non-transient errors return immediately.
func Do(logger arbor.ILogger, attempts int, step func(attempt int) error, reset func() error) error {
	if attempts <= 0 || attempts > MaxAttempts {
		attempts = MaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := step(attempt)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}

		lastErr = err
		if attempt == attempts {
			break
		}

		logger.Warn().
			Int("attempt", attempt).
			Err(err).
			Msg("Transient browser failure, killing browser processes and retrying")

		killProcesses(logger)

		if reset != nil {
			if rerr := reset(); rerr != nil {
				return fmt.Errorf("failed to reset session after transient failure: %w (original: %v)", rerr, err)
			}
		}
	}

	return fmt.Errorf("step failed after %d attempts: %w", attempts, lastErr)
}
