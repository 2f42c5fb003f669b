package libtrace

import "errors"

// Sentinel errors that abort a run. Every other error condition the walker
// or analyzer encounters is absorbed: malformed/truncated members are
// narrated through the injected Logger, while skipped members, a halted
// decode and an out-of-range name are handled without a log line.
var (
	// ErrTooSmall is returned when the input is shorter than the archive
	// magic and therefore cannot possibly be a valid archive.
	ErrTooSmall = errors.New("libtrace: input too small to be an archive")

	// ErrUnrecognizedContainer is returned when the input's first 8 bytes
	// do not match the Microsoft-compatible archive magic.
	ErrUnrecognizedContainer = errors.New("libtrace: unrecognized archive container")

	// ErrSchedulerClosed is returned by Scheduler.Submit once the
	// scheduler has entered its draining or terminated state.
	ErrSchedulerClosed = errors.New("libtrace: scheduler is closed")
)
