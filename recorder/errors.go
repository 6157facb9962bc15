// SPDX-License-Identifier: EPL-2.0

package recorder

import "errors"

var (
	// ErrOpenScratch wraps a failure to create or truncate the scratch file.
	ErrOpenScratch = errors.New("cannot open scratch file")

	// ErrTooManyFailures ends a session after too many failed reads or writes in a row.
	ErrTooManyFailures = errors.New("too many consecutive capture failures")

	// ErrNoDevice is returned when Start is called without a capture stream.
	ErrNoDevice = errors.New("no capture device")
)
