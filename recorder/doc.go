// SPDX-License-Identifier: EPL-2.0

// Package recorder copies a capture stream into a raw PCM scratch file.
//
// A Session owns its stop signal; the loop checks it between reads, so Stop
// returns at most one device read later. Failed reads and writes are logged
// and skipped until MaxConsecutiveErrors of them happen in a row.
package recorder
