// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	ErrOddLength = errors.New("pcm buffer length must be even")
)
