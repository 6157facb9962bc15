// SPDX-License-Identifier: EPL-2.0

// Command audrev records the microphone into a WAV take and plays it back
// forward or reversed.
//
// Usage:
//
//	audrev [flags] <command> [args]
//
// Commands:
//
//	record   - record until Enter or Ctrl-C
//	play     - play the take
//	reverse  - play the take backwards
//	import   - replace the take with a decoded wav/mp3/ogg/aiff file
//	info     - describe the take
//	devices  - list audio devices
//	session  - interactive prompt, optionally serving metrics
package main

import (
	"fmt"
	"os"

	"github.com/ik5/audrev/cmd/audrev/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
