// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ik5/audrev/studio"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the microphone until Enter or Ctrl-C",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := newStudio(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeStudio(s)

		return record(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// record runs one take, ending it on the first line of in or when ctx is done.
func record(ctx context.Context, s *studio.Studio, in io.Reader, out io.Writer) error {
	if err := s.StartRecording(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "recording, press Enter to stop")

	line := make(chan struct{})
	go func() {
		bufio.NewReader(in).ReadString('\n')
		close(line)
	}()

	select {
	case <-line:
	case <-ctx.Done():
	}
	return s.StopRecording()
}
