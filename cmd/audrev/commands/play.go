// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ik5/audrev/studio"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the take",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, false)
	},
}

var reverseCmd = &cobra.Command{
	Use:     "reverse",
	Aliases: []string{"play-reversed"},
	Short:   "Play the take backwards",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, true)
	},
}

func runPlay(cmd *cobra.Command, reverse bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s, err := newStudio(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeStudio(s)

	return play(ctx, s, reverse)
}

// play renders the take and waits for it to finish.
func play(ctx context.Context, s *studio.Studio, reverse bool) error {
	task, err := s.Play(ctx, reverse)
	if err != nil {
		return err
	}
	return task.Wait()
}
