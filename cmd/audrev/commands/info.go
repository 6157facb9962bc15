// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ik5/audrev/studio"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the take",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStudio(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeStudio(s)

		return printInfo(s, appConfig.Storage.WAVPath(), cmd.OutOrStdout())
	},
}

func printInfo(s *studio.Studio, path string, w io.Writer) error {
	info, err := s.Info()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "file:     %s\n", path)
	fmt.Fprintf(w, "format:   %s\n", info.Format)
	fmt.Fprintf(w, "bytes:    %d\n", info.DataBytes)
	fmt.Fprintf(w, "duration: %s\n", info.Duration)
	return nil
}
