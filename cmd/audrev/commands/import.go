// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the take with a wav, mp3, ogg or aiff file",
	Long: `Decode the file, mix it down to mono, resample it to the take rate and
store it as the take. The previous take is kept if anything fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStudio(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeStudio(s)

		return s.Import(cmd.Context(), args[0])
	},
}
