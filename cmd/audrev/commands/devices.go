// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ik5/audrev/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List PortAudio devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := portAudio(appConfig).Devices()
		if err != nil {
			return err
		}
		return printDevices(cmd.OutOrStdout(), infos)
	},
}

func printDevices(w io.Writer, infos []device.Info) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tHOST API\tIN\tOUT\tRATE")
	for _, d := range infos {
		mark := ""
		switch {
		case d.DefaultInput && d.DefaultOutput:
			mark = "*"
		case d.DefaultInput:
			mark = "<"
		case d.DefaultOutput:
			mark = ">"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.0f\n",
			mark, d.Name, d.HostAPI, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
	return tw.Flush()
}
