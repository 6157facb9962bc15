// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audrev/device"
	"github.com/ik5/audrev/internal/config"
	"github.com/ik5/audrev/studio"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
	logger    = slog.Default()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "audrev",
	Short: "Record audio and play it forward or reversed",
	Long: `audrev records the default microphone into a mono 16-bit 44.1 kHz WAV
take and plays it back, forward or reversed, on the default output device.

Takes live in the storage directory (default: the user cache dir under audrev).

Examples:
  # Record until Enter is pressed
  audrev record

  # Hear it backwards
  audrev reverse

  # Use an mp3 as the take
  audrev import song.mp3
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		appConfig = cfg
		logger, logCloser = initLogger(cfg.Logging, cmd.ErrOrStderr())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(reverseCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(sessionCmd)
}

// studioConfig maps the file configuration onto the studio.
func studioConfig(cfg *config.Config) studio.Config {
	return studio.Config{
		Format:                cfg.Audio.Format(),
		PCMPath:               cfg.Storage.PCMPath(),
		WAVPath:               cfg.Storage.WAVPath(),
		ChunkSize:             cfg.Audio.ChunkBytes(),
		MaxConsecutiveErrors:  cfg.Capture.MaxConsecutiveErrors,
		MaxConcurrentPlayback: cfg.Playback.MaxConcurrent,
	}
}

func portAudio(cfg *config.Config) *device.PortAudio {
	return &device.PortAudio{
		FramesPerBuffer: cfg.Audio.FramesPerBuffer,
		Logger:          logger,
	}
}

// newStudio builds a studio on the PortAudio default devices that prints its
// notices to w.
func newStudio(w io.Writer) (*studio.Studio, error) {
	pa := portAudio(appConfig)
	return studio.New(studioConfig(appConfig), studio.Options{
		Capture:  pa,
		Playback: pa,
		Notifier: printNotices(w),
		Logger:   logger,
	})
}

// printNotices writes failures with a "!" marker and everything else as-is.
func printNotices(w io.Writer) studio.Notifier {
	return studio.NotifierFunc(func(n studio.Notice) {
		if n.Kind.Failure() {
			fmt.Fprintf(w, "! %s\n", n)
			return
		}
		fmt.Fprintln(w, n.Message)
	})
}

// closeStudio reports a failed close instead of hiding it.
func closeStudio(s *studio.Studio) {
	if err := s.Close(); err != nil {
		logger.Warn("closing studio", slog.Any("error", err))
	}
}

// openLog opens a log file for appending.
func openLog(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
