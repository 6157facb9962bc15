// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audrev/internal/worker"
	"github.com/ik5/audrev/studio"
)

var metricsAddr string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive prompt driving one studio",
	Long: `Read commands from stdin, one per line:

  record           start recording
  stop             stop recording and write the take
  play             play the take
  reverse          play the take backwards
  import <file>    replace the take with a decoded file
  info             describe the take
  help             list commands
  quit             stop and exit

Playback runs in the background, so stop and info stay responsive.
With --metrics-addr the studio metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := newStudio(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeStudio(s)

		addr := metricsAddr
		if addr == "" {
			addr = appConfig.Metrics.Address
		}
		if addr != "" {
			srv, err := serveMetrics(addr, s.Metrics().Handler())
			if err != nil {
				return err
			}
			defer shutdown(srv)
			fmt.Fprintf(cmd.OutOrStdout(), "metrics on http://%s/metrics\n", srv.Addr)
		}

		return runSession(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	sessionCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "listen address for /metrics (overrides metrics.address)")
}

// serveMetrics binds addr before returning so a busy port is reported
// synchronously. srv.Addr holds the bound address.
func serveMetrics(addr string, h http.Handler) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{
		Addr:         ln.Addr().String(),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", slog.Any("error", err))
		}
	}()
	return srv, nil
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", slog.Any("error", err))
	}
}

// runSession executes commands from in until quit, EOF or ctx is done.
// Command failures are already reported as notices and do not end the
// session.
func runSession(ctx context.Context, s *studio.Studio, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	// playbacks finish before the session returns
	var pending []*worker.Task
	defer func() {
		for _, t := range pending {
			t.Wait()
		}
	}()

	for {
		fmt.Fprint(out, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = l
		}

		name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		switch strings.ToLower(name) {
		case "":
		case "record", "start":
			s.StartRecording(ctx)
		case "stop":
			s.StopRecording()
		case "play", "reverse":
			if task, err := s.Play(ctx, name == "reverse"); err == nil {
				pending = append(pending, task)
			}
		case "import":
			if arg == "" {
				fmt.Fprintln(out, "usage: import <file>")
				continue
			}
			s.Import(ctx, arg)
		case "info":
			info, err := s.Info()
			if err == nil {
				fmt.Fprintf(out, "%s, %d bytes, %s\n", info.Format, info.DataBytes, info.Duration)
			}
		case "help", "?":
			fmt.Fprintln(out, "commands: record, stop, play, reverse, import <file>, info, quit")
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", name)
		}
	}
}
