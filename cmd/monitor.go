/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/allbin/fwkit/internal/monitor"
	"github.com/allbin/fwkit/internal/tui/models"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print lines from a serial device for a fixed duration",
	Long: `Open a serial device and print every non-empty line it sends until the
duration elapses, a read fails or Ctrl+C is pressed.

Device output goes to stdout, one line per received line, so it can be
piped. Banners and errors go to stderr. The command exits 1 when the
device cannot be opened.

Examples:
  fwkit monitor
  fwkit monitor --device /dev/ttyUSB0 --duration 2m
  fwkit monitor --reset              # reboot the board first to catch the boot log
  fwkit monitor --tui`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		useTUI := v.GetBool("monitor.tui")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !useTUI {
			if code := runMonitor(ctx, cfg.Monitor, monitor.OpenPort, os.Stdout, os.Stderr); code != 0 {
				stop()
				os.Exit(code)
			}
			return
		}

		if !isatty.IsTerminal(os.Stdout.Fd()) {
			fmt.Fprintln(os.Stderr, "Error: --tui requires stdout to be a terminal")
			os.Exit(1)
		}
		if _, err := models.Run(ctx, cfg.Monitor, monitor.OpenPort); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			stop()
			os.Exit(1)
		}
	},
}

// runMonitor runs a console session and returns the process exit code.
// Device lines go to stdout; banners and errors go to stderr.
func runMonitor(ctx context.Context, cfg monitor.Config, open monitor.Opener, stdout, stderr io.Writer) int {
	handler := monitor.NewConsoleHandler(cfg, stdout, stderr)
	if _, err := monitor.New(cfg, open, handler).Run(ctx); err != nil {
		// The handler has already reported open failures.
		if !errors.Is(err, monitor.ErrOpen) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	flags := monitorCmd.Flags()
	flags.StringP("device", "d", monitor.DefaultDevice, "Serial device to open")
	flags.IntP("baud", "b", monitor.DefaultBaudRate, "Baud rate")
	flags.Duration("timeout", monitor.DefaultReadTimeout, "Read timeout, a multiple of 100ms")
	flags.DurationP("duration", "t", monitor.DefaultDuration, "How long to listen")
	flags.Bool("reset", false, "Reboot the board through RTS/DTR before listening")
	flags.Bool("tui", false, "Show the session in a full-screen terminal UI")

	v.BindPFlag("monitor.device", flags.Lookup("device"))
	v.BindPFlag("monitor.baud", flags.Lookup("baud"))
	v.BindPFlag("monitor.timeout", flags.Lookup("timeout"))
	v.BindPFlag("monitor.duration", flags.Lookup("duration"))
	v.BindPFlag("monitor.reset", flags.Lookup("reset"))
	v.BindPFlag("monitor.tui", flags.Lookup("tui"))
}
