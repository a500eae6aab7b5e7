/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/allbin/fwkit/serial"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals [port]",
	Short: "Display current modem signal states",
	Long: `Display the state of the modem control lines of a port.

Useful to check that a reset left RTS and DTR released, since a board
held with RTS asserted stays in reset and prints nothing.

Examples:
  fwkit signals
  fwkit signals /dev/ttyUSB0`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := deviceArg(args)

		port, err := serial.Open(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		signals, err := port.GetModemSignals()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading modem signals: %v\n", err)
			port.Close()
			os.Exit(1)
		}

		fmt.Printf("Modem Signals for %s:\n\n", portPath)
		fmt.Printf("  CTS (Clear To Send):       %s\n", formatSignalState(signals.CTS))
		fmt.Printf("  DSR (Data Set Ready):      %s\n", formatSignalState(signals.DSR))
		fmt.Printf("  RI  (Ring Indicator):      %s\n", formatSignalState(signals.RI))
		fmt.Printf("  DCD (Data Carrier Detect): %s\n", formatSignalState(signals.DCD))
		fmt.Printf("  RTS (Request To Send):     %s\n", formatSignalState(signals.RTS))
		fmt.Printf("  DTR (Data Terminal Ready): %s\n", formatSignalState(signals.DTR))
	},
}

func formatSignalState(state bool) string {
	if state {
		return "HIGH"
	}
	return "LOW"
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}
