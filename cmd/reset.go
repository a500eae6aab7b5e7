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

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset [port]",
	Short: "Reboot a board through the RTS/DTR lines",
	Long: `Pulse RTS with DTR released, the sequence USB-UART bridges on ESP32
development boards wire to the EN pin. The board reboots into the
application, not the bootloader.

Without an argument the configured monitor device is reset.

Examples:
  fwkit reset
  fwkit reset /dev/ttyUSB0 --hold 250ms`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := deviceArg(args)
		hold, _ := cmd.Flags().GetDuration("hold")

		port, err := serial.Open(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		if err := serial.HardReset(port, hold); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			port.Close()
			os.Exit(1)
		}

		fmt.Printf("Reset %s (RTS held %s)\n", portPath, hold)
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Duration("hold", serial.DefaultResetHold, "How long RTS holds the board in reset")
}
