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

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [port]",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata.

Without an argument the configured monitor device is shown.

Examples:
  fwkit info
  fwkit info /dev/ttyUSB0

For USB devices this shows vendor/product IDs, serial number, interface
number and bus location read from sysfs.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := deviceArg(args)

		info, err := serial.GetPortInfo(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting port info for %s: %v\n", portPath, err)
			os.Exit(1)
		}

		fmt.Printf("Port Information: %s\n\n", info.Path)
		fmt.Printf("  Name:        %s\n", info.Name)
		fmt.Printf("  Description: %s\n", info.Description)

		if !info.IsUSB() {
			return
		}

		fmt.Println("\nUSB Device Information:")
		fields := []struct {
			label string
			value string
		}{
			{"Vendor ID", info.VendorID},
			{"Product ID", info.ProductID},
			{"Serial", info.SerialNumber},
			{"Interface", info.InterfaceNumber},
			{"Bus", info.BusNumber},
			{"Device", info.DeviceNumber},
			{"Manufacturer", info.Manufacturer},
			{"Product", info.Product},
		}
		for _, f := range fields {
			if f.value != "" {
				fmt.Printf("  %-13s %s\n", f.label+":", f.value)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
