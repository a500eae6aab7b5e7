/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allbin/fwkit/internal/tui/components"
	"github.com/allbin/fwkit/serial"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List the serial ports a board can be monitored on.

USB adapters (ttyUSB*), CDC/ACM devices (ttyACM*), standard UARTs (ttyS*)
and ARM/SoC UARTs are listed. Virtual and pseudo terminals are not.

Examples:
  fwkit list
  fwkit list --filter usb --table`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := serial.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		infos := portInfos(ports)
		filtered := filterPorts(infos, filterType)

		if len(filtered) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n\n", len(filtered))
			fmt.Println(components.PortTable(filtered))
			return
		}
		for _, info := range filtered {
			fmt.Println(info.Path)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a table")
}

// portInfos resolves details for each port, skipping ports that vanished.
func portInfos(ports []string) []serial.PortInfo {
	infos := make([]serial.PortInfo, 0, len(ports))
	for _, port := range ports {
		info, err := serial.GetPortInfo(port)
		if err != nil {
			continue
		}
		infos = append(infos, *info)
	}
	return infos
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []serial.PortInfo, filterType string) []serial.PortInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []serial.PortInfo
	for _, info := range ports {
		if portMatches(info.Name, filterType) {
			filtered = append(filtered, info)
		}
	}
	return filtered
}

func portMatches(name, filterType string) bool {
	name = strings.ToLower(name)
	switch filterType {
	case "usb":
		return strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm")
	case "standard":
		return strings.HasPrefix(name, "ttys") && !strings.HasPrefix(name, "ttysac")
	case "arm":
		for _, prefix := range []string{"ttyama", "ttymxc", "ttysac", "ttyths", "ttyo"} {
			if strings.HasPrefix(name, prefix) {
				return true
			}
		}
	}
	return false
}
