// Package serial provides line-oriented access to Linux serial ports for
// firmware development boards.
//
// The package talks to the tty directly through termios ioctls and keeps the
// surface small: open a port, read lines until a timeout, pulse the modem
// control lines to reboot a board, and discover ports through sysfs.
//
// # Basic Usage
//
// Open a serial port with default configuration (115200 8N1, 1s read timeout):
//
//	port, err := serial.Open("/dev/ttyACM0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	lines := serial.NewLineReader(port)
//	for {
//	    line, err := lines.ReadLine()
//	    if err != nil {
//	        break
//	    }
//	    fmt.Printf("%s", line)
//	}
//
// # Configuration Options
//
// Use functional options for custom configuration:
//
//	port, err := serial.Open("/dev/ttyUSB0",
//	    serial.WithBaudRate(921600),
//	    serial.WithReadTimeout(500*time.Millisecond),
//	)
//
// # Read Timeouts
//
// The read timeout bounds the poll before each read and is mirrored in the
// termios VTIME field, so it must be a multiple of 100ms between 0 and 25.5s.
// A read that times out returns zero bytes and a nil error; LineReader turns
// that into a partial line. A device that hangs up returns ErrDisconnected.
//
// # Resetting a Board
//
// Most ESP32 dev boards wire RTS to EN and DTR to GPIO0 through the USB-UART
// bridge. HardReset holds EN low for the given duration and releases it,
// which reboots the chip into the application:
//
//	err := serial.HardReset(port, 100*time.Millisecond)
//
// # Port Discovery
//
//	ports, err := serial.ListPorts()
//	for _, portPath := range ports {
//	    info, _ := serial.GetPortInfo(portPath)
//	    fmt.Printf("%s: %s (VID=%s PID=%s)\n",
//	        info.Path, info.Description, info.VendorID, info.ProductID)
//	}
//
// # Error Handling
//
// Open wraps the underlying errno with one of the sentinel errors so callers
// can use errors.Is:
//
//	if errors.Is(err, serial.ErrPermissionDenied) {
//	    // add the user to the dialout group
//	}
//
// # Default Configuration
//
//   - BaudRate: 115200, 8N1
//   - ReadTimeout: 1s
package serial
