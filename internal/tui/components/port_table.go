package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/allbin/fwkit/internal/tui/colors"
	"github.com/allbin/fwkit/internal/tui/styles"
	"github.com/allbin/fwkit/serial"
)

const (
	columnPort        = "port"
	columnDescription = "description"
	columnUSBID       = "usbid"
	columnSerial      = "serial"
	columnProduct     = "product"
)

// PortTable renders a static table of port details for non-interactive output.
func PortTable(ports []serial.PortInfo) string {
	columns := []table.Column{
		table.NewColumn(columnPort, "Port", 16),
		table.NewColumn(columnDescription, "Type", 22),
		table.NewColumn(columnUSBID, "VID:PID", 11),
		table.NewColumn(columnSerial, "Serial", 18),
		table.NewColumn(columnProduct, "Product", 24),
	}

	rows := make([]table.Row, 0, len(ports))
	for _, info := range ports {
		usbID := ""
		if info.IsUSB() {
			usbID = info.VendorID + ":" + info.ProductID
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnPort:        info.Path,
			columnDescription: info.Description,
			columnUSBID:       usbID,
			columnSerial:      info.SerialNumber,
			columnProduct:     info.Product,
		}))
	}

	return table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(styles.TableHeaderStyle).
		WithBaseStyle(lipgloss.NewStyle().
			BorderForeground(colors.Surface2).
			Foreground(colors.Text).
			Align(lipgloss.Left)).
		View()
}
