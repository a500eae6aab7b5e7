package serial

import (
	"os"
	"path/filepath"
	"testing"
)

// TestReadSysfsFile tests the sysfs file reading helper
func TestReadSysfsFile(t *testing.T) {
	// Create a temporary directory for testing
	tmpDir, err := os.MkdirTemp("", "serial-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	tests := []struct {
		name     string
		content  string
		expected string
		setup    func(string) error
	}{
		{
			name:     "normal file",
			content:  "1234\n",
			expected: "1234",
			setup: func(path string) error {
				return os.WriteFile(path, []byte("1234\n"), 0644)
			},
		},
		{
			name:     "file with spaces",
			content:  "  test value  \n",
			expected: "test value",
			setup: func(path string) error {
				return os.WriteFile(path, []byte("  test value  \n"), 0644)
			},
		},
		{
			name:     "nonexistent file",
			expected: "",
			setup:    func(path string) error { return nil },
		},
		{
			name:     "empty file",
			content:  "",
			expected: "",
			setup: func(path string) error {
				return os.WriteFile(path, []byte(""), 0644)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(tmpDir, tt.name)
			if err := tt.setup(testFile); err != nil {
				t.Fatalf("Setup failed: %v", err)
			}

			result := readSysfsFile(testFile)
			if result != tt.expected {
				t.Errorf("readSysfsFile() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

// writeUSBDevice builds a fake sysfs USB device and links class/tty/<name>/device
// to linkTarget, which is relative to the interface directory.
func writeUSBDevice(t *testing.T, root, name, linkTarget string) {
	t.Helper()

	devicePath := filepath.Join(root, "devices", "usb5", "5-2.3.1")
	interfacePath := filepath.Join(devicePath, "5-2.3.1:1.0")
	target := filepath.Join(interfacePath, linkTarget)
	classTtyPath := filepath.Join(root, "class", "tty", name)

	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatalf("Failed to create directory structure: %v", err)
	}
	if err := os.MkdirAll(classTtyPath, 0755); err != nil {
		t.Fatalf("Failed to create class/tty directory: %v", err)
	}

	deviceFiles := map[string]string{
		"idVendor":     "303a",
		"idProduct":    "0002",
		"serial":       "7C:DF:A1:00:11:22",
		"manufacturer": "Espressif",
		"product":      "ESP32-S2",
		"busnum":       "5",
		"devnum":       "7",
	}
	for filename, content := range deviceFiles {
		path := filepath.Join(devicePath, filename)
		if err := os.WriteFile(path, []byte(content+"\n"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", filename, err)
		}
	}

	interfaceFile := filepath.Join(interfacePath, "bInterfaceNumber")
	if err := os.WriteFile(interfaceFile, []byte("00\n"), 0644); err != nil {
		t.Fatalf("Failed to write interface number: %v", err)
	}

	if err := os.Symlink(target, filepath.Join(classTtyPath, "device")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}
}

// useSysfsRoot points enrichUSBInfo at root for the duration of the test
func useSysfsRoot(t *testing.T, root string) {
	t.Helper()
	original := sysfsRoot
	sysfsRoot = root
	t.Cleanup(func() { sysfsRoot = original })
}

// TestEnrichUSBInfo tests USB metadata extraction with a mock sysfs structure
func TestEnrichUSBInfo(t *testing.T) {
	tests := []struct {
		name       string
		tty        string
		linkTarget string
	}{
		// CDC/ACM: device link points at the interface itself
		{"acm", "ttyACM0", "."},
		// usb-serial drivers add a ttyUSBn node below the interface
		{"usb-serial", "ttyUSB0", "ttyUSB0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeUSBDevice(t, root, tt.tty, tt.linkTarget)
			useSysfsRoot(t, root)

			info := &PortInfo{Name: tt.tty, Path: "/dev/" + tt.tty}
			enrichUSBInfo(info)

			fields := []struct {
				name     string
				got      string
				expected string
			}{
				{"VendorID", info.VendorID, "303a"},
				{"ProductID", info.ProductID, "0002"},
				{"SerialNumber", info.SerialNumber, "7C:DF:A1:00:11:22"},
				{"InterfaceNumber", info.InterfaceNumber, "00"},
				{"BusNumber", info.BusNumber, "5"},
				{"DeviceNumber", info.DeviceNumber, "7"},
				{"Manufacturer", info.Manufacturer, "Espressif"},
				{"Product", info.Product, "ESP32-S2"},
			}
			for _, f := range fields {
				if f.got != f.expected {
					t.Errorf("%s = %q, expected %q", f.name, f.got, f.expected)
				}
			}
			if !info.IsUSB() {
				t.Error("IsUSB() = false, expected true")
			}
		})
	}
}

// TestEnrichUSBInfoGracefulFailure tests that enrichUSBInfo handles missing files gracefully
func TestEnrichUSBInfoGracefulFailure(t *testing.T) {
	useSysfsRoot(t, t.TempDir())

	info := &PortInfo{
		Name: "ttyUSB999",
		Path: "/dev/ttyUSB999",
	}

	enrichUSBInfo(info)

	if info.VendorID != "" {
		t.Errorf("VendorID should be empty, got %q", info.VendorID)
	}
	if info.ProductID != "" {
		t.Errorf("ProductID should be empty, got %q", info.ProductID)
	}
	if info.SerialNumber != "" {
		t.Errorf("SerialNumber should be empty, got %q", info.SerialNumber)
	}
	if info.IsUSB() {
		t.Error("IsUSB() = true for a port without metadata")
	}
}
