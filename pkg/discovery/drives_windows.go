//go:build windows

package discovery

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

// Win32_LogicalDisk holds the fields of the WMI class we query.
type Win32_LogicalDisk struct {
	DeviceID string
}

// FixedDrives returns the device ids ("C:") of local fixed disks.
func FixedDrives() ([]string, error) {
	var disks []Win32_LogicalDisk
	if err := wmi.Query("SELECT DeviceID FROM Win32_LogicalDisk WHERE DriveType = 3", &disks); err != nil {
		return nil, fmt.Errorf("querying logical disks: %w", err)
	}
	drives := make([]string, 0, len(disks))
	for _, d := range disks {
		if d.DeviceID != "" {
			drives = append(drives, d.DeviceID)
		}
	}
	return drives, nil
}
