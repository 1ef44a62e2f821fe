package application

import (
	"context"
	"fmt"

	"smart-home/internal/domain"
)

// DeviceInfoProvider supplies status lines for a fixed set of devices.
type DeviceInfoProvider interface {
	// RequiredDevices must return the same set for the duration of a report.
	RequiredDevices() []domain.Device
	// Info looks the device up by name only; room is used for formatting.
	Info(room, device string) (string, bool)
}

// Refresher is implemented by providers backed by an external system.
// Reporter calls Refresh before each report and builds it from the
// returned provider.
type Refresher interface {
	Refresh(ctx context.Context) (DeviceInfoProvider, error)
}

// FormatInfo renders the report line for a device found in a room.
func FormatInfo(room string, device domain.Device) string {
	return fmt.Sprintf("Room: %s, Device %s", room, device.Report())
}
