package homeassistant

import (
	"context"
	"fmt"

	"smart-home/internal/domain"
	"smart-home/internal/infra/provider"
)

type DeviceSource interface {
	GetDevices(ctx context.Context) ([]domain.Device, error)
}

// Snapshot fetches the devices once and serves reports from that copy, so
// the required set stays fixed while a report is built. With names given,
// only those devices are kept; a name the source does not know is an error.
func Snapshot(ctx context.Context, source DeviceSource, names ...string) (*provider.Borrowing, error) {
	devices, err := source.GetDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching devices: %w", err)
	}

	if len(names) == 0 {
		return provider.NewBorrowing(devices...), nil
	}

	byName := make(map[string]domain.Device, len(devices))
	for _, d := range devices {
		byName[d.Name()] = d
	}

	selected := make([]domain.Device, 0, len(names))
	for _, name := range names {
		d, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("device %q not reported by home assistant", name)
		}
		selected = append(selected, d)
	}

	return provider.NewBorrowing(selected...), nil
}
