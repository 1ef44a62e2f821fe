package homeassistant

import (
	"context"
	"sync"

	"smart-home/internal/application"
	"smart-home/internal/domain"
	"smart-home/internal/infra/provider"
)

// Live is a provider over Home Assistant states. Each Refresh takes a new
// snapshot; RequiredDevices and Info answer from the latest one.
type Live struct {
	source DeviceSource
	names  []string

	mu      sync.RWMutex
	current *provider.Borrowing
}

// NewLive takes the first snapshot so unknown names fail at startup.
func NewLive(ctx context.Context, source DeviceSource, names ...string) (*Live, error) {
	current, err := Snapshot(ctx, source, names...)
	if err != nil {
		return nil, err
	}
	return &Live{
		source:  source,
		names:   append([]string(nil), names...),
		current: current,
	}, nil
}

func (l *Live) Refresh(ctx context.Context) (application.DeviceInfoProvider, error) {
	snapshot, err := Snapshot(ctx, l.source, l.names...)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.current = snapshot
	l.mu.Unlock()

	return snapshot, nil
}

func (l *Live) latest() *provider.Borrowing {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *Live) RequiredDevices() []domain.Device {
	return l.latest().RequiredDevices()
}

func (l *Live) Info(room, device string) (string, bool) {
	return l.latest().Info(room, device)
}
