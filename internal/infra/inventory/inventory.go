// Package inventory turns configuration into devices, a house and
// providers.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"smart-home/config"
	"smart-home/internal/application"
	"smart-home/internal/domain"
	"smart-home/internal/infra/homeassistant"
	"smart-home/internal/infra/provider"
)

var (
	ErrUnknownDevice   = errors.New("unknown device")
	ErrDuplicateDevice = errors.New("duplicate device")
	ErrNotASocket      = errors.New("owning provider needs a socket")
)

// Inventory owns the configured devices. Borrowing providers built from it
// reference these values, so state changes made through Inventory show up
// in their reports.
type Inventory struct {
	sockets      map[string]*domain.Socket
	thermometers map[string]*domain.Thermometer
}

func New(cfg config.DevicesConfig) (*Inventory, error) {
	inv := &Inventory{
		sockets:      make(map[string]*domain.Socket),
		thermometers: make(map[string]*domain.Thermometer),
	}

	for _, s := range cfg.Sockets {
		if inv.has(s.Name) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDevice, s.Name)
		}
		state, err := domain.ParseSocketState(s.State)
		if err != nil {
			return nil, fmt.Errorf("socket %s: %w", s.Name, err)
		}
		socket := domain.NewSocket(s.Name, state)
		inv.sockets[s.Name] = &socket
	}

	for _, t := range cfg.Thermometers {
		if inv.has(t.Name) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDevice, t.Name)
		}
		thermo := domain.NewThermometer(t.Name, t.Temperature)
		inv.thermometers[t.Name] = &thermo
	}

	return inv, nil
}

func (inv *Inventory) has(name string) bool {
	_, isSocket := inv.sockets[name]
	_, isThermo := inv.thermometers[name]
	return isSocket || isThermo
}

func (inv *Inventory) Device(name string) (domain.Device, bool) {
	if s, ok := inv.sockets[name]; ok {
		return s, true
	}
	if t, ok := inv.thermometers[name]; ok {
		return t, true
	}
	return nil, false
}

// Names returns every device name sorted.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.sockets)+len(inv.thermometers))
	for name := range inv.sockets {
		names = append(names, name)
	}
	for name := range inv.thermometers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (inv *Inventory) SetSocketState(name string, state domain.SocketState) error {
	s, ok := inv.sockets[name]
	if !ok {
		return fmt.Errorf("%w: socket %s", ErrUnknownDevice, name)
	}
	if state == domain.SocketOn {
		*s = s.TurnOn()
	} else {
		*s = s.TurnOff()
	}
	return nil
}

func (inv *Inventory) SetTemperature(name, temperature string) error {
	t, ok := inv.thermometers[name]
	if !ok {
		return fmt.Errorf("%w: thermometer %s", ErrUnknownDevice, name)
	}
	*t = t.WithTemperature(temperature)
	return nil
}

// House builds the house from the room list. Rooms may reference names
// that are not in the inventory; they simply never match a provider.
func House(cfg config.HouseConfig, logger *slog.Logger) *application.SmartHome {
	house := application.NewSmartHome(cfg.Description, logger)
	for _, rc := range cfg.Rooms {
		room := domain.NewRoom(rc.Name, rc.Devices...)
		if !house.AddRoom(room) && logger != nil {
			logger.Warn("duplicate room in config, keeping the first", "room", rc.Name)
		}
	}
	return house
}

// DeviceSource fetches devices from an external system.
type DeviceSource interface {
	GetDevices(ctx context.Context) ([]domain.Device, error)
}

// Providers builds every configured provider. ha may be nil when no
// homeassistant provider is configured.
func (inv *Inventory) Providers(ctx context.Context, cfgs []config.ProviderConfig, ha DeviceSource) (map[string]application.DeviceInfoProvider, error) {
	result := make(map[string]application.DeviceInfoProvider, len(cfgs))

	for _, pc := range cfgs {
		p, err := inv.buildProvider(ctx, pc, ha)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", pc.Name, err)
		}
		result[pc.Name] = p
	}

	return result, nil
}

func (inv *Inventory) buildProvider(ctx context.Context, pc config.ProviderConfig, ha DeviceSource) (application.DeviceInfoProvider, error) {
	switch pc.Kind {
	case config.ProviderOwning:
		if len(pc.Devices) != 1 {
			return nil, fmt.Errorf("owning provider needs exactly one device, got %d", len(pc.Devices))
		}
		s, ok := inv.sockets[pc.Devices[0]]
		if !ok {
			if inv.has(pc.Devices[0]) {
				return nil, fmt.Errorf("%w: %s", ErrNotASocket, pc.Devices[0])
			}
			return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, pc.Devices[0])
		}
		return provider.NewOwning(*s), nil

	case config.ProviderBorrowing:
		devices := make([]domain.Device, 0, len(pc.Devices))
		for _, name := range pc.Devices {
			d, ok := inv.Device(name)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, name)
			}
			devices = append(devices, d)
		}
		return provider.NewBorrowing(devices...), nil

	case config.ProviderHomeAssistant:
		if ha == nil {
			return nil, fmt.Errorf("home assistant client not configured")
		}
		p, err := homeassistant.NewLive(ctx, ha, pc.Devices...)
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("unknown provider kind %q", pc.Kind)
	}
}
