package application

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"smart-home/internal/domain"
)

// SmartHome owns uniquely named rooms and builds reports from them.
// Rooms are expected to be added before reports are requested; the house
// is not safe for concurrent mutation.
type SmartHome struct {
	description string
	rooms       map[string]*domain.Room
	logger      *slog.Logger
}

func NewSmartHome(description string, logger *slog.Logger) *SmartHome {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SmartHome{
		description: description,
		rooms:       make(map[string]*domain.Room),
		logger:      logger,
	}
}

func (h *SmartHome) Description() string {
	return h.description
}

// AddRoom inserts the room unless one with the same name exists.
func (h *SmartHome) AddRoom(room *domain.Room) bool {
	if _, exists := h.rooms[room.Name()]; exists {
		h.logger.Debug("room already exists, ignoring", "room", room.Name())
		return false
	}
	h.rooms[room.Name()] = room
	return true
}

func (h *SmartHome) Room(name string) (*domain.Room, bool) {
	r, ok := h.rooms[name]
	return r, ok
}

// Rooms returns the rooms sorted by name.
func (h *SmartHome) Rooms() []*domain.Room {
	names := make([]string, 0, len(h.rooms))
	for name := range h.rooms {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]*domain.Room, 0, len(names))
	for _, name := range names {
		result = append(result, h.rooms[name])
	}
	return result
}

// CreateReport matches the provider's required devices against the names
// referenced by the rooms. A required device referenced by a room but
// unknown to the provider fails with ErrNoInfoProvided as soon as it is
// met; a required device no room references fails with ErrNotFoundDevice
// once every room has been visited. No partial report is returned.
func (h *SmartHome) CreateReport(provider DeviceInfoProvider) (string, error) {
	var order []string
	lines := make(map[string][]string)
	for _, d := range provider.RequiredDevices() {
		name := d.Name()
		if _, seen := lines[name]; seen {
			continue
		}
		order = append(order, name)
		lines[name] = []string{}
	}

	for _, room := range h.Rooms() {
		for _, device := range room.Devices() {
			if _, required := lines[device]; !required {
				continue
			}

			info, ok := provider.Info(room.Name(), device)
			if !ok {
				h.logger.Warn("provider has no info for required device",
					"room", room.Name(),
					"device", device,
				)
				return "", noInfoProvided(device)
			}
			lines[device] = append(lines[device], info)
		}
	}

	for _, name := range order {
		if len(lines[name]) == 0 {
			h.logger.Warn("required device not found in any room", "device", name)
			return "", notFoundDevice(name)
		}
	}

	result := []string{"Finding report of " + h.description}
	for _, name := range order {
		result = append(result, lines[name]...)
	}

	h.logger.Debug("report created",
		"house", h.description,
		"devices", len(order),
		"lines", len(result)-1,
	)

	return strings.Join(result, "\n"), nil
}
