package domain

import "sort"

// Room references devices by name only. Names are unique within a room.
type Room struct {
	name    string
	devices map[string]struct{}
}

func NewRoom(name string, devices ...string) *Room {
	r := &Room{
		name:    name,
		devices: make(map[string]struct{}, len(devices)),
	}
	for _, d := range devices {
		r.devices[d] = struct{}{}
	}
	return r
}

func (r *Room) Name() string {
	return r.name
}

// AddDevice reports whether the name was inserted; a known name is a no-op.
func (r *Room) AddDevice(name string) bool {
	if _, ok := r.devices[name]; ok {
		return false
	}
	r.devices[name] = struct{}{}
	return true
}

func (r *Room) HasDevice(name string) bool {
	_, ok := r.devices[name]
	return ok
}

// Devices returns the device names sorted.
func (r *Room) Devices() []string {
	result := make([]string, 0, len(r.devices))
	for d := range r.devices {
		result = append(result, d)
	}
	sort.Strings(result)
	return result
}

// Equal compares rooms by name.
func (r *Room) Equal(other *Room) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.name == other.name
}
