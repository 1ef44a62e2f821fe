// Package provider holds in-memory implementations of
// application.DeviceInfoProvider.
//
// Owning keeps its own copy of a socket, so later changes made elsewhere
// are not seen. Borrowing holds references to devices owned by the caller
// and always reports their current state.
package provider

import (
	"smart-home/internal/application"
	"smart-home/internal/domain"
)

type Owning struct {
	socket domain.Socket
}

func NewOwning(socket domain.Socket) *Owning {
	return &Owning{socket: socket}
}

func (o *Owning) Socket() domain.Socket {
	return o.socket
}

func (o *Owning) RequiredDevices() []domain.Device {
	return []domain.Device{o.socket}
}

func (o *Owning) Info(room, device string) (string, bool) {
	return lookup(room, device, o.socket)
}

type Borrowing struct {
	devices []domain.Device
}

// NewBorrowing expects references (pointers or shared values); the devices
// remain owned by the caller.
func NewBorrowing(devices ...domain.Device) *Borrowing {
	return &Borrowing{devices: devices}
}

func (b *Borrowing) RequiredDevices() []domain.Device {
	result := make([]domain.Device, len(b.devices))
	copy(result, b.devices)
	return result
}

func (b *Borrowing) Info(room, device string) (string, bool) {
	return lookup(room, device, b.devices...)
}

func lookup(room, device string, devices ...domain.Device) (string, bool) {
	for _, d := range devices {
		if d.Name() == device {
			return application.FormatInfo(room, d), true
		}
	}
	return "", false
}
