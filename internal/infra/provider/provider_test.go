package provider_test

import (
	"strings"
	"testing"

	"smart-home/internal/application"
	"smart-home/internal/domain"
	"smart-home/internal/infra/provider"
)

var (
	_ application.DeviceInfoProvider = (*provider.Owning)(nil)
	_ application.DeviceInfoProvider = (*provider.Borrowing)(nil)
)

func TestOwning_Info(t *testing.T) {
	p := provider.NewOwning(domain.NewSocket("socket_1", domain.SocketOn))

	info, ok := p.Info("room", "socket_1")
	if !ok {
		t.Fatal("expected info for socket_1")
	}
	if !strings.Contains(info, "Room: room, Device Socket: socket_1") {
		t.Errorf("info: got %q", info)
	}
}

func TestBorrowing_Info(t *testing.T) {
	socket := domain.NewSocket("socket_1", domain.SocketOn)
	thermo := domain.NewThermometer("thermo", "27.6")
	p := provider.NewBorrowing(&socket, &thermo)

	info1, ok1 := p.Info("room", "socket_1")
	info2, ok2 := p.Info("room", "thermo")
	if !ok1 || !ok2 {
		t.Fatalf("expected info for both devices, got %v/%v", ok1, ok2)
	}

	if !strings.Contains(info1, "Room: room, Device Socket: socket_1") {
		t.Errorf("socket info: got %q", info1)
	}
	if !strings.Contains(info2, "Room: room, Device Thermometer: thermo") {
		t.Errorf("thermo info: got %q", info2)
	}
}

func TestProviders_UnknownDevice(t *testing.T) {
	socket := domain.NewSocket("socket_1", domain.SocketOn)

	providers := map[string]application.DeviceInfoProvider{
		"owning":    provider.NewOwning(socket),
		"borrowing": provider.NewBorrowing(&socket),
	}

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			if info, ok := p.Info("room", "not_found"); ok {
				t.Errorf("expected no info, got %q", info)
			}
		})
	}
}

func TestProviders_SameContentForSameState(t *testing.T) {
	socket := domain.NewSocket("socket_1", domain.SocketOff)
	owning := provider.NewOwning(socket)
	borrowing := provider.NewBorrowing(&socket)

	a, _ := owning.Info("Room 1", "socket_1")
	b, _ := borrowing.Info("Room 1", "socket_1")
	if a != b {
		t.Errorf("owning %q != borrowing %q", a, b)
	}

	if len(owning.RequiredDevices()) != 1 || len(borrowing.RequiredDevices()) != 1 {
		t.Error("both providers should require exactly one device")
	}
}

func TestBorrowing_SeesOwnerChanges(t *testing.T) {
	socket := domain.NewSocket("socket_1", domain.SocketOff)
	owning := provider.NewOwning(socket)
	borrowing := provider.NewBorrowing(&socket)

	socket = socket.TurnOn()

	borrowed, _ := borrowing.Info("hall", "socket_1")
	if !strings.HasSuffix(borrowed, "state is On") {
		t.Errorf("borrowing should see the new state, got %q", borrowed)
	}

	owned, _ := owning.Info("hall", "socket_1")
	if !strings.HasSuffix(owned, "state is Off") {
		t.Errorf("owning should keep its copy, got %q", owned)
	}
}

func TestProviders_InHouseReport(t *testing.T) {
	socket1 := domain.NewSocket("socket_1", domain.SocketOn)
	socket2 := domain.NewSocket("socket_2", domain.SocketOff)
	thermo := domain.NewThermometer("thermo", "27.0")

	house := application.NewSmartHome("House :)", nil)
	house.AddRoom(domain.NewRoom("Room 1", "socket_1", "socket_2"))
	house.AddRoom(domain.NewRoom("Room 2", "thermo", "socket_2"))

	report1, err := house.CreateReport(provider.NewOwning(socket1))
	if err != nil {
		t.Fatalf("owning report: %v", err)
	}
	if !strings.Contains(report1, "Room: Room 1, Device Socket: socket_1 and state is On") {
		t.Errorf("owning report: %q", report1)
	}

	report2, err := house.CreateReport(provider.NewBorrowing(&socket2, &thermo))
	if err != nil {
		t.Fatalf("borrowing report: %v", err)
	}
	for _, line := range []string{
		"Room: Room 1, Device Socket: socket_2 and state is Off",
		"Room: Room 2, Device Socket: socket_2 and state is Off",
		"Room: Room 2, Device Thermometer: thermo and temperature is 27.0",
	} {
		if !strings.Contains(report2, line) {
			t.Errorf("borrowing report missing %q", line)
		}
	}
}
