package inventory_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"smart-home/config"
	"smart-home/internal/application"
	"smart-home/internal/domain"
	"smart-home/internal/infra/inventory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticSource struct {
	devices []domain.Device
	err     error
}

func (s *staticSource) GetDevices(_ context.Context) ([]domain.Device, error) {
	return s.devices, s.err
}

func TestNew_DuplicateDevice(t *testing.T) {
	_, err := inventory.New(config.DevicesConfig{
		Sockets:      []config.SocketConfig{{Name: "x", State: "on"}},
		Thermometers: []config.ThermometerConfig{{Name: "x", Temperature: "1"}},
	})
	if !errors.Is(err, inventory.ErrDuplicateDevice) {
		t.Fatalf("error: got %v, want ErrDuplicateDevice", err)
	}
}

func TestNew_BadSocketState(t *testing.T) {
	_, err := inventory.New(config.DevicesConfig{
		Sockets: []config.SocketConfig{{Name: "x", State: "dim"}},
	})
	if !errors.Is(err, domain.ErrInvalidSocketState) {
		t.Fatalf("error: got %v, want ErrInvalidSocketState", err)
	}
}

func TestDemo_Reports(t *testing.T) {
	cfg := config.Demo()

	inv, err := inventory.New(cfg.Devices)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if strings.Join(inv.Names(), ",") != "socket_1,socket_2,thermo" {
		t.Errorf("names: got %v", inv.Names())
	}

	house := inventory.House(cfg.House, testLogger())
	providers, err := inv.Providers(context.Background(), cfg.Providers, nil)
	if err != nil {
		t.Fatalf("Providers error: %v", err)
	}

	report1, err := house.CreateReport(providers["owning"])
	if err != nil {
		t.Fatalf("owning report: %v", err)
	}
	want1 := "Finding report of House :)\nRoom: Room 1, Device Socket: socket_1 and state is On"
	if report1 != want1 {
		t.Errorf("owning report:\ngot  %q\nwant %q", report1, want1)
	}

	report2, err := house.CreateReport(providers["borrowing"])
	if err != nil {
		t.Fatalf("borrowing report: %v", err)
	}
	want2 := strings.Join([]string{
		"Finding report of House :)",
		"Room: Room 1, Device Socket: socket_2 and state is Off",
		"Room: Room 2, Device Socket: socket_2 and state is Off",
		"Room: Room 2, Device Thermometer: thermo and temperature is 27.0",
	}, "\n")
	if report2 != want2 {
		t.Errorf("borrowing report:\ngot  %q\nwant %q", report2, want2)
	}
}

func TestInventory_StateChangesReachBorrowingOnly(t *testing.T) {
	cfg := config.Demo()
	cfg.Providers = append(cfg.Providers, config.ProviderConfig{
		Name: "socket_2_owner", Kind: config.ProviderOwning, Devices: []string{"socket_2"},
	})

	inv, err := inventory.New(cfg.Devices)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	house := inventory.House(cfg.House, testLogger())
	providers, err := inv.Providers(context.Background(), cfg.Providers, nil)
	if err != nil {
		t.Fatalf("Providers error: %v", err)
	}

	if err := inv.SetSocketState("socket_2", domain.SocketOn); err != nil {
		t.Fatalf("SetSocketState error: %v", err)
	}
	if err := inv.SetTemperature("thermo", "19.5"); err != nil {
		t.Fatalf("SetTemperature error: %v", err)
	}

	borrowed, _ := house.CreateReport(providers["borrowing"])
	if !strings.Contains(borrowed, "socket_2 and state is On") || !strings.Contains(borrowed, "temperature is 19.5") {
		t.Errorf("borrowing report should reflect changes: %q", borrowed)
	}

	owned, _ := house.CreateReport(providers["socket_2_owner"])
	if !strings.Contains(owned, "socket_2 and state is Off") {
		t.Errorf("owning report should keep its copy: %q", owned)
	}
}

func TestInventory_SetUnknown(t *testing.T) {
	inv, _ := inventory.New(config.Demo().Devices)

	if err := inv.SetSocketState("thermo", domain.SocketOn); !errors.Is(err, inventory.ErrUnknownDevice) {
		t.Errorf("SetSocketState on thermometer: got %v", err)
	}
	if err := inv.SetTemperature("socket_1", "1"); !errors.Is(err, inventory.ErrUnknownDevice) {
		t.Errorf("SetTemperature on socket: got %v", err)
	}
}

func TestProviders_Errors(t *testing.T) {
	inv, err := inventory.New(config.Demo().Devices)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	tests := []struct {
		name    string
		cfg     config.ProviderConfig
		wantErr error
	}{
		{
			name:    "unknown borrowed device",
			cfg:     config.ProviderConfig{Name: "p", Kind: config.ProviderBorrowing, Devices: []string{"ghost"}},
			wantErr: inventory.ErrUnknownDevice,
		},
		{
			name:    "unknown owned device",
			cfg:     config.ProviderConfig{Name: "p", Kind: config.ProviderOwning, Devices: []string{"ghost"}},
			wantErr: inventory.ErrUnknownDevice,
		},
		{
			name:    "owning a thermometer",
			cfg:     config.ProviderConfig{Name: "p", Kind: config.ProviderOwning, Devices: []string{"thermo"}},
			wantErr: inventory.ErrNotASocket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inv.Providers(context.Background(), []config.ProviderConfig{tt.cfg}, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProviders_HomeAssistant(t *testing.T) {
	inv, _ := inventory.New(config.DevicesConfig{})
	source := &staticSource{devices: []domain.Device{
		domain.NewSocket("kettle", domain.SocketOn),
		domain.NewThermometer("porch", "4 °C"),
	}}

	providers, err := inv.Providers(context.Background(), []config.ProviderConfig{
		{Name: "ha", Kind: config.ProviderHomeAssistant, Devices: []string{"porch"}},
	}, source)
	if err != nil {
		t.Fatalf("Providers error: %v", err)
	}
	if _, ok := providers["ha"].(application.Refresher); !ok {
		t.Error("home assistant provider should refresh before each report")
	}

	house := application.NewSmartHome("cottage", testLogger())
	house.AddRoom(domain.NewRoom("Outside", "porch", "kettle"))

	report, err := house.CreateReport(providers["ha"])
	if err != nil {
		t.Fatalf("CreateReport error: %v", err)
	}
	want := "Finding report of cottage\nRoom: Outside, Device Thermometer: porch and temperature is 4 °C"
	if report != want {
		t.Errorf("report:\ngot  %q\nwant %q", report, want)
	}

	_, err = inv.Providers(context.Background(), []config.ProviderConfig{
		{Name: "ha", Kind: config.ProviderHomeAssistant},
	}, nil)
	if err == nil {
		t.Error("expected error without a home assistant source")
	}

	source.err = errors.New("offline")
	_, err = inv.Providers(context.Background(), []config.ProviderConfig{
		{Name: "ha", Kind: config.ProviderHomeAssistant},
	}, source)
	if err == nil || !strings.Contains(err.Error(), "offline") {
		t.Errorf("error: got %v, want offline", err)
	}
}

func TestHouse_DuplicateRoomsKeepFirst(t *testing.T) {
	house := inventory.House(config.HouseConfig{
		Description: "h",
		Rooms: []config.RoomConfig{
			{Name: "a", Devices: []string{"x"}},
			{Name: "a", Devices: []string{"y"}},
		},
	}, testLogger())

	room, ok := house.Room("a")
	if !ok {
		t.Fatal("room a missing")
	}
	if !room.HasDevice("x") || room.HasDevice("y") {
		t.Errorf("devices: got %v, want [x]", room.Devices())
	}
}
