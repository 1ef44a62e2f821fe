package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOwning        = "owning"
	ProviderBorrowing     = "borrowing"
	ProviderHomeAssistant = "homeassistant"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	House         HouseConfig         `yaml:"house"`
	Devices       DevicesConfig       `yaml:"devices"`
	Providers     []ProviderConfig    `yaml:"providers"`
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	Pushover      PushoverConfig      `yaml:"pushover"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	HTTP          HTTPConfig          `yaml:"http"`
	Report        ReportConfig        `yaml:"report"`
	Log           LogConfig           `yaml:"log"`
}

type HouseConfig struct {
	Description string       `yaml:"description"`
	Rooms       []RoomConfig `yaml:"rooms"`
}

type RoomConfig struct {
	Name    string   `yaml:"name"`
	Devices []string `yaml:"devices"`
}

type DevicesConfig struct {
	Sockets      []SocketConfig      `yaml:"sockets"`
	Thermometers []ThermometerConfig `yaml:"thermometers"`
}

type SocketConfig struct {
	Name  string `yaml:"name"`
	State string `yaml:"state"`
}

type ThermometerConfig struct {
	Name        string `yaml:"name"`
	Temperature string `yaml:"temperature"`
}

type ProviderConfig struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Devices []string `yaml:"devices"`
}

type HomeAssistantConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
	APIURL  string `yaml:"api_url"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
	Retained bool   `yaml:"retained"`
	Enabled  bool   `yaml:"enabled"`
}

// HTTPConfig.TrustProxy reads client IPs from proxy headers for rate
// limiting; enable only behind a proxy that sets them.
type HTTPConfig struct {
	Addr       string `yaml:"addr"`
	AuthToken  string `yaml:"auth_token"`
	RateLimit  int    `yaml:"rate_limit"`
	TrustProxy bool   `yaml:"trust_proxy"`
}

type ReportConfig struct {
	Interval string `yaml:"interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML after expanding environment variables.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.House.Description == "" {
		c.House.Description = "Smart Home"
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "smarthome/reports"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "smarthome-reporter"
	}
	if c.Pushover.APIURL == "" {
		c.Pushover.APIURL = "https://api.pushover.net/1/messages.json"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.RateLimit == 0 {
		c.HTTP.RateLimit = 30
	}
	if c.Report.Interval == "" {
		c.Report.Interval = "0"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the provider section. Device references are resolved
// when the inventory is built.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("%w: provider #%d has no name", ErrInvalidConfig, i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate provider %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true

		switch p.Kind {
		case ProviderOwning:
			if len(p.Devices) != 1 {
				return fmt.Errorf("%w: owning provider %q needs exactly one device, got %d",
					ErrInvalidConfig, p.Name, len(p.Devices))
			}
		case ProviderBorrowing:
			if len(p.Devices) == 0 {
				return fmt.Errorf("%w: borrowing provider %q has no devices", ErrInvalidConfig, p.Name)
			}
		case ProviderHomeAssistant:
			if c.HomeAssistant.URL == "" {
				return fmt.Errorf("%w: provider %q needs homeassistant.url", ErrInvalidConfig, p.Name)
			}
		default:
			return fmt.Errorf("%w: provider %q has unknown kind %q", ErrInvalidConfig, p.Name, p.Kind)
		}
	}
	return nil
}

// Demo is the two-room house with one owning and one borrowing provider.
func Demo() *Config {
	cfg := &Config{
		House: HouseConfig{
			Description: "House :)",
			Rooms: []RoomConfig{
				{Name: "Room 1", Devices: []string{"socket_1", "socket_2"}},
				{Name: "Room 2", Devices: []string{"thermo", "socket_2"}},
			},
		},
		Devices: DevicesConfig{
			Sockets: []SocketConfig{
				{Name: "socket_1", State: "on"},
				{Name: "socket_2", State: "off"},
			},
			Thermometers: []ThermometerConfig{
				{Name: "thermo", Temperature: "27.0"},
			},
		},
		Providers: []ProviderConfig{
			{Name: "owning", Kind: ProviderOwning, Devices: []string{"socket_1"}},
			{Name: "borrowing", Kind: ProviderBorrowing, Devices: []string{"socket_2", "thermo"}},
		},
	}
	cfg.setDefaults()
	return cfg
}
