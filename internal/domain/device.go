package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSocketState = errors.New("invalid socket state")

// Device is anything that can describe itself in a report line.
type Device interface {
	Name() string
	Report() string
}

type SocketState bool

const (
	SocketOff SocketState = false
	SocketOn  SocketState = true
)

func (s SocketState) String() string {
	if s == SocketOn {
		return "On"
	}
	return "Off"
}

// ParseSocketState accepts on/off and true/false in any case.
func ParseSocketState(s string) (SocketState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true":
		return SocketOn, nil
	case "off", "false", "":
		return SocketOff, nil
	default:
		return SocketOff, fmt.Errorf("%w: %q", ErrInvalidSocketState, s)
	}
}

type Socket struct {
	name  string
	state SocketState
}

func NewSocket(name string, state SocketState) Socket {
	return Socket{name: name, state: state}
}

func (s Socket) Name() string {
	return s.name
}

func (s Socket) State() SocketState {
	return s.state
}

func (s Socket) TurnOn() Socket {
	s.state = SocketOn
	return s
}

func (s Socket) TurnOff() Socket {
	s.state = SocketOff
	return s
}

func (s Socket) Report() string {
	return fmt.Sprintf("Socket: %s and state is %s", s.name, s.state)
}

// Thermometer keeps its reading as text; it is reported verbatim.
type Thermometer struct {
	name        string
	temperature string
}

func NewThermometer(name, temperature string) Thermometer {
	return Thermometer{name: name, temperature: temperature}
}

func (t Thermometer) Name() string {
	return t.name
}

func (t Thermometer) Temperature() string {
	return t.temperature
}

func (t Thermometer) WithTemperature(temperature string) Thermometer {
	t.temperature = temperature
	return t
}

func (t Thermometer) Report() string {
	return fmt.Sprintf("Thermometer: %s and temperature is %s", t.name, t.temperature)
}
