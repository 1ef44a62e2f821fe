package main

import (
	"context"
	"fmt"
	"log/slog"

	"smart-home/config"
	"smart-home/internal/application"
	"smart-home/internal/infra/homeassistant"
	"smart-home/internal/infra/inventory"
	"smart-home/internal/infra/mqtt"
	"smart-home/internal/infra/pushover"
)

type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	inventory *inventory.Inventory
	reporter  *application.Reporter
	closers   []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	inv, err := inventory.New(cfg.Devices)
	if err != nil {
		return nil, fmt.Errorf("building inventory: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, inventory: inv}

	notifier, err := a.createNotifier()
	if err != nil {
		a.Close()
		return nil, err
	}

	var source inventory.DeviceSource
	if cfg.HomeAssistant.URL != "" {
		source = homeassistant.NewClient(cfg.HomeAssistant.URL, cfg.HomeAssistant.Token)
	}

	providers, err := inv.Providers(ctx, cfg.Providers, source)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building providers: %w", err)
	}

	house := inventory.House(cfg.House, logger)
	a.reporter = application.NewReporter(house, notifier, logger)
	for name, p := range providers {
		a.reporter.Register(name, p)
	}

	return a, nil
}

func (a *app) createNotifier() (application.Notifier, error) {
	var notifiers application.MultiNotifier

	if a.cfg.Pushover.Enabled {
		notifiers = append(notifiers, pushover.NewClientWithURL(
			a.cfg.Pushover.Token,
			a.cfg.Pushover.UserKey,
			a.cfg.Pushover.APIURL,
		))
	}

	if a.cfg.MQTT.Enabled {
		publisher, err := mqtt.Connect(a.cfg.MQTT, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connecting mqtt: %w", err)
		}
		a.closers = append(a.closers, publisher.Close)
		notifiers = append(notifiers, publisher)
	}

	if len(notifiers) == 0 {
		return &application.NoopNotifier{}, nil
	}
	return notifiers, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}
