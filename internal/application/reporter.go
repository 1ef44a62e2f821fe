package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Reporter runs named providers against a house and delivers the results.
type Reporter struct {
	house    *SmartHome
	notifier Notifier
	logger   *slog.Logger

	mu        sync.RWMutex
	providers map[string]DeviceInfoProvider
}

func NewReporter(house *SmartHome, notifier Notifier, logger *slog.Logger) *Reporter {
	if notifier == nil {
		notifier = &NoopNotifier{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reporter{
		house:     house,
		notifier:  notifier,
		logger:    logger,
		providers: make(map[string]DeviceInfoProvider),
	}
}

func (r *Reporter) House() *SmartHome {
	return r.house
}

// Register adds a provider under name; a taken name is rejected.
func (r *Reporter) Register(name string, provider DeviceInfoProvider) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return false
	}
	r.providers[name] = provider
	return true
}

func (r *Reporter) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report builds the report of the named provider. Providers implementing
// Refresher are refreshed first.
func (r *Reporter) Report(ctx context.Context, name string) (string, error) {
	r.mu.RLock()
	provider, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	if refresher, ok := provider.(Refresher); ok {
		fresh, err := refresher.Refresh(ctx)
		if err != nil {
			return "", fmt.Errorf("refreshing %s: %w", name, err)
		}
		provider = fresh
	}

	return r.house.CreateReport(provider)
}

// Publish reports for the named providers, or all of them when names is
// empty, and hands each result to the notifier. A failing provider does
// not stop the others.
func (r *Reporter) Publish(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = r.Providers()
	}

	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.publishOne(ctx, name); err != nil {
			r.logger.Error("publishing report", "provider", name, "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Reporter) publishOne(ctx context.Context, name string) error {
	report, err := r.Report(ctx, name)
	if err != nil {
		notifyErr := r.notifier.Notify(ctx, fmt.Sprintf("Error: %s", err.Error()))
		if notifyErr != nil {
			r.logger.Error("notifying error", "error", notifyErr)
		}
		return fmt.Errorf("report %s: %w", name, err)
	}

	r.logger.Info("report created", "provider", name)

	if err := r.notifier.Notify(ctx, report); err != nil {
		return fmt.Errorf("notifying report %s: %w", name, err)
	}

	return nil
}

func (r *Reporter) StartPeriodic(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Publish(ctx); err != nil {
					r.logger.Warn("periodic publish had failures", "error", err)
				}
			}
		}
	}()
}
