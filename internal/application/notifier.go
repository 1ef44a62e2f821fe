package application

import (
	"context"
	"errors"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ string) error {
	return nil
}

// MultiNotifier delivers every message to all of its notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
