// Package notify implements notification dispatch to multiple sinks when
// reconciliation binds new causes to a run.
package notify

import (
	"context"
	"fmt"

	"github.com/dwsmith1983/causeway/internal/metrics"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// Sink is a notification destination.
type Sink interface {
	Send(ctx context.Context, n types.Notification) error
	Name() string
}

// Dispatcher routes notifications to configured sinks.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher creates a dispatcher from notify configs.
func NewDispatcher(configs []types.NotifyConfig) (*Dispatcher, error) {
	d := &Dispatcher{}
	for _, cfg := range configs {
		s, err := newSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating %s sink: %w", cfg.Type, err)
		}
		d.sinks = append(d.sinks, s)
	}
	return d, nil
}

// Dispatch sends a notification to all configured sinks. A failing sink
// does not stop delivery to the others.
func (d *Dispatcher) Dispatch(ctx context.Context, n types.Notification) {
	for _, s := range d.sinks {
		if err := s.Send(ctx, n); err != nil {
			metrics.NotificationsFailed.Add(1)
			fmt.Printf("[notify] error sending to %s: %v\n", s.Name(), err)
			continue
		}
		metrics.NotificationsDispatched.Add(1)
	}
}

func newSink(cfg types.NotifyConfig) (Sink, error) {
	switch cfg.Type {
	case types.NotifyConsole:
		return NewConsoleSink(), nil
	case types.NotifyWebhook:
		if cfg.URL == "" {
			return nil, fmt.Errorf("webhook URL required")
		}
		return NewWebhookSink(cfg.URL), nil
	case types.NotifyFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file path required")
		}
		return NewFileSink(cfg.Path)
	case types.NotifySNS:
		return NewSNSSink(cfg.TopicARN)
	default:
		return nil, fmt.Errorf("unknown notify type %q", cfg.Type)
	}
}
