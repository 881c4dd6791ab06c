// Package metrics holds the instruments recorded by the type checker core.
//
// Instruments are created from an OpenTelemetry MeterProvider. Without a
// configured provider the global no-op one is used, so recording is always safe.
package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const scope = "github.com/cottand/gradual"

const (
	OriginsSizeName = "type_and_origins.origins.size"
	DispatchesName  = "types.dispatches"
)

type Instruments struct {
	originsSize metric.Int64Histogram
	dispatches  metric.Int64Counter
}

func New(provider metric.MeterProvider) (*Instruments, error) {
	meter := provider.Meter(scope)
	originsSize, err := meter.Int64Histogram(OriginsSizeName,
		metric.WithDescription("number of origin locations attached to a typed value when it is released"),
	)
	if err != nil {
		return nil, err
	}
	dispatches, err := meter.Int64Counter(DispatchesName,
		metric.WithDescription("method dispatches resolved, by receiver kind"),
	)
	if err != nil {
		return nil, err
	}
	return &Instruments{originsSize: originsSize, dispatches: dispatches}, nil
}

var (
	defaultOnce sync.Once
	defaultInst *Instruments
)

// Default returns instruments bound to the global MeterProvider at the time of the first call
func Default() *Instruments {
	defaultOnce.Do(func() {
		inst, err := New(otel.GetMeterProvider())
		if err != nil {
			otel.Handle(err)
			return
		}
		defaultInst = inst
	})
	return defaultInst
}

func (i *Instruments) RecordOriginsSize(ctx context.Context, size int) {
	if i == nil {
		return
	}
	i.originsSize.Record(ctx, int64(size))
}

func (i *Instruments) RecordDispatch(ctx context.Context, receiverKind string) {
	if i == nil {
		return
	}
	i.dispatches.Add(ctx, 1, metric.WithAttributes(attribute.String("receiver.kind", receiverKind)))
}
