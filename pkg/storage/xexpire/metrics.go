package xexpire

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	instrumentationName = "github.com/omeyang/xexpire/xexpire"

	metricEntryAdded   = "xexpire.entry.added"
	metricEntryRemoved = "xexpire.entry.removed"
	metricEntryExpired = "xexpire.entry.expired"
	metricTimerStale   = "xexpire.timer.stale"
	metricEntryCount   = "xexpire.entry.count"
)

// setMetrics 持有一个 Set 的 OTel 指标，所有记录都带 set=<name> 属性。
type setMetrics struct {
	attrs   metric.MeasurementOption
	added   metric.Int64Counter
	removed metric.Int64Counter
	expired metric.Int64Counter
	stale   metric.Int64Counter
	reg     metric.Registration
}

func newSetMetrics(mp metric.MeterProvider, name string, size func() int64) (*setMetrics, error) {
	meter := mp.Meter(instrumentationName)
	m := &setMetrics{
		attrs: metric.WithAttributeSet(attribute.NewSet(attribute.String("set", name))),
	}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.added, metricEntryAdded, "entries added"},
		{&m.removed, metricEntryRemoved, "entries removed explicitly"},
		{&m.expired, metricEntryExpired, "entries evicted by their timer"},
		{&m.stale, metricTimerStale, "timer firings dropped as stale"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name,
			metric.WithDescription(c.desc),
			metric.WithUnit("{entry}"),
		)
		if err != nil {
			return nil, fmt.Errorf("xexpire: create counter %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	count, err := meter.Int64ObservableGauge(metricEntryCount,
		metric.WithDescription("current number of entries"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("xexpire: create gauge %s: %w", metricEntryCount, err)
	}
	m.reg, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(count, size(), m.attrs)
		return nil
	}, count)
	if err != nil {
		return nil, fmt.Errorf("xexpire: register gauge callback: %w", err)
	}
	return m, nil
}

func (m *setMetrics) recordAdded() {
	m.added.Add(context.Background(), 1, m.attrs)
}

func (m *setMetrics) recordRemoved(n int64) {
	if n > 0 {
		m.removed.Add(context.Background(), n, m.attrs)
	}
}

func (m *setMetrics) recordExpired() {
	m.expired.Add(context.Background(), 1, m.attrs)
}

func (m *setMetrics) recordStale() {
	m.stale.Add(context.Background(), 1, m.attrs)
}

func (m *setMetrics) close() error {
	if m.reg == nil {
		return nil
	}
	return m.reg.Unregister()
}
