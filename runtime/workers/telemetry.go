package workers

import (
	"chat-relay/observability"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

const DefaultTelemetryInterval = 5 * time.Second

// StatsSource reports the delivery backlog, see runtime.EventBroker.
type StatsSource interface {
	Stats() runtime.BrokerStats
}

// TelemetryWorker samples the process resources and the broker backlog into the metrics gauges.
type TelemetryWorker struct {
	log      *slog.Logger
	interval time.Duration
	broker   StatsSource
	metrics  *observability.Metrics
	sample   func() (rss uint64, cpu float64, err error)
}

func NewTelemetryWorker(log *slog.Logger, interval time.Duration, broker StatsSource, metrics *observability.Metrics) *TelemetryWorker {
	if interval <= 0 {
		interval = DefaultTelemetryInterval
	}
	return &TelemetryWorker{log: log, interval: interval, broker: broker, metrics: metrics}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	if w.sample == nil {
		p, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			return err
		}
		w.sample = func() (uint64, float64, error) { return selfStats(p) }
	}

	w.log.Info("Starting telemetry worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.collect()
		}
	}
}

func (w *TelemetryWorker) collect() {
	rss, cpu, err := w.sample()
	if err != nil {
		// the broker gauges are still worth updating
		w.log.Warn("Failed to collect process stats", "error", err)
	}
	stats := w.broker.Stats()
	w.metrics.RecordTelemetry(observability.Telemetry{
		RSSBytes:   rss,
		CPUPercent: cpu,
		Backlog:    stats.Backlog,
		Pending:    stats.Pending,
	})
	w.log.Debug("telemetry.sample", "rss", rss, "cpu", cpu, "sessions", stats.Sessions, "backlog", stats.Backlog, "pending", stats.Pending)
}

func selfStats(p *process.Process) (uint64, float64, error) {
	mem, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return mem.RSS, 0, err
	}
	return mem.RSS, cpu, nil
}
