package bench

import (
	"log/slog"
	"time"
)

// LogObserver reports progress through a structured logger. Samples are
// logged at debug level.
type LogObserver struct {
	log *slog.Logger
}

func NewLogObserver(log *slog.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCase(c Case) {
	o.log.Info("case started", "layout", c.Layout, "operation", c.Operation, "count", c.Count)
}

func (o *LogObserver) OnSample(c Case, d time.Duration) {
	o.log.Debug("sample", "case", c.String(), "elapsed", d)
}
