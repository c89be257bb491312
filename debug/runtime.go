package debug

// Runtime stats logger. Started only when config.Debug is true.
// Emits goroutine count and heap/stack usage at a fixed interval so leaked
// workers or photo buffers show up in the log.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// StartRuntimeLogger logs runtime stats every interval until ctx is done.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		return
	}
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logStats(logger)
			}
		}
	}()
}

// Snapshot is one reading of the sampled runtime values.
type Snapshot struct {
	Goroutines uint64
	HeapAlloc  uint64
	StackInuse uint64
	StackSys   uint64
	NumGC      uint32
}

// Read samples the runtime.
func Read() Snapshot {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := Snapshot{
		HeapAlloc:  ms.HeapAlloc,
		StackInuse: ms.StackInuse,
		StackSys:   ms.StackSys,
		NumGC:      ms.NumGC,
	}
	if samples[0].Value.Kind() == metrics.KindUint64 {
		s.Goroutines = samples[0].Value.Uint64()
	}
	return s
}

func logStats(logger *slog.Logger) {
	s := Read()
	logger.Info("runtime-stats",
		slog.Uint64("goroutines", s.Goroutines),
		slog.Uint64("heap_alloc", s.HeapAlloc),
		slog.Uint64("stack_inuse", s.StackInuse),
		slog.Uint64("stack_sys", s.StackSys),
		slog.Uint64("num_gc", uint64(s.NumGC)),
	)
}
