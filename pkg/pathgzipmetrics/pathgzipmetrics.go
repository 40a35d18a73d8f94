package pathgzipmetrics

import (
	"fmt"
	"sync/atomic"

	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
)

// Metrics defines the interface for collecting and reporting compression statistics.
type Metrics interface {
	AddFilesCompressed(n int64)
	AddFilesFresh(n int64)
	AddOriginalBytes(n int64)
	AddCompressedBytes(n int64)
	LogSummary(msg string)
}

// GzipMetrics holds the atomic counters for tracking the compression
// operation's progress. It is the concrete implementation of the Metrics interface.
type GzipMetrics struct {
	FilesCompressed atomic.Int64
	FilesFresh      atomic.Int64
	OriginalBytes   atomic.Int64
	CompressedBytes atomic.Int64
}

func (m *GzipMetrics) AddFilesCompressed(n int64) { m.FilesCompressed.Add(n) }
func (m *GzipMetrics) AddFilesFresh(n int64)      { m.FilesFresh.Add(n) }
func (m *GzipMetrics) AddOriginalBytes(n int64)   { m.OriginalBytes.Add(n) }
func (m *GzipMetrics) AddCompressedBytes(n int64) { m.CompressedBytes.Add(n) }

// LogSummary logs the current state of the metrics.
func (m *GzipMetrics) LogSummary(msg string) {
	orig := m.OriginalBytes.Load()
	comp := m.CompressedBytes.Load()

	// Calculate compression ratio (avoid division by zero)
	var ratio float64
	if orig > 0 {
		ratio = float64(comp) / float64(orig) * 100.0
	}

	plog.Info(msg,
		"files_compressed", m.FilesCompressed.Load(),
		"files_fresh", m.FilesFresh.Load(),
		"original_bytes", fmt.Sprintf("%d", orig),
		"compressed_bytes", fmt.Sprintf("%d", comp),
		"ratio_pct", fmt.Sprintf("%.2f%%", ratio),
	)
}

// NoopMetrics is an implementation of the Metrics interface that performs no operations.
// It can be used to disable metrics collection without changing the calling code.
type NoopMetrics struct{}

func (m *NoopMetrics) AddFilesCompressed(n int64) {}
func (m *NoopMetrics) AddFilesFresh(n int64)      {}
func (m *NoopMetrics) AddOriginalBytes(n int64)   {}
func (m *NoopMetrics) AddCompressedBytes(n int64) {}
func (m *NoopMetrics) LogSummary(msg string)      {}

// Statically assert that our types implement the interface.
var _ Metrics = (*GzipMetrics)(nil)
var _ Metrics = (*NoopMetrics)(nil)
