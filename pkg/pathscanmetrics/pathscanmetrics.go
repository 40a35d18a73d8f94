package pathscanmetrics

import (
	"sync/atomic"

	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
)

// Metrics defines the interface for collecting and reporting traversal statistics.
type Metrics interface {
	AddFilesSeen(n int64)
	AddFilesExcluded(n int64)
	AddFilesTooSmall(n int64)
	AddFilesSelected(n int64)
	LogSummary(msg string)
}

// ScanMetrics holds the atomic counters for tracking the traversal's progress.
// It is the concrete implementation of the Metrics interface.
type ScanMetrics struct {
	FilesSeen     atomic.Int64
	FilesExcluded atomic.Int64
	FilesTooSmall atomic.Int64
	FilesSelected atomic.Int64
}

func (m *ScanMetrics) AddFilesSeen(n int64)     { m.FilesSeen.Add(n) }
func (m *ScanMetrics) AddFilesExcluded(n int64) { m.FilesExcluded.Add(n) }
func (m *ScanMetrics) AddFilesTooSmall(n int64) { m.FilesTooSmall.Add(n) }
func (m *ScanMetrics) AddFilesSelected(n int64) { m.FilesSelected.Add(n) }

// LogSummary logs the current state of the metrics.
func (m *ScanMetrics) LogSummary(msg string) {
	plog.Info(msg,
		"files_seen", m.FilesSeen.Load(),
		"files_selected", m.FilesSelected.Load(),
		"files_excluded", m.FilesExcluded.Load(),
		"files_too_small", m.FilesTooSmall.Load(),
	)
}

// NoopMetrics is an implementation of the Metrics interface that performs no operations.
// It can be used to disable metrics collection without changing the calling code.
type NoopMetrics struct{}

func (m *NoopMetrics) AddFilesSeen(n int64)     {}
func (m *NoopMetrics) AddFilesExcluded(n int64) {}
func (m *NoopMetrics) AddFilesTooSmall(n int64) {}
func (m *NoopMetrics) AddFilesSelected(n int64) {}
func (m *NoopMetrics) LogSummary(msg string)    {}

// Statically assert that our types implement the interface.
var _ Metrics = (*ScanMetrics)(nil)
var _ Metrics = (*NoopMetrics)(nil)
