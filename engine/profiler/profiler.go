// Package profiler logs frame rate, draw statistics and memory use at a fixed interval.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// Profiler tracks frame rate, renderer statistics and memory use for performance monitoring.
// Outputs stats through common.Logger at a configurable interval.
type Profiler struct {
	frameCount     int
	drawCalls      int
	triangles      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Report
}

// Report is one interval's summary.
type Report struct {
	// FPS is frames per second over the interval.
	FPS float64
	// DrawCalls is the mean number of draws per frame.
	DrawCalls float64
	// Triangles is the mean number of triangles per frame.
	Triangles float64
	// HeapMB is the live heap size.
	HeapMB float64
	// AllocRateMB is heap allocation in MB per second over the interval.
	AllocRateMB float64
	// GCCount is the total number of completed collections.
	GCCount uint32
	// MaxPauseUs is the longest GC pause in the interval, in microseconds.
	MaxPauseUs uint64
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - interval: how often to log; values <= 0 mean one second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Tick should be called once per rendered frame with that frame's renderer statistics.
// Logs a Report when the update interval has elapsed.
//
// Parameters:
//   - stats: the statistics of the frame just rendered
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats renderer.Stats) bool {
	return p.tick(time.Now(), stats)
}

// Last returns the most recently logged Report.
func (p *Profiler) Last() Report {
	return p.last
}

func (p *Profiler) tick(now time.Time, stats renderer.Stats) bool {
	p.frameCount++
	p.drawCalls += stats.DrawCalls
	p.triangles += stats.Triangles

	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	r := Report{
		FPS:       frames / elapsed.Seconds(),
		DrawCalls: float64(p.drawCalls) / frames,
		Triangles: float64(p.triangles) / frames,
	}

	runtime.ReadMemStats(&p.memStats)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	r.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses.
	r.GCCount = p.memStats.NumGC
	start := p.lastGCCount
	if r.GCCount-start > 256 {
		start = r.GCCount - 256
	}
	for i := start; i < r.GCCount; i++ {
		r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	common.Logger().Info("profiler",
		"fps", r.FPS,
		"drawCalls", r.DrawCalls,
		"triangles", r.Triangles,
		"programSwitches", stats.ProgramSwitches,
		"heapMB", r.HeapMB,
		"allocRateMB", r.AllocRateMB,
		"gc", r.GCCount,
		"maxPauseUs", r.MaxPauseUs,
	)

	p.last = r
	p.frameCount, p.drawCalls, p.triangles = 0, 0, 0
	p.lastTime = now
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
