package profiler

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-fractal/engine/logger"
)

// Report is the summary of one reporting interval.
type Report struct {
	FPS float64
	// AvgUpdate is the mean time spent updating fractals per frame.
	AvgUpdate time.Duration
	// AvgDraws, AvgCulled and AvgInstances are per-frame means of the renderer counters.
	AvgDraws     float64
	AvgCulled    float64
	AvgInstances float64

	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// String formats the report as a single log line.
func (r Report) String() string {
	return fmt.Sprintf("[Profiler] FPS: %.2f | Update: %s | Draws: %.1f (culled %.1f, instances %.0f) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		r.FPS, r.AvgUpdate, r.AvgDraws, r.AvgCulled, r.AvgInstances,
		r.HeapMB, r.AllocRateMB, r.GCCount, r.LastPauseUs, r.MaxPauseUs, r.SysMB)
}

// Profiler tracks frame rate, fractal update time, draw counters and memory statistics.
// It is not safe for concurrent use; the render loop owns it.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	updateTotal    time.Duration
	drawTotal      int
	culledTotal    int
	instancesTotal int

	last    Report
	hasLast bool
}

// NewProfiler creates a new Profiler reporting once per interval.
//
// Parameters:
//   - interval: the reporting interval; values <= 0 select one second
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

// RecordUpdate adds the time one frame spent in fractal updates.
//
// Parameters:
//   - d: the update duration
func (p *Profiler) RecordUpdate(d time.Duration) {
	p.updateTotal += d
}

// RecordDraws adds one frame's renderer counters.
//
// Parameters:
//   - draws: draws issued
//   - culled: draws rejected by the frustum
//   - instances: instances drawn
func (p *Profiler) RecordDraws(draws, culled, instances int) {
	p.drawTotal += draws
	p.culledTotal += culled
	p.instancesTotal += instances
}

// Tick should be called once per frame. When the interval has elapsed it logs a Report and
// starts a new interval.
//
// Returns:
//   - bool: true if a report was logged this tick
func (p *Profiler) Tick() bool {
	return p.tickAt(time.Now())
}

// Last returns the most recent report.
//
// Returns:
//   - Report: the last report
//   - bool: false if no interval has completed yet
func (p *Profiler) Last() (Report, bool) {
	return p.last, p.hasLast
}

func (p *Profiler) tickAt(now time.Time) bool {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	r := Report{
		FPS:          frames / elapsed.Seconds(),
		AvgUpdate:    p.updateTotal / time.Duration(p.frameCount),
		AvgDraws:     float64(p.drawTotal) / frames,
		AvgCulled:    float64(p.culledTotal) / frames,
		AvgInstances: float64(p.instancesTotal) / frames,
	}

	runtime.ReadMemStats(&p.memStats)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	r.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	r.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	r.GCCount = p.memStats.NumGC
	if r.GCCount > 0 {
		r.LastPauseUs = p.memStats.PauseNs[(r.GCCount-1)%256] / 1000
		start := p.lastGCCount
		if r.GCCount-start > 256 {
			start = r.GCCount - 256
		}
		for i := start; i < r.GCCount; i++ {
			r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	logger.Logger().Info(r.String())

	p.last, p.hasLast = r, true
	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.updateTotal = 0
	p.drawTotal, p.culledTotal, p.instancesTotal = 0, 0, 0
	return true
}
