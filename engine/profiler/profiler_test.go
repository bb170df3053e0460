package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-fractal/engine/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	logger.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer logger.SetLogger(nil)

	p := NewProfiler(time.Second)
	start := p.lastTime

	for i := range 3 {
		p.RecordUpdate(2 * time.Millisecond)
		p.RecordDraws(4, 1, 156)
		require.False(t, p.tickAt(start.Add(time.Duration(i+1)*100*time.Millisecond)))
	}
	p.RecordUpdate(6 * time.Millisecond)
	p.RecordDraws(4, 1, 156)
	require.True(t, p.tickAt(start.Add(2*time.Second)))

	r, ok := p.Last()
	require.True(t, ok)
	assert.InDelta(t, 2.0, r.FPS, 1e-9)
	assert.Equal(t, 3*time.Millisecond, r.AvgUpdate)
	assert.InDelta(t, 4.0, r.AvgDraws, 1e-9)
	assert.InDelta(t, 1.0, r.AvgCulled, 1e-9)
	assert.InDelta(t, 156.0, r.AvgInstances, 1e-9)
	assert.Contains(t, buf.String(), "[Profiler] FPS: 2.00")
}

func TestTickResetsInterval(t *testing.T) {
	p := NewProfiler(time.Second)
	start := p.lastTime
	p.RecordDraws(10, 0, 10)
	require.True(t, p.tickAt(start.Add(time.Second)))

	require.False(t, p.tickAt(start.Add(1500*time.Millisecond)))
	require.True(t, p.tickAt(start.Add(2*time.Second)))

	r, _ := p.Last()
	assert.InDelta(t, 2.0, r.FPS, 1e-9)
	assert.Zero(t, r.AvgDraws)
}

func TestNoReportBeforeFirstInterval(t *testing.T) {
	p := NewProfiler(0)
	assert.Equal(t, time.Second, p.updateInterval)
	_, ok := p.Last()
	assert.False(t, ok)
}
