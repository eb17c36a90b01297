// Package progress implements the windowed moving-average progress/ETA
// meter used by package explore to report sampling throughput. Grounded
// directly on _examples/original_source/progress_meter.hpp; its constants
// are carried over verbatim (see SPEC_FULL.md §3).
package progress

import (
	"time"

	"github.com/sirupsen/logrus"
)

const windowSize = 4

// window is a fixed-size ring buffer tracking the last windowSize tick
// speeds and their running sum, matching the original's Window<4, double>.
type window struct {
	data     [windowSize]float64
	writePos int
	sum      float64
}

func (w *window) add(v float64) {
	idx := w.writePos % windowSize
	w.sum -= w.data[idx]
	w.data[idx] = v
	w.sum += w.data[idx]
	w.writePos++
}

func (w *window) clear() {
	*w = window{}
}

func (w *window) full() bool {
	return w.writePos >= windowSize
}

func (w *window) size() int {
	if w.full() {
		return windowSize
	}
	return w.writePos
}

func (w *window) avg() float64 {
	if w.writePos == 0 {
		return 0
	}
	return w.sum / float64(w.size())
}

const (
	reportSec        = 2.0
	refreshSec       = reportSec / 8.0
	warmupIterations = 10
	minGranularity   = 1
	maxDivergence    = 2.0
)

// OutputFunc receives each report tick: fraction complete in [0,1] and the
// estimated seconds remaining.
type OutputFunc func(progress float64, secToFinish float64)

// Meter is a windowed moving-average ETA reporter over a known total tick
// count, adaptive to workload-rate phase changes (see SPEC_FULL.md §4.10).
// Not safe for concurrent use from multiple goroutines without external
// synchronization — the exploration driver advances it from its single
// sampling loop.
type Meter struct {
	numTotal    uint64
	numCurrent  uint64
	nextRefresh uint64

	window window

	hasLast      bool
	lastTick     uint64
	lastClock    time.Time
	warmupCount  int
	reportCumSec float64

	log    *logrus.Entry
	Output OutputFunc
}

// NewMeter builds a Meter over total ticks. If output is nil, progress is
// logged at info level instead.
func NewMeter(total uint64, output OutputFunc) *Meter {
	m := &Meter{numTotal: total, Output: output, log: logrus.WithField("component", "progress")}
	if m.Output == nil {
		m.Output = m.logOutput
	}
	return m
}

func (m *Meter) logOutput(progress, secToFinish float64) {
	m.log.Infof("%d%% done ... %d secs to go", int(progress*100), int(secToFinish))
}

// Tick advances the meter by one unit of work, refreshing the window and
// possibly reporting when the refresh threshold is reached.
func (m *Meter) Tick() {
	m.numCurrent++
	if m.numCurrent >= m.nextRefresh {
		m.refresh()
	}
}

func (m *Meter) refresh() {
	now := time.Now()

	if !m.hasLast {
		m.hasLast = true
		m.nextRefresh = m.numCurrent + minGranularity
		m.lastTick = m.numCurrent
		m.lastClock = now
		return
	}

	warmupMode := m.warmupCount < warmupIterations
	diffSec := now.Sub(m.lastClock).Seconds()
	speed := diffSec / float64(m.numCurrent-m.lastTick)

	m.window.add(speed)
	m.warmupCount++

	todo := float64(m.numTotal - m.numCurrent)
	avg := m.window.avg()

	if !warmupMode && m.window.full() &&
		(speed/maxDivergence > avg || avg > maxDivergence*speed) {
		m.window.clear()
		m.warmupCount = 0
	}

	m.reportCumSec += diffSec
	if m.reportCumSec >= reportSec {
		m.Output(float64(m.numCurrent)/float64(m.numTotal), todo*avg)
		m.reportCumSec = 0
	}

	if warmupMode || avg <= 0 {
		m.nextRefresh = m.numCurrent + minGranularity
	} else {
		m.nextRefresh = m.numCurrent + uint64(refreshSec/avg)
	}

	m.lastTick = m.numCurrent
	m.lastClock = now
}
