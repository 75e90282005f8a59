package sim

import (
	"log/slog"
	"time"
)

// Frame pipeline phase names, supplementing §9's "encapsulate perf
// counters in a per-step snapshot struct" note with the concrete phases
// of the §4.9 pipeline.
const (
	PhaseRigidRasterise = "rigid_rasterise"
	PhasePhysics        = "physics"
	PhaseBehaviour      = "behaviour"
	PhaseMoveReplay     = "move_replay"
	PhaseTemperature    = "temperature"
)

// PerfSample is one frame's timing breakdown.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector is a rolling window of per-step timings, grounded on
// telemetry/perf.go's PerfCollector.
type PerfCollector struct {
	windowSize int
	samples    []PerfSample
	writeIndex int
	sampleCount int

	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector allocates a collector with the given rolling window.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize <= 0 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
	}
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration, 5)
	p.lastPhase = ""
}

// StartPhase closes out the previous phase (if any) and begins timing
// the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick closes out the final phase and records the sample into the
// rolling window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats is the aggregated view over the rolling window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	PhaseAvg        map[string]time.Duration
	PhasePct        map[string]float64
	TicksPerSecond  float64
}

// Stats computes the current window's aggregate statistics.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	stats.MinTickDuration = time.Duration(1<<63 - 1)
	phaseTotal := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TickDuration
		if s.TickDuration < stats.MinTickDuration {
			stats.MinTickDuration = s.TickDuration
		}
		if s.TickDuration > stats.MaxTickDuration {
			stats.MaxTickDuration = s.TickDuration
		}
		for phase, d := range s.Phases {
			phaseTotal[phase] += d
		}
	}

	stats.AvgTickDuration = total / time.Duration(p.sampleCount)
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	for phase, sum := range phaseTotal {
		avg := sum / time.Duration(p.sampleCount)
		stats.PhaseAvg[phase] = avg
		if total > 0 {
			stats.PhasePct[phase] = float64(sum) / float64(total) * 100
		}
	}
	return stats
}

// LogValue implements slog.LogValuer so a structured logger emits the
// perf snapshot as a nested object instead of a flattened string.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Duration("avg_tick", s.AvgTickDuration),
		slog.Duration("min_tick", s.MinTickDuration),
		slog.Duration("max_tick", s.MaxTickDuration),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// LogStats writes the current window's stats to the default slog
// logger at Info level.
func (p *PerfCollector) LogStats() {
	slog.Info("perf", "stats", p.Stats())
}
