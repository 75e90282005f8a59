// Package telemetry writes rolling-window performance snapshots to a
// CSV file for offline analysis, grounded on the teacher's
// telemetry/output.go.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm/sandpit/sim"
)

// PerfStatsCSV is a flat, CSV-friendly projection of sim.PerfStats,
// grounded on telemetry/perf.go's PerfStatsCSV, with the phase columns
// replaced by this engine's five frame-pipeline phases.
type PerfStatsCSV struct {
	WindowEnd       int64   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	RigidPct        float64 `csv:"rigid_rasterise_pct"`
	PhysicsPct      float64 `csv:"physics_pct"`
	BehaviourPct    float64 `csv:"behaviour_pct"`
	MoveReplayPct   float64 `csv:"move_replay_pct"`
	TemperaturePct  float64 `csv:"temperature_pct"`
}

// ToCSV flattens a PerfStats snapshot for CSV export, tagging it with
// windowEnd (the frame number the window closed at).
func ToCSV(s sim.PerfStats, windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		RigidPct:       s.PhasePct[sim.PhaseRigidRasterise],
		PhysicsPct:     s.PhasePct[sim.PhasePhysics],
		BehaviourPct:   s.PhasePct[sim.PhaseBehaviour],
		MoveReplayPct:  s.PhasePct[sim.PhaseMoveReplay],
		TemperaturePct: s.PhasePct[sim.PhaseTemperature],
	}
}

// PerfWriter appends perf snapshots to a perf.csv file under dir,
// grounded on OutputManager's perfFile handling but scoped to just the
// one stream this engine's telemetry config exposes.
type PerfWriter struct {
	file          *os.File
	headerWritten bool
}

// NewPerfWriter creates perf.csv under dir. Returns nil, nil if dir is
// empty (CSV export disabled).
func NewPerfWriter(dir string) (*PerfWriter, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	return &PerfWriter{file: f}, nil
}

// Write appends one perf snapshot row.
func (w *PerfWriter) Write(s sim.PerfStats, windowEnd int64) error {
	if w == nil {
		return nil
	}
	records := []PerfStatsCSV{ToCSV(s, windowEnd)}
	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing perf row: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("writing perf row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *PerfWriter) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	return w.file.Close()
}
