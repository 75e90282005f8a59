package main

import (
	"math"
	"sync"

	"github.com/pthm/sandpit/config"
	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/sim"
)

// maxSettleTicks caps a single evaluation run so a pathological
// parameter choice (e.g. near-zero friction) can't hang the search.
const maxSettleTicks = 6000

// settledChunkRatio is the fraction of chunks that may still be active
// when a run counts as settled.
const settledChunkRatio = 0.02

// FitnessEvaluator runs headless simulations and scores a parameter
// vector by how quickly a standard sand-into-water drop settles,
// grounded on cmd/optimize/fitness.go's Evaluate/runSimulation split.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	seeds      []int64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{params: params, baseConfig: baseCfg, seeds: seeds}
}

// Evaluate computes fitness for a parameter vector (lower = better):
// the average settle tick across all seeds, plus a penalty for runs
// that never settle.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		total += r
	}
	return total / float64(len(results))
}

// runSimulation drops a sand column and a water pool into a fresh
// world built from x, then returns the tick at which the chunk grid
// settles (or maxSettleTicks plus a penalty if it never does).
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.World.Seed = seed

	world, err := sim.New(cfg)
	if err != nil {
		return math.Inf(1)
	}

	w, h := world.Width(), world.Height()
	world.AddParticlesInRadius(w/4, h/6, 12, content.IDSand, 0.9)
	world.AddParticlesInRadius(3*w/4, h/6, 12, content.IDSand, 0.9)
	for y := h / 2; y < h/2+20; y++ {
		for xx := w/3; xx < 2*w/3; xx++ {
			world.AddParticle(xx, y, content.IDWater)
		}
	}

	total := world.TotalChunks()
	threshold := int(float64(total) * settledChunkRatio)
	if threshold < 1 {
		threshold = 1
	}

	for tick := 0; tick < maxSettleTicks; tick++ {
		world.Step()
		if world.ActiveChunks() <= threshold {
			return float64(tick)
		}
	}

	// Penalize runs that never settle so they're always worse than any
	// run that did, proportional to how far from idle it still is.
	overshoot := float64(world.ActiveChunks()-threshold) / float64(total)
	return float64(maxSettleTicks) * (1.0 + overshoot)
}

// copyConfig creates a fresh base config, independent of cfg mutation
// performed by ApplyToConfig during concurrent evaluation.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")
	cfg.World = fe.baseConfig.World
	cfg.Chunk = fe.baseConfig.Chunk
	cfg.Parallel = fe.baseConfig.Parallel
	cfg.Telemetry = fe.baseConfig.Telemetry
	return cfg
}
