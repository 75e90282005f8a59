// Command tune runs a CMA-ES search over the engine's physics/thermal
// tunables, grounded on cmd/optimize/params.go's ParamSpec/ParamVector
// design but scoped to this engine's config surface.
package main

import (
	"github.com/pthm/sandpit/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the standard set of physics/thermal parameters
// varied for settle-time behaviour. air_lerp_rate and air_conductivity
// are written into the config, but the temperature pass does not read
// them.
func NewParamVector(base *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "air_friction", Min: 0.80, Max: 0.999, Default: base.Physics.AirFriction},
			{Name: "max_velocity", Min: 10, Max: 200, Default: base.Physics.MaxVelocity},
			{Name: "g", Min: 1, Max: 40, Default: base.Physics.G},
			{Name: "air_lerp_rate", Min: 0.01, Max: 0.5, Default: base.Thermal.AirLerpRate},
			{Name: "air_conductivity", Min: 1, Max: 50, Default: float64(base.Thermal.AirConductivity)},
		},
	}
}

func (pv *ParamVector) Dim() int { return len(pv.Specs) }

func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Physics.AirFriction = clamped[0]
	cfg.Physics.MaxVelocity = clamped[1]
	cfg.Physics.G = clamped[2]
	cfg.Thermal.AirLerpRate = clamped[3]
	cfg.Thermal.AirConductivity = int(clamped[4])
}
