package main

// ParamSpec describes one optimizable scalar: its bounds and the
// default value CMA-ES starts its search from.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector is the fixed set of character multipliers tunefit
// searches over: acceleration, top speed, jump power and gravity, the
// same four knobs config.CharacterMultipliers exposes.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the standard multiplier search space.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "acc_mul", Min: 0.5, Max: 2.0, Default: 1.0},
			{Name: "top_speed_mul", Min: 0.5, Max: 2.0, Default: 1.0},
			{Name: "jmp_mul", Min: 0.5, Max: 1.5, Default: 1.0},
			{Name: "grv_mul", Min: 0.5, Max: 1.5, Default: 1.0},
		},
	}
}

func (p *ParamVector) Dim() int { return len(p.Specs) }

// DefaultVector returns each spec's default value.
func (p *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(p.Specs))
	for i, s := range p.Specs {
		v[i] = s.Default
	}
	return v
}

// Normalize maps raw values into [0,1] per spec bounds, the space
// CMA-ES actually searches, so every dimension has comparable scale.
func (p *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, s := range p.Specs {
		out[i] = (raw[i] - s.Min) / (s.Max - s.Min)
	}
	return out
}

// Denormalize is Normalize's inverse.
func (p *ParamVector) Denormalize(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, s := range p.Specs {
		out[i] = s.Min + x[i]*(s.Max-s.Min)
	}
	return out
}

// Clamp clips raw values back into each spec's bounds, guarding against
// the optimizer stepping outside them between evaluations.
func (p *ParamVector) Clamp(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, s := range p.Specs {
		v := raw[i]
		if v < s.Min {
			v = s.Min
		}
		if v > s.Max {
			v = s.Max
		}
		out[i] = v
	}
	return out
}

// toMultipliers splits a denormalized parameter vector into the acc,
// top-speed, jmp and grv multipliers, in Specs order.
func (p *ParamVector) toMultipliers(raw []float64) (acc, topSpeed, jmp, grv float64) {
	return raw[0], raw[1], raw[2], raw[3]
}
