// Package env implements the reinforcement-learning-style episode
// wrapper around a corridor.Corridor/network.Network/assignment.DTA
// stack: reset draws demand and runs a warmup interval, step applies an
// action as config deltas and advances the DNL loop by one interval.
//
// Grounded on spec.md §4.E/§6.
package env

import "github.com/trafficlab/corridordnl/corridor"

// ActionLen and StateLen are the fixed vector lengths spec.md §6 fixes:
// 20 action fields (ramp rates plus every intersection's splits and
// barrier lengths), and 1 + 30 + 20 = 51 state fields (elapsed intervals,
// one density per link, the 20 current config values).
const (
	ActionLen = 20
	numLinks  = 30
	StateLen  = 1 + numLinks + ActionLen
)

// maxIncrement gives the per-unit-action step size for each of the 20
// action-vector slots, in the same order Vectorize/Dictify use: 0.05 per
// unit for a split, 10 timesteps per unit for a barrier length, and
// 25/3600 veh/timestep per unit for a ramp rate. These are fixed
// constants independent of the simulation's timestep duration, matching
// original_source/dta/dta_env.py's `incs = {'split': 0.05, 'barrier':
// 10., 'ramp': 25/3600}` exactly.
//
// Grounded on spec.md §4.E: "per-field maximum increments (split 0.05,
// barrier 10.0 timesteps, ramp 25/3600 veh/timestep per unit action)".
func maxIncrement() [ActionLen]float64 {
	const splitStep = 0.05
	const barrierStep = 10.0
	const rampStep = 25.0 / 3600
	return [ActionLen]float64{
		rampStep, rampStep,
		splitStep, splitStep, splitStep, splitStep, barrierStep, barrierStep,
		splitStep, splitStep, splitStep, splitStep, barrierStep, barrierStep,
		splitStep, barrierStep, barrierStep,
		splitStep, barrierStep, barrierStep,
	}
}

// Vectorize flattens cfg into the fixed 20-element action-vector layout:
// [nbRamp, sbRamp,
//  wx.split00, wx.split01, wx.split10, wx.split11, wx.barrier0, wx.barrier1,
//  ex.split00, ex.split01, ex.split10, ex.split11, ex.barrier0, ex.barrier1,
//  wrx.split00, wrx.barrier0, wrx.barrier1,
//  erx.split01, erx.barrier0, erx.barrier1].
func Vectorize(cfg corridor.Config) [ActionLen]float64 {
	return [ActionLen]float64{
		cfg.NBRamp, cfg.SBRamp,
		cfg.Wx.Split00, cfg.Wx.Split01, cfg.Wx.Split10, cfg.Wx.Split11, cfg.Wx.Barrier0, cfg.Wx.Barrier1,
		cfg.Ex.Split00, cfg.Ex.Split01, cfg.Ex.Split10, cfg.Ex.Split11, cfg.Ex.Barrier0, cfg.Ex.Barrier1,
		cfg.Wrx.Split00, cfg.Wrx.Barrier0, cfg.Wrx.Barrier1,
		cfg.Erx.Split01, cfg.Erx.Barrier0, cfg.Erx.Barrier1,
	}
}

// Dictify is Vectorize's inverse: it rebuilds a Config from a 20-element
// vector in the same layout.
func Dictify(v [ActionLen]float64) corridor.Config {
	return corridor.Config{
		NBRamp: v[0], SBRamp: v[1],
		Wx: corridor.IntersectionConfig{Split00: v[2], Split01: v[3], Split10: v[4], Split11: v[5], Barrier0: v[6], Barrier1: v[7]},
		Ex: corridor.IntersectionConfig{Split00: v[8], Split01: v[9], Split10: v[10], Split11: v[11], Barrier0: v[12], Barrier1: v[13]},
		Wrx: corridor.IntersectionConfig{Split00: v[14], Barrier0: v[15], Barrier1: v[16]},
		Erx: corridor.IntersectionConfig{Split01: v[17], Barrier0: v[18], Barrier1: v[19]},
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// applyAction converts a raw action vector (each component meant to lie
// in [-1, 1]) into config deltas scaled by maxIncrement, adds them to
// cur, and clamps every field to [mins, maxs].
func applyAction(cur corridor.Config, action [ActionLen]float64, mins, maxs corridor.Config) corridor.Config {
	curVec := Vectorize(cur)
	minVec := Vectorize(mins)
	maxVec := Vectorize(maxs)
	inc := maxIncrement()

	var next [ActionLen]float64
	for i := 0; i < ActionLen; i++ {
		next[i] = clamp(curVec[i]+action[i]*inc[i], minVec[i], maxVec[i])
	}
	return Dictify(next)
}
