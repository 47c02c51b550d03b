package env

import (
	"math/rand"

	"github.com/trafficlab/corridordnl/assignment"
	"github.com/trafficlab/corridordnl/corridor"
	"github.com/trafficlab/corridordnl/network"
)

// defaultRNGSeed mirrors tsp/rng.go's zero-seed policy: seed 0 maps to a
// fixed, arbitrary-but-stable nonzero seed so Reset(0) is still
// deterministic rather than accidentally time-seeded.
const defaultRNGSeed int64 = 1

// maxPathHops bounds path enumeration so a corridor with any accidental
// cycles cannot blow up Reset; the real corridor's longest simple route
// between any origin and destination is well under this.
const maxPathHops = 12

// Env is the episode-driving wrapper around a corridor.Corridor and its
// network.Network: Reset draws demand and runs a warmup interval, Step
// applies an action as config deltas and advances the DNL loop by one
// interval, returning that interval's reward as TFFT-TSTT.
//
// Grounded on spec.md §4.E/§6: Env.
type Env struct {
	Timestep     float64
	Interval     int
	NumIntervals int
	Warmup       int

	Corridor *corridor.Corridor
	Net      *network.Network
	Config   corridor.Config

	horizon         int
	curTime         int
	elapsedInterval int
}

// NewEnv builds an Env over a freshly constructed corridor at the given
// timestep (seconds), with the given interval/numIntervals/warmup episode
// shape (all in timesteps).
func NewEnv(timestep float64, interval, numIntervals, warmup int) (*Env, error) {
	cfg := corridor.DefaultConfig(timestep)
	c, err := corridor.Build(timestep, cfg)
	if err != nil {
		return nil, err
	}
	return &Env{
		Timestep:     timestep,
		Interval:     interval,
		NumIntervals: numIntervals,
		Warmup:       warmup,
		Corridor:     c,
		Config:       cfg,
	}, nil
}

func rangeInts(start, end int) []int {
	if end < start {
		end = start
	}
	r := make([]int, end-start)
	for i := range r {
		r[i] = start + i
	}
	return r
}

// Reset draws fresh Poisson demand from seed, rebuilds the OD/path
// table, runs the all-or-nothing initial path-flow assignment, clears
// all link/meter state, and loads the warmup interval, returning the
// resulting state vector.
//
// Grounded on spec.md §4.E: reset(seed).
func (e *Env) Reset(seed int64) [StateLen]float64 {
	s := seed
	if s == 0 {
		s = defaultRNGSeed
	}
	rng := rand.New(rand.NewSource(s))

	e.Corridor.ApplyConfig(e.Config)
	e.horizon = e.Warmup + e.Interval*e.NumIntervals

	var ods []network.OD
	for _, vol := range corridor.Volumes() {
		ods = append(ods, network.NewStochasticOD(vol.Label, vol.Origin, vol.Destination, vol.HourlyVeh, e.Timestep, e.horizon, rng))
	}
	e.Net = network.New(e.Corridor, ods)

	for i := range e.Net.ODs {
		od := &e.Net.ODs[i]
		od.Paths = assignment.EnumerateSimplePaths(e.Corridor, od.Origin, od.Destination, maxPathHops)
		e.Net.RegisterPaths(od.Paths)
	}
	assignment.InitializePathFlows(e.Net, e.horizon)

	e.Net.Reset()
	warmupRange := rangeInts(0, e.Warmup)
	e.Net.LoadNetwork(warmupRange)
	e.Net.CalculateLinkTravelTimes(warmupRange, e.horizon, 1e-5)

	e.curTime = e.Warmup
	e.elapsedInterval = 0

	return e.state()
}

// Step applies action (a 20-element vector per ActionLen, or nil to
// leave config unchanged) as config deltas, advances the DNL loop by one
// interval, and returns the new state, the step's reward (TFFT-TSTT),
// and whether the episode has ended.
//
// Grounded on spec.md §4.E: step(action).
func (e *Env) Step(action []float64) ([StateLen]float64, float64, bool) {
	if action != nil {
		var a [ActionLen]float64
		copy(a[:], action)
		mins, maxs := e.Corridor.Constraints(e.Timestep)
		e.Config = applyAction(e.Config, a, mins, maxs)
		e.Corridor.ApplyConfig(e.Config)
	}

	stepRange := rangeInts(e.curTime, e.curTime+e.Interval)
	e.Net.LoadNetwork(stepRange)
	e.Net.CalculateLinkTravelTimes(stepRange, e.horizon, 1e-5)

	tstt := e.Net.TSTT(stepRange)
	tfft := e.Net.TFFT(stepRange)
	reward := tfft - tstt

	e.curTime += e.Interval
	e.elapsedInterval++
	done := e.elapsedInterval == e.NumIntervals

	return e.state(), reward, done
}

// RandomAction draws a uniform-on-[-1,1]^20 action using rng, which the
// caller owns and seeds (no package-global RNG is used).
func (e *Env) RandomAction(rng *rand.Rand) [ActionLen]float64 {
	var a [ActionLen]float64
	for i := range a {
		a[i] = rng.Float64()*2 - 1
	}
	return a
}

// Constraints returns the per-slot (min, max) bounds every config value
// is clamped to, flattened into the same 20-element layout Vectorize
// uses.
func (e *Env) Constraints() ([ActionLen]float64, [ActionLen]float64) {
	mins, maxs := e.Corridor.Constraints(e.Timestep)
	return Vectorize(mins), Vectorize(maxs)
}

// state assembles the fixed 51-element state vector: elapsed intervals,
// every link's density at the current time, then the 20 current config
// values.
func (e *Env) state() [StateLen]float64 {
	var s [StateLen]float64
	s[0] = float64(e.elapsedInterval)
	for i, l := range e.Corridor.Links {
		s[1+i] = l.Density(e.curTime)
	}
	cfgVec := Vectorize(e.Config)
	copy(s[1+len(e.Corridor.Links):], cfgVec[:])
	return s
}
