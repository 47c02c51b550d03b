package corridor

import "math"

// IntersectionConfig holds the subset of a signalized intersection's ring
// splits and barrier durations that are externally configurable. Not
// every intersection uses every field (erx/wrx only ever set one split
// each); unused fields are simply ignored by ApplyConfig.
//
// Grounded on original_source/initConfig.py.
type IntersectionConfig struct {
	Split00, Split01, Split10, Split11 float64
	Barrier0, Barrier1                 float64 // timesteps
}

// Config is the externally supplied record of ramp-meter rates and
// intersection splits/barrier-lengths, already expressed in the internal
// veh/timestep and timestep units (the conversion from hourly volumes and
// seconds happens once, at construction, exactly as
// original_source/initConfig.py: getInitConfig does).
type Config struct {
	NBRamp float64 // veh/timestep
	SBRamp float64 // veh/timestep

	Wx  IntersectionConfig
	Ex  IntersectionConfig
	Wrx IntersectionConfig
	Erx IntersectionConfig
}

// DefaultConfig reproduces original_source/initConfig.py: getInitConfig's
// fixed starting point, converting its hourly/second-denominated constants
// into the internal per-timestep units for the given timestep duration in
// seconds.
func DefaultConfig(timestep float64) Config {
	return Config{
		NBRamp: 300 * timestep / 3600,
		SBRamp: 400 * timestep / 3600,
		Wx: IntersectionConfig{
			Split00: 0.3, Split01: 0.5, Split10: 0.7, Split11: 0.9,
			Barrier0: 60 / timestep, Barrier1: 30 / timestep,
		},
		Ex: IntersectionConfig{
			Split00: 0.8, Split01: 0.6, Split10: 0.4, Split11: 0.2,
			Barrier0: 50 / timestep, Barrier1: 40 / timestep,
		},
		Wrx: IntersectionConfig{
			Split00:  0.6,
			Barrier0: 40 / timestep, Barrier1: 40 / timestep,
		},
		Erx: IntersectionConfig{
			Split01:  0.4,
			Barrier0: 50 / timestep, Barrier1: 50 / timestep,
		},
	}
}

func roundToInt(x float64) int {
	return int(math.Round(x))
}

// ApplyConfig pushes every field of cfg into the corridor's configurable
// nodes. erx and wrx only ever receive their one externally-driven split
// (split01 and split00 respectively); their other rings are fixed at
// construction time (see Build).
func (c *Corridor) ApplyConfig(cfg Config) {
	c.RampNB.SetParams(cfg.NBRamp)
	c.RampSB.SetParams(cfg.SBRamp)

	c.Wx.SetSplit(0, 0, cfg.Wx.Split00)
	c.Wx.SetSplit(0, 1, cfg.Wx.Split01)
	c.Wx.SetSplit(1, 0, cfg.Wx.Split10)
	c.Wx.SetSplit(1, 1, cfg.Wx.Split11)
	c.Wx.SetBarrierLength(0, roundToInt(cfg.Wx.Barrier0))
	c.Wx.SetBarrierLength(1, roundToInt(cfg.Wx.Barrier1))

	c.Ex.SetSplit(0, 0, cfg.Ex.Split00)
	c.Ex.SetSplit(0, 1, cfg.Ex.Split01)
	c.Ex.SetSplit(1, 0, cfg.Ex.Split10)
	c.Ex.SetSplit(1, 1, cfg.Ex.Split11)
	c.Ex.SetBarrierLength(0, roundToInt(cfg.Ex.Barrier0))
	c.Ex.SetBarrierLength(1, roundToInt(cfg.Ex.Barrier1))

	c.Wrx.SetSplit(0, 0, cfg.Wrx.Split00)
	c.Wrx.SetBarrierLength(0, roundToInt(cfg.Wrx.Barrier0))
	c.Wrx.SetBarrierLength(1, roundToInt(cfg.Wrx.Barrier1))

	c.Erx.SetSplit(0, 1, cfg.Erx.Split01)
	c.Erx.SetBarrierLength(0, roundToInt(cfg.Erx.Barrier0))
	c.Erx.SetBarrierLength(1, roundToInt(cfg.Erx.Barrier1))
}

// minBarrierSeconds and maxBarrierSeconds bound how short or long any
// ring's barrier may be driven by an action; 10s is short enough to
// still clear a single vehicle queue, 180s is a generous upper bound for
// an isolated intersection's cycle half.
const (
	minBarrierSeconds = 10
	maxBarrierSeconds = 180
)

// maxRampVehPerHour caps a commanded ramp-meter rate at the downstream
// ramp link's own capacity: metering faster than the link can carry is
// meaningless.
const maxRampVehPerHour = 1600

// Constraints returns the per-field (min, max) bounds every Config value
// must be clamped to, in the same internal units ApplyConfig expects.
//
// Grounded on spec.md §6: Network.constraints().
func (c *Corridor) Constraints(timestep float64) (Config, Config) {
	fullIntersection := IntersectionConfig{
		Split00: 0, Split01: 0, Split10: 0, Split11: 0,
		Barrier0: minBarrierSeconds / timestep, Barrier1: minBarrierSeconds / timestep,
	}
	maxIntersection := IntersectionConfig{
		Split00: 1, Split01: 1, Split10: 1, Split11: 1,
		Barrier0: maxBarrierSeconds / timestep, Barrier1: maxBarrierSeconds / timestep,
	}
	mins := Config{NBRamp: 0, SBRamp: 0, Wx: fullIntersection, Ex: fullIntersection, Wrx: fullIntersection, Erx: fullIntersection}
	maxs := Config{
		NBRamp: maxRampVehPerHour * timestep / 3600,
		SBRamp: maxRampVehPerHour * timestep / 3600,
		Wx:     maxIntersection, Ex: maxIntersection, Wrx: maxIntersection, Erx: maxIntersection,
	}
	return mins, maxs
}
