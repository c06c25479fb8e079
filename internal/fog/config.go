package fog

// Grade is the quantized quality of a review outcome.
type Grade string

const (
	GradePoor      Grade = "poor"
	GradeGood      Grade = "good"
	GradeExcellent Grade = "excellent"
)

// Config holds the scheduler's tunable constants. The interval-growth
// multipliers and grade thresholds are configuration, not inferred
// truths: the defaults below follow SM-2 conventions (ease floor 1.3,
// nominal starting ease 2.5) with a quantized three-grade ladder.
type Config struct {
	// ExcellentThreshold and GoodThreshold quantize accuracy into
	// grades: >= ExcellentThreshold is excellent, >= GoodThreshold is
	// good, anything lower is poor.
	ExcellentThreshold float64
	GoodThreshold      float64

	// InitialEase is the ease factor a tile starts with.
	InitialEase float64

	// EaseFloor is the hard minimum for the ease factor; repeated poor
	// grades can never push intervals into runaway shrinkage below it.
	EaseFloor float64

	// EaseGain is added to ease on an excellent grade. A good grade
	// leaves ease unchanged.
	EaseGain float64

	// EasePenalty is subtracted from ease on a poor grade, clamped at
	// EaseFloor.
	EasePenalty float64

	// ExcellentBonus scales interval growth on excellent grades beyond
	// the plain ease multiplication a good grade gets.
	ExcellentBonus float64

	// MinIntervalDays is the reset interval after a poor grade and the
	// floor for any computed interval.
	MinIntervalDays int

	// MaxIntervalDays caps interval growth.
	MaxIntervalDays int

	// GraceMultiplier scales the second, longer threshold: a fogged
	// tile unreviewed for GraceMultiplier times its interval beyond the
	// due date is reclaimed.
	GraceMultiplier float64

	// MaxWriteRetries bounds the optimistic-concurrency retry loop
	// before a conflict surfaces to the caller.
	MaxWriteRetries int
}

// DefaultConfig returns the standard scheduler constants.
func DefaultConfig() Config {
	return Config{
		ExcellentThreshold: 0.9,
		GoodThreshold:      0.6,
		InitialEase:        2.5,
		EaseFloor:          1.3,
		EaseGain:           0.1,
		EasePenalty:        0.2,
		ExcellentBonus:     1.3,
		MinIntervalDays:    1,
		MaxIntervalDays:    365,
		GraceMultiplier:    1.0,
		MaxWriteRetries:    3,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ExcellentThreshold == 0 {
		c.ExcellentThreshold = d.ExcellentThreshold
	}
	if c.GoodThreshold == 0 {
		c.GoodThreshold = d.GoodThreshold
	}
	if c.InitialEase == 0 {
		c.InitialEase = d.InitialEase
	}
	if c.EaseFloor == 0 {
		c.EaseFloor = d.EaseFloor
	}
	if c.EaseGain == 0 {
		c.EaseGain = d.EaseGain
	}
	if c.EasePenalty == 0 {
		c.EasePenalty = d.EasePenalty
	}
	if c.ExcellentBonus == 0 {
		c.ExcellentBonus = d.ExcellentBonus
	}
	if c.MinIntervalDays == 0 {
		c.MinIntervalDays = d.MinIntervalDays
	}
	if c.MaxIntervalDays == 0 {
		c.MaxIntervalDays = d.MaxIntervalDays
	}
	if c.GraceMultiplier == 0 {
		c.GraceMultiplier = d.GraceMultiplier
	}
	if c.MaxWriteRetries == 0 {
		c.MaxWriteRetries = d.MaxWriteRetries
	}
	return c
}

// GradeFor quantizes an accuracy in [0,1] into a grade.
func (c Config) GradeFor(accuracy float64) Grade {
	switch {
	case accuracy >= c.ExcellentThreshold:
		return GradeExcellent
	case accuracy >= c.GoodThreshold:
		return GradeGood
	default:
		return GradePoor
	}
}
