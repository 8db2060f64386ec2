package quality

import "fmt"

// Shared thresholds. Report generation reads the same cutoffs for its
// column semantics, so they must stay named here rather than inlined.
const (
	// GoodNightHours is the minimum duration of a good night of data.
	GoodNightHours = 6.0

	// FtAnyThreshold is the minimum acceptable combined frontal/temporal
	// presence fraction.
	FtAnyThreshold = 0.8
)

// Real-recording cutoffs, in hours. Each policy draws the line between a
// device test and an attempted night differently.
const (
	v1RealCutoffHours       = 1.0 / 6.0 // 10 minutes
	v2TestCutoffHours       = 0.5       // 30 minutes
	combinedRealCutoffHours = 1.0
)

// Policy selects which rule set classifies a measurement. The chosen policy
// is configuration, not wiring: all variants stay available and the version
// tag is persisted with every result.
type Policy int

const (
	// PolicyV1 treats recordings longer than 10 minutes as real nights and
	// flags duration and quality problems independently.
	PolicyV1 Policy = iota + 1

	// PolicyV2 gates both problem flags on an is-test check at 30 minutes.
	// The gate's naming is inverted relative to PolicyV1's actual-night
	// check; the observed behavior is preserved as-is.
	PolicyV2

	// PolicyCombined uses a 1-hour real-night cutoff and one combined
	// problem condition split back across the two flags.
	PolicyCombined
)

// ParsePolicy maps a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "v1", "":
		return PolicyV1, nil
	case "v2":
		return PolicyV2, nil
	case "combined":
		return PolicyCombined, nil
	default:
		return 0, fmt.Errorf("unknown decision policy %q", s)
	}
}

// Version returns the integer tag persisted alongside results produced
// under this policy.
func (p Policy) Version() int {
	return int(p)
}

func (p Policy) String() string {
	switch p {
	case PolicyV1:
		return "v1"
	case PolicyV2:
		return "v2"
	case PolicyCombined:
		return "combined"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Classification is the immutable outcome of classifying one measurement.
type Classification struct {
	IsTest          bool
	DurationProblem bool
	QualityProblem  bool
	Version         int
}

// HasProblem reports whether either problem flag is set.
func (c Classification) HasProblem() bool {
	return c.DurationProblem || c.QualityProblem
}

// Classify evaluates stats under the given policy. It is a pure function:
// the same stats and policy always yield the same result.
func Classify(p Policy, stats *QCStats) Classification {
	switch p {
	case PolicyV2:
		isTest := stats.Dur < v2TestCutoffHours
		return Classification{
			IsTest:          isTest,
			DurationProblem: isTest && stats.Dur < GoodNightHours,
			QualityProblem:  isTest && stats.FtAny < FtAnyThreshold,
			Version:         p.Version(),
		}
	case PolicyCombined:
		real := stats.Dur > combinedRealCutoffHours
		return Classification{
			IsTest:          !real,
			DurationProblem: real && stats.Dur < GoodNightHours,
			QualityProblem:  real && stats.FtAny < FtAnyThreshold,
			Version:         p.Version(),
		}
	default:
		real := stats.Dur > v1RealCutoffHours
		return Classification{
			IsTest:          !real,
			DurationProblem: real && stats.Dur < GoodNightHours,
			QualityProblem:  real && stats.FtAny < FtAnyThreshold,
			Version:         PolicyV1.Version(),
		}
	}
}
