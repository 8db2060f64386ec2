// Package quality holds the typed measurement record produced by the
// external quality script, the parser for its fixed-schema stats file, and
// the versioned rules that classify a measurement.
package quality

// QCStats is the fixed set of measurements decoded from one stats file.
// Duration is in hours; every other field is a signal-presence fraction in
// [0, 1].
type QCStats struct {
	// Dur is the collection duration in hours.
	Dur float64

	// Single-channel presence fractions.
	Ch1 float64
	Ch2 float64
	Ch3 float64
	Ch4 float64

	// Cross-channel presence fractions.
	Ch12 float64
	Ch13 float64
	Ch43 float64
	Ch42 float64

	// FAny/FBoth cover the frontal contacts, TAny/TBoth the temporal ones.
	FAny  float64
	FBoth float64
	TAny  float64
	TBoth float64

	// FtAny is the combined frontal/temporal fraction, the primary quality
	// gate.
	FtAny float64

	// EegAny and EegAll cover all contacts together.
	EegAny float64
	EegAll float64
}
