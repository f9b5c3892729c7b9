package stats

import (
	"errors"
	"math"
)

// DefaultZ approximates a 95% confidence level under a normal approximation.
const DefaultZ = 1.96

var ErrEmptySampleSet = errors.New("sample set is empty")

// Sample is the outcome of one trial.
type Sample struct {
	WallTime float64 `json:"wall_time"`
	Metric   float64 `json:"metric"`
}

// SampleSet holds one Sample per trial, in trial order.
type SampleSet []Sample

func (s SampleSet) WallTimes() []float64 {
	out := make([]float64, len(s))
	for i, smp := range s {
		out[i] = smp.WallTime
	}
	return out
}

func (s SampleSet) Metrics() []float64 {
	out := make([]float64, len(s))
	for i, smp := range s {
		out[i] = smp.Metric
	}
	return out
}

// Centering selects the mean the metric series' deviations are measured from.
type Centering int

const (
	// CenterOwn centres each series on its own arithmetic mean.
	CenterOwn Centering = iota
	// CenterWall centres the metric series on the wall series' mean, as older result files did.
	CenterWall
)

type Options struct {
	Z         float64
	Centering Centering
}

func DefaultOptions() Options {
	return Options{Z: DefaultZ, Centering: CenterOwn}
}

// Result is the reduction of a SampleSet to point and interval estimates.
type Result struct {
	WallMean   float64 `json:"avg_time"`
	WallCI     float64 `json:"avg_time_err"`
	MetricMean float64 `json:"avg_gc_time"`
	MetricCI   float64 `json:"avg_gc_time_err"`
}

func Aggregate(samples SampleSet, opts Options) (Result, error) {
	if len(samples) == 0 {
		return Result{}, ErrEmptySampleSet
	}
	z := opts.Z
	if z <= 0 {
		z = DefaultZ
	}

	wall := samples.WallTimes()
	metric := samples.Metrics()

	wallCenter := ArithmeticMean(wall)
	metricCenter := ArithmeticMean(metric)
	if opts.Centering == CenterWall {
		metricCenter = wallCenter
	}

	n := len(samples)
	return Result{
		WallMean:   GeometricMean(wall),
		WallCI:     HalfWidth(StdDev(wall, wallCenter), n, z),
		MetricMean: GeometricMean(metric),
		MetricCI:   HalfWidth(StdDev(metric, metricCenter), n, z),
	}, nil
}

// GeometricMean returns the n-th root of the product of values; any zero yields 0.
// Identical values return that value unchanged. Logs are summed when the product leaves the
// normal float range.
func GeometricMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if allEqual(values) {
		return values[0]
	}
	n := float64(len(values))
	prod := 1.0
	for _, v := range values {
		if v == 0 {
			return 0
		}
		prod *= v
	}
	if !math.IsInf(prod, 0) && math.Abs(prod) >= minNormal {
		return math.Pow(prod, 1/n)
	}

	var logSum float64
	for _, v := range values {
		logSum += math.Log(v)
	}
	return math.Exp(logSum / n)
}

func ArithmeticMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if allEqual(values) {
		return values[0]
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// smallest positive normal float64
const minNormal = 0x1p-1022

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// StdDev is the population standard deviation of values around center.
func StdDev(values []float64, center float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSquares float64
	for _, v := range values {
		diff := v - center
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

// HalfWidth is the symmetric confidence interval z·σ/√n.
func HalfWidth(stddev float64, n int, z float64) float64 {
	if n <= 0 {
		return 0
	}
	return z * stddev / math.Sqrt(float64(n))
}
