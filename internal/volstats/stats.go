// Package volstats turns a population of per-object volumes into descriptive
// statistics: spread, a percentile table and natural-gap breakpoints. It is a
// pure function of its inputs; nothing is cached between calls because the
// scene may change underneath.
package volstats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"smole/internal/measure"
	"smole/internal/scene"
)

// DefaultPercentiles is the percentile table computed by Analyze.
var DefaultPercentiles = []int{10, 20, 25, 50, 75, 80, 90}

const (
	// DefaultMinGapRatio is the minimum ratio between consecutive sorted
	// volumes for the jump to count as a natural gap.
	DefaultMinGapRatio = 3.0
	// DefaultMaxGaps caps how many gaps are reported, largest ratio first.
	DefaultMaxGaps = 5
)

// Entry is one (object, volume) pair in a sorted population.
type Entry struct {
	ID     string  `json:"id"`
	Volume float64 `json:"volume"`
}

// Population is the valid measurement set, sorted ascending by volume.
// All volumes are > 0 and IDs are unique.
type Population []Entry

// Volumes extracts the volume values in sorted order.
func (p Population) Volumes() []float64 {
	out := make([]float64, len(p))
	for i, e := range p {
		out[i] = e.Volume
	}
	return out
}

// Invalid records one object that failed measurement.
type Invalid struct {
	ID     string            `json:"id"`
	Kind   measure.ErrorKind `json:"kind"`
	Reason string            `json:"reason"`
}

// Gap is a natural breakpoint in the size distribution: a threshold at the
// geometric mean of a large multiplicative jump, weighted by the jump ratio.
type Gap struct {
	Threshold float64 `json:"threshold"`
	Ratio     float64 `json:"ratio"`
}

// Statistics is an immutable snapshot over a Population.
//
// StdDev is the population standard deviation (divide by N, not N-1): the
// scene is the entire population of interest, not a sample of a larger one.
type Statistics struct {
	Count       int             `json:"count"`
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Mean        float64         `json:"mean"`
	Median      float64         `json:"median"`
	StdDev      float64         `json:"std_dev"`
	Percentiles map[int]float64 `json:"percentiles"`
	Gaps        []Gap           `json:"gaps"`
	NoData      bool            `json:"no_data"`
}

// Options tunes an analysis. Zero values select the defaults.
type Options struct {
	Percentiles []int
	MinGapRatio float64
	MaxGaps     int
}

func (o Options) withDefaults() Options {
	if o.Percentiles == nil {
		o.Percentiles = DefaultPercentiles
	}
	if o.MinGapRatio == 0 {
		o.MinGapRatio = DefaultMinGapRatio
	}
	if o.MaxGaps == 0 {
		o.MaxGaps = DefaultMaxGaps
	}
	return o
}

// Analyze measures every mesh object and computes statistics over the valid
// volumes. Non-mesh objects are ignored; failed measurements land in the
// invalid list with their reason and never abort the batch.
func Analyze(objects []scene.Object, measureFn measure.Func) (Statistics, Population, []Invalid) {
	return AnalyzeWithOptions(objects, measureFn, Options{})
}

// AnalyzeWithOptions is Analyze with explicit tuning.
func AnalyzeWithOptions(objects []scene.Object, measureFn measure.Func, opts Options) (Statistics, Population, []Invalid) {
	opts = opts.withDefaults()
	if measureFn == nil {
		measureFn = measure.Measure
	}

	var pop Population
	var invalid []Invalid
	for _, obj := range objects {
		if !obj.IsMesh() {
			continue
		}
		res := measureFn(obj)
		if res.Ok() {
			pop = append(pop, Entry{ID: res.ObjectID, Volume: res.Volume})
		} else {
			invalid = append(invalid, Invalid{ID: res.ObjectID, Kind: res.Err.Kind, Reason: res.Err.Message})
		}
	}
	sort.Slice(pop, func(i, j int) bool { return pop[i].Volume < pop[j].Volume })

	return Compute(pop, opts), pop, invalid
}

// Compute builds a Statistics snapshot from an already-sorted population.
func Compute(pop Population, opts Options) Statistics {
	opts = opts.withDefaults()

	if len(pop) == 0 {
		// Zero-valued snapshot with an explicit flag instead of NaN spray.
		return Statistics{NoData: true, Percentiles: map[int]float64{}}
	}

	values := pop.Volumes()
	s := Statistics{
		Count:       len(values),
		Min:         values[0],
		Max:         values[len(values)-1],
		Mean:        stat.Mean(values, nil),
		Median:      median(values),
		StdDev:      stat.PopStdDev(values, nil),
		Percentiles: make(map[int]float64, len(opts.Percentiles)),
		Gaps:        DetectGaps(pop, opts.MinGapRatio, opts.MaxGaps),
	}
	for _, p := range opts.Percentiles {
		s.Percentiles[p] = Percentile(values, float64(p))
	}
	return s
}

// median returns the middle element, or the average of the two central
// elements for even counts. values must be sorted.
func median(values []float64) float64 {
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// Percentile computes the p-th percentile (0-100) of sorted values using
// linear interpolation: index = (p/100)·(N-1), interpolating between the
// floor and ceil positions. p=0 yields the minimum and p=100 the maximum.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p / 100.0 * float64(n-1)
	lower := int(math.Floor(idx))
	upper := lower + 1
	if upper > n-1 {
		upper = n - 1
	}
	if lower < 0 {
		lower = 0
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// DetectGaps walks adjacent pairs of the sorted population looking for jumps
// where next/prev >= minRatio (prev must be positive). Each hit suggests a
// threshold at the geometric mean sqrt(prev·next). Consecutive-ratio jumps
// reveal natural size-class boundaries, e.g. fasteners vs structural parts,
// that absolute or percentage thresholds cannot detect.
func DetectGaps(pop Population, minRatio float64, maxGaps int) []Gap {
	if len(pop) < 2 {
		return nil
	}

	var gaps []Gap
	for i := 0; i < len(pop)-1; i++ {
		prev := pop[i].Volume
		next := pop[i+1].Volume
		if prev <= 0 {
			continue
		}
		ratio := next / prev
		if ratio >= minRatio {
			gaps = append(gaps, Gap{Threshold: math.Sqrt(prev * next), Ratio: ratio})
		}
	}

	sort.Slice(gaps, func(i, j int) bool { return gaps[i].Ratio > gaps[j].Ratio })
	if len(gaps) > maxGaps {
		gaps = gaps[:maxGaps]
	}
	return gaps
}
