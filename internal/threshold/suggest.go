package threshold

import (
	"fmt"

	"smole/internal/volstats"
)

// Suggestions collects candidate cutoffs derived from a scene analysis:
// percentile-based ("collect the smallest X%"), percentage-based ("collect
// anything smaller than X% of the largest/average"), natural gaps, and a few
// named recommendations with reasoning.
type Suggestions struct {
	PercentileThresholds map[int]float64           `json:"percentile_thresholds"`
	PercentageThresholds map[string]float64        `json:"percentage_thresholds"`
	NaturalGaps          []volstats.Gap            `json:"natural_gaps"`
	Recommended          map[string]Recommendation `json:"recommended"`
}

// Recommendation is one suggested cutoff with the method that produced it and
// a human-readable rationale.
type Recommendation struct {
	Threshold float64 `json:"threshold"`
	Method    string  `json:"method"`
	Value     float64 `json:"value"`
	Reason    string  `json:"reason"`
}

// suggestedPercentiles are the percentile cutoffs surfaced to users. The 90th
// is computed for statistics but not suggested: collecting 90% of a scene is
// rarely what anyone wants.
var suggestedPercentiles = []int{10, 20, 25, 50, 75, 80}

// Suggest derives threshold suggestions from an analysis snapshot. Returns
// empty suggestions when the population carries no data.
func Suggest(stats volstats.Statistics, pop volstats.Population) Suggestions {
	s := Suggestions{
		PercentileThresholds: map[int]float64{},
		PercentageThresholds: map[string]float64{},
		Recommended:          map[string]Recommendation{},
	}
	if stats.NoData {
		return s
	}

	for _, p := range suggestedPercentiles {
		s.PercentileThresholds[p] = stats.Percentiles[p]
	}

	s.PercentageThresholds = map[string]float64{
		"1% of largest":  stats.Max * 0.01,
		"5% of largest":  stats.Max * 0.05,
		"10% of largest": stats.Max * 0.10,
		"25% of largest": stats.Max * 0.25,
		"10% of average": stats.Mean * 0.10,
		"25% of average": stats.Mean * 0.25,
		"50% of average": stats.Mean * 0.50,
	}

	s.NaturalGaps = stats.Gaps
	s.Recommended = recommend(stats, s)
	return s
}

// recommend builds the named recommendations from the suggestion tables.
func recommend(stats volstats.Statistics, s Suggestions) map[string]Recommendation {
	recs := map[string]Recommendation{
		"cad_cleanup": {
			Threshold: s.PercentileThresholds[80],
			Method:    "percentile",
			Value:     80,
			Reason:    "Collect smallest 80% - typical for CAD imports with many tiny hardware parts",
		},
		"conservative": {
			Threshold: s.PercentileThresholds[20],
			Method:    "percentile",
			Value:     20,
			Reason:    "Collect smallest 20% - conservative approach for unknown data",
		},
		"relative_small": {
			Threshold: s.PercentageThresholds["5% of largest"],
			Method:    "percentage",
			Value:     5,
			Reason:    "5% of largest object - removes relatively tiny parts across any scale",
		},
	}

	if len(s.NaturalGaps) > 0 {
		top := s.NaturalGaps[0]
		recs["natural_gap"] = Recommendation{
			Threshold: top.Threshold,
			Method:    "gap_detection",
			Value:     top.Ratio,
			Reason:    fmt.Sprintf("Natural gap detected (%.1fx size jump) - likely breakpoint between part types", top.Ratio),
		}
	}
	return recs
}
