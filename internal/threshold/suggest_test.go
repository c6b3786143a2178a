package threshold_test

import (
	"strings"
	"testing"

	"smole/internal/threshold"
	"smole/internal/volstats"
)

func computeStats(volumes ...float64) (volstats.Statistics, volstats.Population) {
	pop := make(volstats.Population, len(volumes))
	for i, v := range volumes {
		pop[i] = volstats.Entry{ID: string(rune('a' + i)), Volume: v}
	}
	return volstats.Compute(pop, volstats.Options{}), pop
}

func TestSuggest_Tables(t *testing.T) {
	stats, pop := computeStats(1, 2, 3, 4, 100)

	s := threshold.Suggest(stats, pop)

	for _, p := range []int{10, 20, 25, 50, 75, 80} {
		if _, ok := s.PercentileThresholds[p]; !ok {
			t.Errorf("missing percentile threshold %d", p)
		}
	}
	if got := s.PercentageThresholds["5% of largest"]; got != 5.0 {
		t.Errorf("5%% of largest = %g, want 5.0", got)
	}
	if got := s.PercentageThresholds["50% of average"]; got != 11.0 {
		t.Errorf("50%% of average = %g, want 11.0 (mean 22)", got)
	}
}

func TestSuggest_NaturalGapRecommendation(t *testing.T) {
	stats, pop := computeStats(1, 1, 1, 100)

	s := threshold.Suggest(stats, pop)

	rec, ok := s.Recommended["natural_gap"]
	if !ok {
		t.Fatal("expected a natural_gap recommendation")
	}
	if rec.Method != "gap_detection" || rec.Value != 100 {
		t.Errorf("recommendation = %+v, want gap_detection with ratio 100", rec)
	}
	if !strings.Contains(rec.Reason, "100.0x") {
		t.Errorf("reason should name the jump ratio: %q", rec.Reason)
	}
}

func TestSuggest_NoGapMeansNoGapRecommendation(t *testing.T) {
	stats, pop := computeStats(10, 11, 12)

	s := threshold.Suggest(stats, pop)

	if _, ok := s.Recommended["natural_gap"]; ok {
		t.Error("no gap in population, natural_gap should be absent")
	}
	for _, key := range []string{"cad_cleanup", "conservative", "relative_small"} {
		if _, ok := s.Recommended[key]; !ok {
			t.Errorf("missing recommendation %q", key)
		}
	}
}

func TestSuggest_NoData(t *testing.T) {
	s := threshold.Suggest(volstats.Statistics{NoData: true}, nil)

	if len(s.PercentileThresholds) != 0 || len(s.Recommended) != 0 {
		t.Errorf("no-data suggestions should be empty, got %+v", s)
	}
}
