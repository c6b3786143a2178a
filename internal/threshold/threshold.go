// Package threshold resolves a user-chosen threshold method into one absolute
// volume cutoff. Five methods share a single result shape so the partition
// step stays method-agnostic.
package threshold

import (
	"errors"
	"fmt"
	"math"

	"smole/internal/measure"
	"smole/internal/scene"
	"smole/internal/volstats"
)

// Sentinel errors for the resolver failure taxonomy. Wrap-compatible with
// errors.Is so callers can branch on the class while keeping the
// human-readable detail.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNoValidObjects   = errors.New("no valid objects in scene")
	ErrUnknownMethod    = errors.New("unknown threshold method")
)

// Spec is the closed set of threshold methods. Exactly one concrete type per
// method, each carrying only its own payload; Resolve dispatches exhaustively.
type Spec interface {
	// Method names the variant for metadata and error messages.
	Method() string
}

// Reference derives the cutoff from a chosen object's own volume.
type Reference struct {
	Object scene.Object
}

// PercentOfLargest sets the cutoff to a percentage of the largest valid volume.
type PercentOfLargest struct {
	Percent float64
}

// PercentOfAverage sets the cutoff to a percentage of the mean valid volume.
type PercentOfAverage struct {
	Percent float64
}

// Percentile sets the cutoff to an interpolated percentile of the population.
type Percentile struct {
	Percentile float64
}

// Absolute uses the given volume verbatim; no population scan is needed.
type Absolute struct {
	Volume float64
}

func (Reference) Method() string        { return "reference" }
func (PercentOfLargest) Method() string { return "percent_of_largest" }
func (PercentOfAverage) Method() string { return "percent_of_average" }
func (Percentile) Method() string       { return "percentile" }
func (Absolute) Method() string         { return "absolute" }

// Result is the uniform outcome every method produces: one cutoff plus
// method-specific metadata (base volume, reference ID, approximate count...).
type Result struct {
	Cutoff   float64        `json:"cutoff"`
	Method   string         `json:"method"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Resolver resolves specs against a scene. The zero value is not usable;
// construct with NewResolver.
type Resolver struct {
	measureFn measure.Func
	statsOpts volstats.Options
}

// NewResolver builds a resolver using the real volume calculator.
func NewResolver() *Resolver {
	return &Resolver{measureFn: measure.Measure}
}

// NewResolverWith injects a measurement function and statistics options,
// used by tests and by callers with tuned gap/percentile settings.
func NewResolverWith(fn measure.Func, opts volstats.Options) *Resolver {
	if fn == nil {
		fn = measure.Measure
	}
	return &Resolver{measureFn: fn, statsOpts: opts}
}

// Resolve turns a spec into an absolute volume cutoff. Parameter failures are
// terminal for this call and never partially apply; an unsupported Spec
// implementation is a programming error reported as ErrUnknownMethod.
func (r *Resolver) Resolve(spec Spec, scn scene.Scene) (Result, error) {
	switch s := spec.(type) {
	case Reference:
		return r.resolveReference(s)
	case PercentOfLargest:
		return r.resolvePercentOf(s.Percent, true, scn)
	case PercentOfAverage:
		return r.resolvePercentOf(s.Percent, false, scn)
	case Percentile:
		return r.resolvePercentile(s, scn)
	case Absolute:
		return r.resolveAbsolute(s)
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnknownMethod, spec)
	}
}

func (r *Resolver) resolveReference(s Reference) (Result, error) {
	if s.Object == nil {
		return Result{}, fmt.Errorf("%w: reference object is required", ErrInvalidParameter)
	}
	res := r.measureFn(s.Object)
	if !res.Ok() {
		return Result{}, fmt.Errorf("reference object error: %w", res.Err)
	}
	return Result{
		Cutoff: res.Volume,
		Method: s.Method(),
		Metadata: map[string]any{
			"reference_id":     res.ObjectID,
			"reference_volume": res.Volume,
		},
	}, nil
}

func (r *Resolver) resolvePercentOf(percent float64, ofLargest bool, scn scene.Scene) (Result, error) {
	if percent <= 0 || percent > 100 {
		return Result{}, fmt.Errorf("%w: percentage must be in (0, 100], got %g", ErrInvalidParameter, percent)
	}

	stats, _, _ := volstats.AnalyzeWithOptions(scn.Objects(), r.measureFn, r.statsOpts)
	if stats.NoData {
		return Result{}, ErrNoValidObjects
	}

	base := stats.Mean
	method := "percent_of_average"
	if ofLargest {
		base = stats.Max
		method = "percent_of_largest"
	}
	return Result{
		Cutoff: base * percent / 100.0,
		Method: method,
		Metadata: map[string]any{
			"base_volume": base,
			"percent":     percent,
		},
	}, nil
}

func (r *Resolver) resolvePercentile(s Percentile, scn scene.Scene) (Result, error) {
	if s.Percentile <= 0 || s.Percentile > 100 {
		return Result{}, fmt.Errorf("%w: percentile must be in (0, 100], got %g", ErrInvalidParameter, s.Percentile)
	}

	_, pop, _ := volstats.AnalyzeWithOptions(scn.Objects(), r.measureFn, r.statsOpts)
	if len(pop) == 0 {
		return Result{}, ErrNoValidObjects
	}

	cutoff := volstats.Percentile(pop.Volumes(), s.Percentile)
	return Result{
		Cutoff: cutoff,
		Method: s.Method(),
		Metadata: map[string]any{
			"percentile": s.Percentile,
			// Roughly how many objects fall at or below this percentile.
			"approx_object_count": int(math.Floor(s.Percentile / 100.0 * float64(len(pop)))),
			"valid_object_count":  len(pop),
		},
	}, nil
}

func (r *Resolver) resolveAbsolute(s Absolute) (Result, error) {
	if s.Volume <= 0 {
		return Result{}, fmt.Errorf("%w: absolute volume must be > 0, got %g", ErrInvalidParameter, s.Volume)
	}
	return Result{Cutoff: s.Volume, Method: s.Method()}, nil
}
