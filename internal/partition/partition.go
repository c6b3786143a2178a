// Package partition applies a resolved volume cutoff to a scene: objects
// strictly below the cutoff are collected into a destination container,
// everything else stays put. Preview mode computes the same split without
// touching the scene.
package partition

import (
	"fmt"

	"github.com/google/uuid"

	"smole/internal/measure"
	"smole/internal/scene"
)

// Mode selects whether the partition mutates the scene.
type Mode string

const (
	// ModePreview computes the split and display aggregates without moving
	// anything.
	ModePreview Mode = "preview"
	// ModeExecute relocates collected objects into the destination container.
	ModeExecute Mode = "execute"
)

// DefaultDestination is the container name used when none is configured.
const DefaultDestination = "Littles"

// SkipRecord names one object that could not be measured and why.
type SkipRecord struct {
	ObjectID string            `json:"object_id"`
	Kind     measure.ErrorKind `json:"kind"`
	Reason   string            `json:"reason"`
}

// Report summarises one partition run. It is created per run and never
// persisted; a subsequent run re-measures from current geometry.
type Report struct {
	RunID     string  `json:"run_id"`
	Mode      Mode    `json:"mode"`
	Cutoff    float64 `json:"cutoff"`
	Collected int     `json:"collected"`
	Skipped   int     `json:"skipped"`

	CollectedIDs []string     `json:"collected_ids"`
	SkippedList  []SkipRecord `json:"skipped_list"`

	// RelocatedIDs lists objects actually moved (Execute mode only).
	RelocatedIDs []string `json:"relocated_ids,omitempty"`

	// Preview-only display aggregates.
	TotalPolygons  int     `json:"total_polygons,omitempty"`
	PercentOfScene float64 `json:"percent_of_scene,omitempty"`
	VolumeMin      float64 `json:"volume_min,omitempty"`
	VolumeMax      float64 `json:"volume_max,omitempty"`
}

// Options tunes a partition run.
type Options struct {
	// ExcludeID skips one object, typically the reference object whose
	// volume produced the cutoff.
	ExcludeID string
	// Mode defaults to ModePreview: the safe, side-effect-free choice.
	Mode Mode
	// Destination is the target container name; DefaultDestination if empty.
	Destination string
	// HideDestination hides the container when this run creates it.
	HideDestination bool
	// MeasureFn defaults to measure.Measure.
	MeasureFn measure.Func
}

// Run partitions the scene against the cutoff.
//
// Every mesh object except the excluded one is measured; volumes strictly
// below the cutoff are collected (a volume exactly equal to the cutoff is
// not). Measurement failures are recorded and skipped, never fatal. In
// Execute mode each collected object is removed from all its current
// containers and inserted into the destination exactly once, so re-running
// with the same cutoff collects nothing further.
func Run(scn scene.Scene, cutoff float64, opts Options) (Report, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModePreview
	}
	measureFn := opts.MeasureFn
	if measureFn == nil {
		measureFn = measure.Measure
	}
	destName := opts.Destination
	if destName == "" {
		destName = DefaultDestination
	}

	report := Report{
		RunID:  uuid.NewString(),
		Mode:   mode,
		Cutoff: cutoff,
	}

	// Obtaining the destination is a side-effecting precondition of Execute
	// mode only; Preview must not create containers.
	var dest scene.Container
	if mode == ModeExecute {
		c, created, err := scn.GetOrCreateContainer(destName)
		if err != nil {
			return report, fmt.Errorf("failed to create container %q: %w", destName, err)
		}
		if created && opts.HideDestination {
			c.SetHidden(true)
		}
		dest = c
	}

	meshTotal := 0
	for _, obj := range scn.Objects() {
		if !obj.IsMesh() {
			continue
		}
		meshTotal++
		if obj.ID() == opts.ExcludeID {
			continue
		}

		res := measureFn(obj)
		if !res.Ok() {
			report.Skipped++
			report.SkippedList = append(report.SkippedList, SkipRecord{
				ObjectID: res.ObjectID,
				Kind:     res.Err.Kind,
				Reason:   res.Err.Message,
			})
			continue
		}

		if res.Volume >= cutoff {
			continue // at or above threshold: never collected
		}

		report.Collected++
		report.CollectedIDs = append(report.CollectedIDs, obj.ID())

		switch mode {
		case ModeExecute:
			relocate(obj, dest)
			report.RelocatedIDs = append(report.RelocatedIDs, obj.ID())
		case ModePreview:
			report.TotalPolygons += polygonCount(obj)
			if report.Collected == 1 || res.Volume < report.VolumeMin {
				report.VolumeMin = res.Volume
			}
			if res.Volume > report.VolumeMax {
				report.VolumeMax = res.Volume
			}
		}
	}

	if mode == ModePreview && meshTotal > 0 {
		report.PercentOfScene = float64(report.Collected) / float64(meshTotal) * 100.0
	}
	return report, nil
}

// relocate removes the object from every container it belongs to and inserts
// it into dest. Inserting an existing member is a no-op, which makes repeat
// execution idempotent.
func relocate(obj scene.Object, dest scene.Container) {
	for _, c := range obj.Containers() {
		if c.Name() == dest.Name() {
			continue
		}
		c.Remove(obj)
	}
	dest.Insert(obj)
}

// polygonCount re-evaluates the object's mesh to count faces for the preview
// aggregate. Evaluation failures count as zero; the object was already
// measured successfully so this is best-effort display data.
func polygonCount(obj scene.Object) int {
	mesh, release, err := obj.EvaluatedMesh()
	if release != nil {
		defer release()
	}
	if err != nil || mesh == nil {
		return 0
	}
	return mesh.PolygonCount()
}
