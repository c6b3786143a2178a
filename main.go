// smole measures the enclosed volume of every mesh in a scene, finds where
// the small stuff ends and the real parts begin, and sweeps the small
// objects into a dedicated container. Scenes load from a directory of
// Wavefront OBJ files; with -listen the same operations are served over
// HTTP instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"smole/internal/config"
	"smole/internal/monitor"
	"smole/internal/partition"
	"smole/internal/scene"
	"smole/internal/threshold"
	"smole/internal/units"
	"smole/internal/version"
	"smole/internal/volstats"
)

var (
	sceneDir   = flag.String("scene", "", "Directory of OBJ files to load as the scene")
	configPath = flag.String("config", "", "Optional tuning config (JSON)")
	listen     = flag.String("listen", "", "Serve the HTTP API on this address instead of running a one-shot command")

	doAnalyze = flag.Bool("analyze", false, "Print volume statistics for the scene")
	doSuggest = flag.Bool("suggest", false, "Print suggested thresholds and recommendations")
	doCollect = flag.Bool("collect", false, "Partition the scene at a threshold")

	method   = flag.String("method", "", "Threshold method: reference, percent-largest, percent-average, percentile or absolute")
	refID    = flag.String("ref", "", "Reference object ID (reference method)")
	value    = flag.Float64("value", 0, "Method parameter: percent, percentile or absolute volume")
	execute  = flag.Bool("execute", false, "Actually move objects; default is a dry-run preview")
	dest     = flag.String("dest", "", "Destination container name (default from config)")
	histPath = flag.String("histogram", "", "Write a PNG volume histogram to this path")
)

func main() {
	flag.Parse()
	log.Printf("smole %s", version.String())

	if *sceneDir == "" {
		log.Fatal("-scene is required")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	scn, err := scene.LoadOBJDir(*sceneDir)
	if err != nil {
		log.Fatalf("failed to load scene: %v", err)
	}
	log.Printf("loaded %d objects from %s", len(scn.Objects()), *sceneDir)

	if *listen != "" {
		serve(scn, cfg)
		return
	}

	stats, pop, invalid := volstats.AnalyzeWithOptions(scn.Objects(), nil, cfg.StatsOptions())

	ran := false
	if *doAnalyze {
		printAnalysis(stats, pop, invalid)
		ran = true
	}
	if *doSuggest {
		printSuggestions(stats, pop)
		ran = true
	}
	if *histPath != "" {
		if err := monitor.WriteVolumeHistogram(pop, *histPath); err != nil {
			log.Fatalf("failed to write histogram: %v", err)
		}
		log.Printf("wrote histogram to %s", *histPath)
		ran = true
	}
	if *doCollect {
		collect(scn, cfg)
		ran = true
	}
	if !ran {
		log.Fatal("nothing to do: pass -analyze, -suggest, -collect, -histogram or -listen")
	}
}

func serve(scn scene.Scene, cfg *config.TuningConfig) {
	mux := http.NewServeMux()
	monitor.NewWebServer(scn, cfg).RegisterRoutes(mux)

	server := &http.Server{Addr: *listen, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}

func printAnalysis(stats volstats.Statistics, pop volstats.Population, invalid []volstats.Invalid) {
	if stats.NoData {
		fmt.Println("no measurable objects in scene")
		return
	}

	fmt.Printf("objects: %d valid, %d unmeasurable\n", stats.Count, len(invalid))
	fmt.Printf("min:    %s\n", units.FormatVolume(stats.Min))
	fmt.Printf("median: %s\n", units.FormatVolume(stats.Median))
	fmt.Printf("mean:   %s\n", units.FormatVolume(stats.Mean))
	fmt.Printf("max:    %s\n", units.FormatVolume(stats.Max))
	fmt.Printf("stddev: %s\n", units.FormatVolume(stats.StdDev))

	ps := make([]int, 0, len(stats.Percentiles))
	for p := range stats.Percentiles {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	for _, p := range ps {
		fmt.Printf("p%-3d:   %s\n", p, units.FormatVolume(stats.Percentiles[p]))
	}

	if len(stats.Gaps) > 0 {
		fmt.Println("natural gaps:")
		for _, g := range stats.Gaps {
			fmt.Printf("  %s (%.1fx jump)\n", units.FormatVolume(g.Threshold), g.Ratio)
		}
	}

	for _, inv := range invalid {
		fmt.Printf("skipped %s: %s\n", inv.ID, inv.Reason)
	}
}

func printSuggestions(stats volstats.Statistics, pop volstats.Population) {
	if stats.NoData {
		fmt.Println("no measurable objects in scene")
		return
	}
	s := threshold.Suggest(stats, pop)

	names := make([]string, 0, len(s.Recommended))
	for name := range s.Recommended {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rec := s.Recommended[name]
		fmt.Printf("%-14s %s  (%s %g)\n", name+":",
			units.FormatVolume(rec.Threshold), rec.Method, rec.Value)
		fmt.Printf("               %s\n", rec.Reason)
	}
}

func collect(scn *scene.MemScene, cfg *config.TuningConfig) {
	spec, excludeID, err := specFromFlags(scn)
	if err != nil {
		log.Fatalf("invalid threshold flags: %v", err)
	}

	res, err := threshold.NewResolverWith(nil, cfg.StatsOptions()).Resolve(spec, scn)
	if err != nil {
		log.Fatalf("failed to resolve threshold: %v", err)
	}

	mode := partition.ModePreview
	if *execute {
		mode = partition.ModeExecute
	}
	destName := *dest
	if destName == "" {
		destName = cfg.GetDestinationContainer()
	}

	report, err := partition.Run(scn, res.Cutoff, partition.Options{
		ExcludeID:       excludeID,
		Mode:            mode,
		Destination:     destName,
		HideDestination: cfg.GetHideDestination(),
	})
	if err != nil {
		log.Fatalf("partition failed: %v", err)
	}

	fmt.Printf("%s run %s: cutoff %s (%s)\n", report.Mode, report.RunID,
		units.FormatVolume(report.Cutoff), res.Method)
	fmt.Printf("collected %d, skipped %d\n", report.Collected, report.Skipped)
	for _, id := range report.CollectedIDs {
		fmt.Printf("  %s\n", id)
	}
	if mode == partition.ModePreview && report.Collected > 0 {
		fmt.Printf("would move %.1f%% of the scene (%d polygons), volumes %s to %s\n",
			report.PercentOfScene, report.TotalPolygons,
			units.FormatVolume(report.VolumeMin), units.FormatVolume(report.VolumeMax))
	}
	if mode == partition.ModeExecute {
		fmt.Printf("moved %d objects into %q\n", len(report.RelocatedIDs), destName)
	}
	for _, skip := range report.SkippedList {
		fmt.Printf("skipped %s: %s\n", skip.ObjectID, skip.Reason)
	}
}

func specFromFlags(scn *scene.MemScene) (threshold.Spec, string, error) {
	switch *method {
	case "reference":
		if *refID == "" {
			return nil, "", fmt.Errorf("reference method requires -ref")
		}
		for _, obj := range scn.Objects() {
			if obj.ID() == *refID {
				return threshold.Reference{Object: obj}, *refID, nil
			}
		}
		return nil, "", fmt.Errorf("no object %q in scene", *refID)
	case "percent-largest":
		return threshold.PercentOfLargest{Percent: *value}, "", nil
	case "percent-average":
		return threshold.PercentOfAverage{Percent: *value}, "", nil
	case "percentile":
		return threshold.Percentile{Percentile: *value}, "", nil
	case "absolute":
		return threshold.Absolute{Volume: *value}, "", nil
	case "":
		return nil, "", fmt.Errorf("-collect requires -method")
	default:
		return nil, "", fmt.Errorf("unknown method %q", *method)
	}
}
