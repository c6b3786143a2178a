// Package monitor is the thin presentation layer over the triage core: a JSON
// API plus debug chart endpoints. It holds no state of its own; every request
// re-measures from the current scene.
package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"smole/internal/config"
	"smole/internal/measure"
	"smole/internal/monitoring"
	"smole/internal/partition"
	"smole/internal/scene"
	"smole/internal/threshold"
	"smole/internal/version"
	"smole/internal/volstats"
)

// WebServer serves the triage API for one scene.
type WebServer struct {
	scn       scene.Scene
	cfg       *config.TuningConfig
	measureFn measure.Func
}

// NewWebServer creates a server over the given scene. A nil cfg uses defaults.
func NewWebServer(scn scene.Scene, cfg *config.TuningConfig) *WebServer {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &WebServer{scn: scn, cfg: cfg, measureFn: measure.Measure}
}

// RegisterRoutes registers the API routes on the provided mux.
func (ws *WebServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/analyze", ws.handleAnalyze)
	mux.HandleFunc("/api/suggest", ws.handleSuggest)
	mux.HandleFunc("/api/preview", ws.handlePreview)
	mux.HandleFunc("/api/params", ws.handleParams)
	mux.HandleFunc("/debug/charts/volumes", ws.handleVolumeChart)
}

// analyzeResponse is the JSON shape of a scene analysis.
type analyzeResponse struct {
	Statistics volstats.Statistics `json:"statistics"`
	Population volstats.Population `json:"population"`
	Invalid    []volstats.Invalid  `json:"invalid"`
	Valid      int                 `json:"valid_objects"`
	Failed     int                 `json:"invalid_objects"`
}

func (ws *WebServer) analyze() analyzeResponse {
	stats, pop, invalid := volstats.AnalyzeWithOptions(ws.scn.Objects(), ws.measureFn, ws.cfg.StatsOptions())
	return analyzeResponse{
		Statistics: stats,
		Population: pop,
		Invalid:    invalid,
		Valid:      len(pop),
		Failed:     len(invalid),
	}
}

func (ws *WebServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}
	ws.writeJSON(w, ws.analyze())
}

func (ws *WebServer) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}
	stats, pop, _ := volstats.AnalyzeWithOptions(ws.scn.Objects(), ws.measureFn, ws.cfg.StatsOptions())
	ws.writeJSON(w, threshold.Suggest(stats, pop))
}

// handlePreview resolves a threshold from query params and previews the
// partition without mutating the scene.
// Query params: method (reference|percent-largest|percent-average|percentile|absolute),
// value (float, for all but reference), ref (object ID, reference only).
func (ws *WebServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	spec, excludeID, err := ws.specFromQuery(r)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resolver := threshold.NewResolverWith(ws.measureFn, ws.cfg.StatsOptions())
	res, err := resolver.Resolve(spec, ws.scn)
	if err != nil {
		ws.writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	report, err := partition.Run(ws.scn, res.Cutoff, partition.Options{
		ExcludeID: excludeID,
		Mode:      partition.ModePreview,
		MeasureFn: ws.measureFn,
	})
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	monitoring.Logf("preview run %s: cutoff=%g collected=%d skipped=%d",
		report.RunID, report.Cutoff, report.Collected, report.Skipped)
	ws.writeJSON(w, map[string]any{
		"threshold": res,
		"report":    report,
	})
}

func (ws *WebServer) handleParams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}
	ws.writeJSON(w, map[string]any{
		"version":               version.String(),
		"min_gap_ratio":         ws.cfg.GetMinGapRatio(),
		"max_gaps":              ws.cfg.GetMaxGaps(),
		"percentiles":           ws.cfg.GetPercentiles(),
		"destination_container": ws.cfg.GetDestinationContainer(),
		"hide_destination":      ws.cfg.GetHideDestination(),
		"display_units":         ws.cfg.GetDisplayUnits(),
	})
}

// specFromQuery builds a threshold spec from request query parameters and
// returns the object ID to exclude from partitioning (reference method only).
func (ws *WebServer) specFromQuery(r *http.Request) (threshold.Spec, string, error) {
	method := r.URL.Query().Get("method")

	parseValue := func() (float64, error) {
		raw := r.URL.Query().Get("value")
		if raw == "" {
			return 0, fmt.Errorf("method %q requires a value parameter", method)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q: %v", raw, err)
		}
		return v, nil
	}

	switch method {
	case "reference":
		refID := r.URL.Query().Get("ref")
		if refID == "" {
			return nil, "", fmt.Errorf("reference method requires a ref parameter")
		}
		for _, obj := range ws.scn.Objects() {
			if obj.ID() == refID {
				return threshold.Reference{Object: obj}, refID, nil
			}
		}
		return nil, "", fmt.Errorf("no object %q in scene", refID)
	case "percent-largest":
		v, err := parseValue()
		if err != nil {
			return nil, "", err
		}
		return threshold.PercentOfLargest{Percent: v}, "", nil
	case "percent-average":
		v, err := parseValue()
		if err != nil {
			return nil, "", err
		}
		return threshold.PercentOfAverage{Percent: v}, "", nil
	case "percentile":
		v, err := parseValue()
		if err != nil {
			return nil, "", err
		}
		return threshold.Percentile{Percentile: v}, "", nil
	case "absolute":
		v, err := parseValue()
		if err != nil {
			return nil, "", err
		}
		return threshold.Absolute{Volume: v}, "", nil
	default:
		return nil, "", fmt.Errorf("unknown method %q; use reference, percent-largest, percent-average, percentile or absolute", method)
	}
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("failed to encode response: %v", err)
	}
}

// writeJSONError writes a JSON error response.
func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
