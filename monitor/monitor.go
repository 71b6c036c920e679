// Package monitor exposes a read-only HTTP introspection endpoint over a
// running PatchHierarchy: per-level box and patch counts, per-patch boxes,
// plus an optional connector dump and per-phase integrator timings. Patch
// data and time stamps are not exposed. Grounded on the teacher's (transitive)
// monitoring-web-UI dependency path through akita's monitoring package —
// not on the collective hot path spec.md §5 describes, so it is safe to
// wire up gorilla/mux the way the rest of the retrieved pack's HTTP
// services do (e.g. the tile-server's stats/health handlers) without
// touching advanceLevel's critical path.
package monitor

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sarchlab/amrmesh/connector"
	"github.com/sarchlab/amrmesh/fatal"
	"github.com/sarchlab/amrmesh/integrator"
	"github.com/sarchlab/amrmesh/patch"
)

// PhaseTimingSource is implemented by integrator.HyperbolicLevelIntegrator
// and integrator.LevelDriver; Server's /timers route reads through this
// narrow interface rather than depending on either concrete type.
type PhaseTimingSource interface {
	PhaseDurations() map[integrator.Phase]integrator.PhaseStats
}

// Server serves introspection endpoints over one hierarchy. It does not
// mutate anything it reads; callers are responsible for not serving
// concurrently with a hierarchy mutation (regrid, AdvanceLevel) without
// their own synchronization.
type Server struct {
	hierarchy *patch.PatchHierarchy
	conn      *connector.Connector // optional, nil if not set
	timing    PhaseTimingSource    // optional, nil if not set

	router *mux.Router
}

// New builds a Server over hierarchy. conn may be nil if no connector dump
// is wanted.
func New(hierarchy *patch.PatchHierarchy, conn *connector.Connector) *Server {
	s := &Server{hierarchy: hierarchy, conn: conn, router: mux.NewRouter()}

	s.router.HandleFunc("/levels", s.levelsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/levels/{ln}", s.levelHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/connector", s.connectorHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/timers", s.timersHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)

	return s
}

// WithTiming attaches a PhaseTimingSource (an
// *integrator.HyperbolicLevelIntegrator or *integrator.LevelDriver) whose
// accumulated per-phase durations /timers will report, and returns s for
// chaining at construction time.
func (s *Server) WithTiming(timing PhaseTimingSource) *Server {
	s.timing = timing
	return s
}

// Handler returns the underlying http.Handler, for embedding in a larger
// mux or passing directly to http.ListenAndServe.
func (s *Server) Handler() http.Handler { return s.router }

type levelSummary struct {
	Level      int `json:"level"`
	NumBoxes   int `json:"num_boxes"`
	NumPatches int `json:"num_patches"`
}

func (s *Server) levelsHandler(w http.ResponseWriter, r *http.Request) {
	summaries := make([]levelSummary, 0, s.hierarchy.NumLevels())
	for ln := 0; ln < s.hierarchy.NumLevels(); ln++ {
		level := s.hierarchy.Level(ln)
		summaries = append(summaries, levelSummary{
			Level:      ln,
			NumBoxes:   len(level.Boxes.Local()),
			NumPatches: len(level.Patches()),
		})
	}
	writeJSON(w, summaries)
}

type patchSummary struct {
	Owner int    `json:"owner"`
	Local int    `json:"local"`
	Box   string `json:"box"`
}

func (s *Server) levelHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ln, err := strconv.Atoi(vars["ln"])
	if err != nil || ln < 0 || ln >= s.hierarchy.NumLevels() {
		http.Error(w, "unknown level", http.StatusNotFound)
		return
	}

	level := s.hierarchy.Level(ln)
	patches := make([]patchSummary, 0, len(level.Patches()))
	for _, p := range level.Patches() {
		patches = append(patches, patchSummary{
			Owner: int(p.Id.Owner),
			Local: int(p.Id.Local),
			Box:   p.Box.String(),
		})
	}
	writeJSON(w, patches)
}

func (s *Server) connectorHandler(w http.ResponseWriter, r *http.Request) {
	if s.conn == nil {
		http.Error(w, "no connector configured", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(fatal.DumpConnector(s.conn)))
}

type phaseReport struct {
	Phase    string  `json:"phase"`
	TotalSec float64 `json:"total_seconds"`
	Count    int     `json:"count"`
}

func (s *Server) timersHandler(w http.ResponseWriter, r *http.Request) {
	if s.timing == nil {
		http.Error(w, "no timing source configured", http.StatusNotFound)
		return
	}
	durations := s.timing.PhaseDurations()
	reports := make([]phaseReport, 0, len(durations))
	for p, stats := range durations {
		reports = append(reports, phaseReport{
			Phase:    p.String(),
			TotalSec: stats.Total.Seconds(),
			Count:    stats.Count,
		})
	}
	writeJSON(w, reports)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"num_levels": s.hierarchy.NumLevels(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("monitor: failed to encode response", "error", err)
	}
}

