// Package web serves the JSON API consumed by the browser simulator.
// All endpoints are GET with query parameters and permissive CORS.
package web

import (
	"net/http"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/processing/scenario"
	"github.com/simseed/simseed/pkg/service/benchmark"
	"github.com/simseed/simseed/pkg/service/bootstrap"
	"github.com/simseed/simseed/pkg/service/catalog"
	"github.com/simseed/simseed/pkg/service/replay"
	"github.com/simseed/simseed/version"
)

const (
	defaultMaxDrivers = 20
	defaultStride     = 8
	minAggression     = 0.7
	maxAggression     = 1.5
)

func NewHandler(opts ...Option) *Handler {
	ret := &Handler{
		log:     log.Default().Named("web.api"),
		version: version.Version,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

type Option func(*Handler)

func WithBootstrapLoader(l bootstrap.Loader) Option {
	return func(h *Handler) {
		h.bootstrap = l
	}
}

func WithCatalogService(s *catalog.Service) Option {
	return func(h *Handler) {
		h.catalog = s
	}
}

func WithReplayService(s *replay.Service) Option {
	return func(h *Handler) {
		h.replay = s
	}
}

func WithBenchmarkService(s *benchmark.Service) Option {
	return func(h *Handler) {
		h.benchmark = s
	}
}

func WithVersion(v string) Option {
	return func(h *Handler) {
		h.version = v
	}
}

type Handler struct {
	log       *log.Logger
	bootstrap bootstrap.Loader
	catalog   *catalog.Service
	replay    *replay.Service
	benchmark *benchmark.Service
	version   string
}

// Routes mounts all API endpoints on a fresh mux. Unknown paths get a
// JSON 404 instead of the default text response.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("GET /api/catalog", h.catalogData)
	mux.HandleFunc("GET /api/bootstrap-config", h.bootstrapConfig)
	mux.HandleFunc("GET /api/replay", h.replayData)
	mux.HandleFunc("GET /api/benchmark", h.benchmarkData)
	mux.HandleFunc("/", h.notFound)
	return mux
}

type healthBody struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK,
		healthBody{Status: "ok", Service: "simseed", Version: h.version})
}

// catalogData lists stored sessions, or the drivers of one session
// when the full year/round/session triple is given.
func (h *Handler) catalogData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("year") != "" && q.Get("round") != "" && q.Get("session") != "" {
		key, err := sessionKeyParam(q)
		if err != nil {
			badRequest(w, err)
			return
		}
		cat, err := h.catalog.Drivers(r.Context(), key)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cat)
		return
	}
	cat, err := h.catalog.Sessions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

//nolint:funlen // param handling
func (h *Handler) bootstrapConfig(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &bootstrap.Request{
		Session: q.Get("session"),
		Driver:  q.Get("driver"),
		Drivers: csvParam(q, "drivers"),
	}
	var err error
	if req.Year, err = intParam(q, "year", 0); err != nil {
		badRequest(w, err)
		return
	}
	if req.Round, err = intParam(q, "round", 0); err != nil {
		badRequest(w, err)
		return
	}
	if req.MaxDrivers, err = intParam(q, "max_drivers", defaultMaxDrivers); err != nil {
		badRequest(w, err)
		return
	}
	aggression, err := floatParam(q, "aggression", 1.0)
	if err != nil {
		badRequest(w, err)
		return
	}
	sectorAggr, err := floatListParam(q, "sector_aggr")
	if err != nil {
		badRequest(w, err)
		return
	}
	req.Scenario = scenario.Request{
		Weather:          q.Get("weather"),
		Tire:             q.Get("tire"),
		Aggression:       min(maxAggression, max(minAggression, aggression)),
		SectorTires:      csvParam(q, "sector_tires"),
		SectorAggression: sectorAggr,
	}

	bundle, err := h.bootstrap.Load(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *Handler) replayData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, err := sessionKeyParam(q)
	if err != nil {
		badRequest(w, err)
		return
	}
	maxDrivers, err := intParam(q, "max_drivers", defaultMaxDrivers)
	if err != nil {
		badRequest(w, err)
		return
	}
	stride, err := intParam(q, "stride", defaultStride)
	if err != nil {
		badRequest(w, err)
		return
	}
	data, err := h.replay.Load(r.Context(), &replay.Request{
		Key:        key,
		Drivers:    csvParam(q, "drivers"),
		MaxDrivers: maxDrivers,
		Stride:     stride,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) benchmarkData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, err := sessionKeyParam(q)
	if err != nil {
		badRequest(w, err)
		return
	}
	data, err := h.benchmark.Load(r.Context(), key, csvParam(q, "drivers"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
}
