package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mvhq/frameview/internal/catalog"
	"github.com/mvhq/frameview/internal/embed"
	"github.com/mvhq/frameview/internal/gallery"
	"github.com/mvhq/frameview/internal/resolver"
	"github.com/mvhq/frameview/internal/search"
	"github.com/mvhq/frameview/internal/session"
	"github.com/mvhq/frameview/internal/store"
	"github.com/mvhq/frameview/internal/submit"
)

// Config carries the server's wiring and the capability flags that replace
// the old per-deployment script variants.
type Config struct {
	Backend           string // retrieval backend origin
	DefaultMode       string // collection queried when the form picks none
	HasDualGallery    bool
	HasExternalSync   bool
	HasSubmissionForm bool
}

type server struct {
	cfg    Config
	log    *slog.Logger
	sess   *session.Session
	search *search.Client
	cat    catalog.Catalog
	store  *store.Store
	submit *submit.Client
	tpl    *template.Template
}

// NewServer assembles the HTTP handler. cat, st and sub may be nil; the
// features depending on them degrade without taking the page down.
func NewServer(cfg Config, sc *search.Client, cat catalog.Catalog, st *store.Store, sub *submit.Client, log *slog.Logger) nethttp.Handler {
	if log == nil {
		log = slog.Default()
	}
	s := &server{
		cfg:    cfg,
		log:    log,
		sess:   session.New(resolver.New(cfg.Backend)),
		search: sc,
		cat:    cat,
		store:  st,
		submit: sub,
		tpl:    template.Must(template.New("page").Parse(pageTpl)),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", s.handlePage)
	r.Get("/health", HealthHandler().ServeHTTP)

	r.Get("/api/search", s.handleSearch)
	r.Post("/api/view/toggle", s.handleToggle)
	r.Post("/api/group/step", s.handleGroupStep)

	r.Post("/api/viewer/open", s.handleViewerOpen)
	r.Post("/api/viewer/show", s.handleViewerShow)
	r.Post("/api/viewer/next", s.handleViewerNext)
	r.Post("/api/viewer/prev", s.handleViewerPrev)
	r.Post("/api/viewer/close", s.handleViewerClose)

	if cfg.HasExternalSync {
		r.Get("/api/embed/open", s.handleEmbedOpen)
		r.Post("/api/embed/position", s.handleEmbedPosition)
		r.Post("/api/embed/close", s.handleEmbedClose)
		r.Post("/api/clip", s.handleClip)
	}
	if cfg.HasSubmissionForm {
		r.Post("/api/submit", s.handleSubmit)
	}
	return r
}

// apiError is the JSON error envelope. Kind names the taxonomy bucket so
// the page can pick the right degradation (inline message, placeholder,
// blocking alert).
type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(w nethttp.ResponseWriter, r *nethttp.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, nethttp.StatusBadRequest, apiError{Error: "invalid request body", Kind: "request"})
		return false
	}
	return true
}

type pageData struct {
	Title             string
	DefaultMode       string
	HasDualGallery    bool
	HasExternalSync   bool
	HasSubmissionForm bool
	PollInterval      int
}

func (s *server) handlePage(w nethttp.ResponseWriter, r *nethttp.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = s.tpl.Execute(w, pageData{
		Title:             "frameview",
		DefaultMode:       s.cfg.DefaultMode,
		HasDualGallery:    s.cfg.HasDualGallery,
		HasExternalSync:   s.cfg.HasExternalSync,
		HasSubmissionForm: s.cfg.HasSubmissionForm,
		PollInterval:      embed.PollInterval,
	})
}

// viewResponse wraps the render state. Loaded is false before any search;
// Stale marks a discarded late response (the page keeps what it shows).
type viewResponse struct {
	Loaded bool `json:"loaded"`
	Stale  bool `json:"stale,omitempty"`
	session.View
}

func (s *server) handleSearch(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	k, _ := strconv.Atoi(q.Get("k"))
	query := search.Query{
		Text:   q.Get("query"),
		K:      k,
		Mode:   q.Get("mode"),
		Colors: q.Get("colors"),
		OCR:    q.Get("ocr"),
	}

	seq := s.sess.Begin()
	res, err := s.search.Search(r.Context(), query)
	if err != nil {
		var qe *search.QueryError
		if errors.As(err, &qe) {
			writeJSON(w, nethttp.StatusBadRequest, apiError{Error: qe.Error(), Kind: "query"})
			return
		}
		writeJSON(w, nethttp.StatusBadGateway, apiError{Error: err.Error(), Kind: "fetch"})
		return
	}
	if !s.sess.Install(seq, res) {
		s.log.Debug("discarding stale search response", "seq", seq)
		writeJSON(w, nethttp.StatusOK, viewResponse{Stale: true})
		return
	}
	view, loaded := s.sess.View()
	writeJSON(w, nethttp.StatusOK, viewResponse{Loaded: loaded, View: view})
}

func (s *server) handleToggle(w nethttp.ResponseWriter, r *nethttp.Request) {
	view, loaded := s.sess.Toggle()
	writeJSON(w, nethttp.StatusOK, viewResponse{Loaded: loaded, View: view})
}

// handleGroupStep moves a grouped block's representative: relative by Dir,
// or to the absolute Index when one is given (thumbnail clicks).
func (s *server) handleGroupStep(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req struct {
		VideoID string `json:"video_id"`
		Dir     int    `json:"dir"`
		Index   *int   `json:"index"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	var (
		view gallery.GroupView
		ok   bool
	)
	if req.Index != nil {
		view, ok = s.sess.ShowGroup(req.VideoID, *req.Index)
	} else {
		view, ok = s.sess.StepGroup(req.VideoID, req.Dir)
	}
	if !ok {
		writeJSON(w, nethttp.StatusNotFound, apiError{Error: "unknown video", Kind: "request"})
		return
	}
	writeJSON(w, nethttp.StatusOK, view)
}

func (s *server) handleViewerOpen(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req struct {
		Path    string `json:"path"`
		VideoID string `json:"video_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	writeJSON(w, nethttp.StatusOK, s.sess.OpenViewer(req.Path, req.VideoID))
}

func (s *server) handleViewerShow(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	writeJSON(w, nethttp.StatusOK, s.sess.ShowViewer(req.Index))
}

func (s *server) handleViewerNext(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, s.sess.NextViewer())
}

func (s *server) handleViewerPrev(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, s.sess.PrevViewer())
}

func (s *server) handleViewerClose(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, s.sess.CloseViewer())
}

func (s *server) handleEmbedOpen(w nethttp.ResponseWriter, r *nethttp.Request) {
	videoID := r.URL.Query().Get("video")
	frame, _ := strconv.Atoi(r.URL.Query().Get("frame"))

	es, err := s.sess.OpenEmbed(videoID, frame, s.cat)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrMiss):
			writeJSON(w, nethttp.StatusNotFound, apiError{Error: err.Error(), Kind: "catalog"})
		case errors.Is(err, embed.ErrInvalidSource):
			writeJSON(w, nethttp.StatusUnprocessableEntity, apiError{Error: err.Error(), Kind: "source"})
		default:
			writeJSON(w, nethttp.StatusInternalServerError, apiError{Error: err.Error(), Kind: "internal"})
		}
		return
	}
	writeJSON(w, nethttp.StatusOK, es)
}

func (s *server) handleEmbedPosition(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req struct {
		Seconds float64 `json:"seconds"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	frame, clock, ok := s.sess.ReportPosition(req.Seconds)
	if !ok {
		writeJSON(w, nethttp.StatusConflict, apiError{Error: "no player open", Kind: "request"})
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"frame": frame, "clock": clock})
}

func (s *server) handleEmbedClose(w nethttp.ResponseWriter, r *nethttp.Request) {
	s.sess.CloseEmbed()
	w.WriteHeader(nethttp.StatusNoContent)
}

// handleClip appends the last derived frame number to the persistent
// accumulator. "No frame yet" is a distinct condition from a storage
// failure, mirroring the clipboard-side distinction on the page.
func (s *server) handleClip(w nethttp.ResponseWriter, r *nethttp.Request) {
	frame, ok := s.sess.LastFrame()
	if !ok {
		writeJSON(w, nethttp.StatusConflict, apiError{Error: "no frame available yet", Kind: "noframe"})
		return
	}
	if s.store == nil {
		writeJSON(w, nethttp.StatusServiceUnavailable, apiError{Error: "state store unavailable", Kind: "store"})
		return
	}
	acc, err := s.store.AppendFrame(frame)
	if err != nil {
		writeJSON(w, nethttp.StatusInternalServerError, apiError{Error: err.Error(), Kind: "store"})
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"frame": frame, "accumulator": acc})
}

func (s *server) handleSubmit(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req struct {
		Type    string `json:"type"`
		VideoID string `json:"video_id"`
		Frame   int    `json:"frame"`
		Query   string `json:"query"`
		Text    string `json:"text"`
		Frames  []int  `json:"frames"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if s.submit == nil {
		writeJSON(w, nethttp.StatusServiceUnavailable, apiError{Error: "submission not configured", Kind: "submit"})
		return
	}

	var answer submit.AnswerSet
	switch req.Type {
	case submit.KindKIS:
		fps := float64(embed.DefaultFPS)
		if meta, err := s.cat.Lookup(req.VideoID); err == nil && meta.FPS > 0 {
			fps = meta.FPS
		}
		answer = submit.KISAnswer(req.VideoID, req.Frame, fps)
	case submit.KindQA:
		answer = submit.QAAnswer(req.Query, req.Text)
	case submit.KindTrake:
		answer = submit.TrakeAnswer(req.VideoID, req.Frames)
	default:
		writeJSON(w, nethttp.StatusBadRequest, apiError{Error: "unknown answer type", Kind: "request"})
		return
	}

	if err := s.submit.Run(r.Context(), answer); err != nil {
		writeJSON(w, nethttp.StatusBadGateway, apiError{Error: err.Error(), Kind: "submit"})
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "submitted"})
}
