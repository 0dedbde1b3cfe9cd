package main

import (
	"context"
	"flag"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/mvhq/frameview/internal/catalog"
	apphttp "github.com/mvhq/frameview/internal/http"
	"github.com/mvhq/frameview/internal/search"
	"github.com/mvhq/frameview/internal/store"
	"github.com/mvhq/frameview/internal/submit"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func main() {
	// .env is optional; real environment wins over file values.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))
	log := slog.Default()

	var (
		backend     string
		port        string
		defaultMode string
		catalogPath string
		statePath   string

		dualGallery bool
		extSync     bool
		submitForm  bool

		submitURL     string
		submitUser    string
		submitPass    string
		submitEval    string
		submitEvalIdx int
	)
	flag.StringVar(&backend, "backend", envOr("BACKEND_ORIGIN", "http://127.0.0.1:5000"), "retrieval backend origin")
	flag.StringVar(&port, "port", envOr("PORT", "8080"), "port to listen on")
	flag.StringVar(&defaultMode, "mode", envOr("DEFAULT_MODE", "OPENCLIP_COLLECTION"), "default collection to query")
	flag.StringVar(&catalogPath, "catalog", envOr("CATALOG_PATH", ""), "path to the video catalog JSON (optional)")
	flag.StringVar(&statePath, "state", envOr("STATE_DB", "frameview.db"), "path to the persistent state database")

	flag.BoolVar(&dualGallery, "dual-gallery", envBool("DUAL_GALLERY", true), "render frame and video galleries as separate containers")
	flag.BoolVar(&extSync, "external-sync", envBool("EXTERNAL_SYNC", true), "enable the external player widget")
	flag.BoolVar(&submitForm, "submission", envBool("SUBMISSION_FORM", false), "enable the competition submission form")

	flag.StringVar(&submitURL, "submit-url", envOr("SUBMIT_URL", ""), "submission server base URL")
	flag.StringVar(&submitUser, "submit-user", envOr("SUBMIT_USER", ""), "submission username")
	flag.StringVar(&submitPass, "submit-pass", envOr("SUBMIT_PASS", ""), "submission password")
	flag.StringVar(&submitEval, "submit-eval", envOr("SUBMIT_EVAL", ""), "evaluation name substring to submit against")
	flag.IntVar(&submitEvalIdx, "submit-eval-index", 1, "evaluation list index used when no name matches")
	flag.Parse()

	var cat catalog.Catalog
	if catalogPath != "" {
		var err error
		cat, err = catalog.Load(catalogPath)
		if err != nil {
			log.Warn("catalog unavailable, player widget will miss", "path", catalogPath, "err", err)
		} else {
			log.Info("catalog loaded", "path", catalogPath, "videos", len(cat))
		}
	}

	st, err := store.Open(statePath)
	if err != nil {
		log.Warn("state db unavailable, frame accumulator disabled", "path", statePath, "err", err)
		st = nil
	} else {
		defer st.Close()
	}

	var sub *submit.Client
	if submitForm && submitURL != "" {
		sub = submit.NewClient(submit.Config{
			BaseURL:         submitURL,
			Username:        submitUser,
			Password:        submitPass,
			EvaluationName:  submitEval,
			EvaluationIndex: submitEvalIdx,
		}, log)
		if st != nil {
			sub.UseStore(st)
		}
	} else if submitForm {
		log.Warn("submission form enabled without -submit-url, submissions will fail")
	}

	cfg := apphttp.Config{
		Backend:           backend,
		DefaultMode:       defaultMode,
		HasDualGallery:    dualGallery,
		HasExternalSync:   extSync,
		HasSubmissionForm: submitForm,
	}
	handler := apphttp.NewServer(cfg, search.NewClient(backend, defaultMode, log), cat, st, sub, log)

	addr := ":" + port
	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr, "backend", backend)
		if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		log.Error("listen failed", "err", err)
		os.Exit(1)
	}
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown failed", "err", err)
		_ = srv.Close()
	}
	log.Info("server stopped")
}
