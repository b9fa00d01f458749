package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"voice-leads-go/internal/config"
	"voice-leads-go/internal/dataset"
	"voice-leads-go/internal/extractor"
	"voice-leads-go/internal/logger"
	"voice-leads-go/internal/scoring"
	"voice-leads-go/internal/service"
	"voice-leads-go/internal/store"
	"voice-leads-go/internal/syncqueue"
	"voice-leads-go/internal/types"
	"voice-leads-go/internal/usage"
	"voice-leads-go/internal/voiceapi"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "voice-leads-go").Info("starting service")

	cfg, err := config.Load(envOr("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	db, err := store.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}

	callRepo := store.NewCallRepository(db)
	responseRepo := store.NewResponseRepository(db)
	assistantRepo := store.NewAssistantRepository(db)
	jobRepo := store.NewSyncJobRepository(db)

	realEstate, err := extractor.NewRealEstateExtractor(cfg.Extraction.Patterns)
	if err != nil {
		log.WithError(err).Fatal("bad extraction patterns")
	}
	engine := extractor.NewEngine(cfg.Extraction, realEstate)
	scorer := scoring.NewEngine(cfg.Scoring)

	svc := service.New(callRepo, responseRepo, assistantRepo, engine, scorer, cfg.Storage.FetchLimit)

	client := voiceapi.New(cfg.VoiceAPI)
	queue := syncqueue.NewQueue(jobRepo)
	processor := syncqueue.NewProcessor(jobRepo, assistantRepo, client, cfg.SyncQueue)
	checker := usage.NewChecker(queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go processor.Run(ctx, cfg.SyncQueue.DrainInterval)

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// ingest one completed call
	mux.HandleFunc("POST /calls", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "ingest")

		var req service.IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			reqLog.WithError(err).Warn("bad ingest payload")
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		rec, err := svc.IngestCall(r.Context(), req)
		if err != nil {
			reqLog.WithError(err).Error("ingest failed")
			http.Error(w, "ingest failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, reqLog, http.StatusCreated, rec)
	})

	// dashboard rollup
	mux.HandleFunc("GET /dashboard", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "dashboard")

		start := time.Now()
		d := svc.Dashboard(r.Context(), time.Now().UTC())
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("total_calls", d.TotalCalls).Info("dashboard computed")
		writeJSON(w, reqLog, http.StatusOK, d)
	})

	// lead score for one call
	mux.HandleFunc("GET /calls/score", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "score")

		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}
		scored, err := svc.ScoreCall(r.Context(), id)
		if err != nil {
			reqLog.WithError(err).Warn("score failed")
			http.Error(w, "score failed", http.StatusNotFound)
			return
		}
		writeJSON(w, reqLog, http.StatusOK, scored)
	})

	// register or refresh an assistant mirror
	mux.HandleFunc("POST /assistants", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "assistants")

		var a types.Assistant
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		if err := svc.RegisterAssistant(r.Context(), &a); err != nil {
			reqLog.WithError(err).Error("register failed")
			http.Error(w, "register failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, reqLog, http.StatusCreated, a)
	})

	// usage threshold check -> maybe enqueue a sync job
	mux.HandleFunc("POST /usage/check", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "usage")

		var req struct {
			AssistantID  string `json:"assistant_id"`
			UsedMinutes  int    `json:"used_minutes"`
			LimitMinutes int    `json:"limit_minutes"`
			Disabled     bool   `json:"disabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		job, err := checker.Check(r.Context(), req.AssistantID, req.UsedMinutes, req.LimitMinutes, req.Disabled)
		if err != nil {
			reqLog.WithError(err).Error("usage check failed")
			http.Error(w, "usage check failed", http.StatusInternalServerError)
			return
		}
		if job == nil {
			writeJSON(w, reqLog, http.StatusOK, map[string]any{"queued": false})
			return
		}
		writeJSON(w, reqLog, http.StatusAccepted, map[string]any{"queued": true, "job": job})
	})

	// manual drain pass
	mux.HandleFunc("POST /sync/run", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "sync")

		processed, failed, err := processor.Drain(r.Context())
		if err != nil {
			reqLog.WithError(err).Error("drain failed")
			http.Error(w, "drain failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, reqLog, http.StatusOK, map[string]int{"processed": processed, "failed": failed})
	})

	// backfill calls from a spreadsheet export
	mux.HandleFunc("POST /backfill", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "backfill")

		path := r.URL.Query().Get("path")
		if path == "" {
			path = envOr("DATASET_PATH", "call_log_export.xlsx")
		}
		reqLog = reqLog.WithField("dataset_path", path)

		calls, err := dataset.Load(path)
		if err != nil {
			reqLog.WithError(err).Error("dataset load error")
			http.Error(w, "dataset load error", http.StatusInternalServerError)
			return
		}
		ingested := 0
		for _, rc := range calls {
			if _, err := svc.IngestCall(r.Context(), service.IngestRequest{Call: rc}); err != nil {
				reqLog.WithError(err).WithField("call_id", rc.ID).Warn("backfill row skipped")
				continue
			}
			ingested++
		}
		reqLog.WithField("ingested", ingested).Info("backfill complete")
		writeJSON(w, reqLog, http.StatusOK, map[string]int{"loaded": len(calls), "ingested": ingested})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, log *logrus.Entry, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
