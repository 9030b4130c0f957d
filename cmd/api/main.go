// Command marketviz-api serves a headless, read-only JSON API over the
// simulation tables. It carries no playback sessions and no UI; it is meant
// for scripting against the same data the dashboard shows.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"marketviz/domain/frame"
	"marketviz/domain/lifecycle"
	"marketviz/domain/market"
	"marketviz/domain/trend"
	"marketviz/internal/config"
	"marketviz/internal/dataset"
)

type apiServer struct {
	ds   *market.Dataset
	opts frame.Options
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	loader := dataset.NewLoader(appConfig.Data)
	ds, warnings, err := loader.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load simulation data: %v", err)
	}
	for _, w := range warnings {
		log.Printf("[Loader] Warning: %s", w)
	}

	srv := &apiServer{
		ds: ds,
		opts: frame.Options{
			SampleFraction: appConfig.Display.SampleFraction,
			PointRadius:    appConfig.Display.PointRadius,
			PointOpacity:   appConfig.Display.PointOpacity,
		},
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))

	router.Get("/api/dataset/info", srv.handleInfo)
	router.Get("/api/frame/{day}", srv.handleFrame)
	router.Get("/api/history/{day}", srv.handleHistory)
	router.Get("/api/trends", srv.handleTrends)
	router.Get("/api/summaries", srv.handleSummaries)

	log.Printf("Starting MarketViz API on port %s", appConfig.Server.Port)
	if err := http.ListenAndServe(":"+appConfig.Server.Port, router); err != nil {
		log.Fatal("Server failed:", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func (s *apiServer) dayParam(r *http.Request) (int, bool) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 0 || day > s.ds.MaxDay {
		return 0, false
	}
	return day, true
}

func (s *apiServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"max_day":      s.ds.MaxDay,
		"history_rows": len(s.ds.History),
		"cell_rows":    len(s.ds.Cells),
		"has_boundary": s.ds.HasBoundary(),
	})
}

func (s *apiServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	day, ok := s.dayParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day must be within the dataset range"})
		return
	}
	writeJSON(w, http.StatusOK, frame.Select(s.ds, day, s.opts))
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	day, ok := s.dayParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day must be within the dataset range"})
		return
	}
	writeJSON(w, http.StatusOK, trend.Snapshot(s.ds, day))
}

func (s *apiServer) handleTrends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"share":       trend.Extract(s.ds, trend.MetricShare),
		"conversions": trend.Extract(s.ds, trend.MetricConversions),
		"churn":       trend.Extract(s.ds, trend.MetricChurn),
		"lifecycle":   lifecycle.Curve(s.ds.MaxDay, trend.MaxAggregateShare(s.ds)),
		"stages":      lifecycle.Stages(),
	})
}

func (s *apiServer) handleSummaries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, trend.Summaries(s.ds))
}
