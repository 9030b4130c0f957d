package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/joho/godotenv"

	"marketviz/domain/playback"
	"marketviz/internal/api"
	"marketviz/internal/config"
	"marketviz/internal/dataset"
	"marketviz/internal/session"
	"marketviz/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Load the simulation tables once at startup. Everything the dashboard
	// serves is derived from this immutable dataset.
	loader := dataset.NewLoader(appConfig.Data)
	ds, warnings, err := loader.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load simulation data: %v", err)
	}
	log.Printf("📊 Loaded %d history rows, %d cell records (days 0..%d)",
		len(ds.History), len(ds.Cells), ds.MaxDay)
	for _, w := range warnings {
		log.Printf("[Loader] Warning: %s", w)
	}

	// Playback sessions and the SSE hub that pushes their frames
	hub := api.NewSSEHub()
	initial := playback.NewState(
		appConfig.Playback.AutoPlay,
		appConfig.Playback.StepDays,
		appConfig.Playback.FPS,
		loopMode(appConfig.Playback.Loop),
	)
	sessions := session.NewManager(context.Background(), hub, initial, ds.MaxDay)

	// Initialize web server
	server := ui.NewServer(appConfig)
	if err := server.Initialize(ds, sessions, hub, warnings); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("🚀 Performance profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("❌ pprof server failed: %v", err)
			}
		}()
	}

	// Start the server
	log.Printf("🚀 Starting MarketViz dashboard on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}

func loopMode(loop bool) playback.LoopMode {
	if loop {
		return playback.LoopRestart
	}
	return playback.LoopStopAtEnd
}
