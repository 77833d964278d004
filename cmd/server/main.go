package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"underwriting-engine/internal/agents"
	"underwriting-engine/internal/cache"
	"underwriting-engine/internal/config"
	"underwriting-engine/internal/httpapi"
	"underwriting-engine/internal/orchestrator"
	"underwriting-engine/internal/persist"
	"underwriting-engine/internal/queue"
)

func main() {
	cfg := config.Load()

	db, err := persist.Open(cfg.StoreDBPath)
	if err != nil {
		log.Fatalf("❌ Could not open document store: %v", err)
	}
	store := persist.NewStore(db)

	cache.InitRedis(cfg.RedisURL)

	queue.InitNATS(cfg.NatsURL)
	defer queue.Close()

	writer := persist.NewWriter(store)
	writer.Start()

	runner := agents.NewHTTPRunner(cfg)
	orch := orchestrator.New(runner, cfg, writer)

	server := httpapi.NewServer(cfg, orch, store)
	app := server.NewApp()

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		log.Println("🛑 Graceful shutdown initiated...")
		_ = app.Shutdown()
	}()

	log.Printf("🚀 Underwriting Engine starting on port %s", cfg.ServerPort)
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
