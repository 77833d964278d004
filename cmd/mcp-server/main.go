package main

import (
	"log"

	"underwriting-engine/internal/config"
	"underwriting-engine/internal/mcpsrv"
	"underwriting-engine/internal/persist"
)

func main() {
	cfg := config.Load()

	db, err := persist.Open(cfg.StoreDBPath)
	if err != nil {
		log.Fatalf("❌ Could not open document store: %v", err)
	}
	store := persist.NewStore(db)

	srv := mcpsrv.NewServer(store)

	log.Println("🚀 Underwriting Report MCP Server starting on stdio...")
	if err := srv.Serve(); err != nil {
		log.Fatalf("MCP Server error: %v", err)
	}
}
