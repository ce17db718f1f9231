package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/danielpatrickdp/claim-gate/internal/analyzer"
	"github.com/danielpatrickdp/claim-gate/internal/audit"
	"github.com/danielpatrickdp/claim-gate/internal/config"
	"github.com/danielpatrickdp/claim-gate/internal/gate"
	"github.com/danielpatrickdp/claim-gate/internal/httpapi"
	"github.com/danielpatrickdp/claim-gate/internal/review"
	"github.com/danielpatrickdp/claim-gate/internal/task"
)

// #region main
func main() {
	dbPath := envOr("GATE_DB", "claim_gate.db")
	addr := envOr("GATE_ADDR", ":8080")
	cfgPath := os.Getenv("GATE_CONFIG")

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			log.Printf("config %s: %v (using defaults)", cfgPath, err)
		}
		cfg = loaded
	}

	tasks, err := task.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open task store: %v", err)
	}
	defer tasks.Close()

	// Audit entries share the task store's database.
	audits, err := audit.NewStoreWithDB(tasks.DB())
	if err != nil {
		log.Fatalf("failed to open audit store: %v", err)
	}

	a := analyzer.New(cfg)
	g := gate.New(a, audits, tasks)
	srv := httpapi.NewServer(g, review.NewReviewer(a), a, audits, tasks)

	fmt.Println("Claim gate ready.")
	fmt.Printf("  DB: %s | Addr: %s\n", dbPath, addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
// #endregion helpers
