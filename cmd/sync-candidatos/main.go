package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/votojudicial/backend/internal/candidatos"
	"github.com/votojudicial/backend/internal/config"
	"github.com/votojudicial/backend/internal/db"
	"github.com/votojudicial/backend/internal/ine"
)

var (
	timeout = flag.Duration("timeout", 10*time.Minute, "Upper bound for the whole run")
	dryRun  = flag.Bool("dry-run", false, "Fetch and normalize into memory without touching the database")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var store candidatos.Store
	if *dryRun {
		store = candidatos.NewMemStore()
		log.Println("dry run: candidates are kept in memory")
	} else {
		if cfg.DatabaseURL == "" {
			log.Fatal(config.ErrMissingDatabaseURL)
		}
		gdb, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		if err := candidatos.Migrate(gdb); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		store = candidatos.NewGormStore(gdb)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	syncer := candidatos.NewSyncer(
		store,
		ine.NewClient(cfg.CatalogTimeout, cfg.CatalogRPS),
		cfg.Sources,
	)
	stats, err := syncer.Run(ctx)
	if err != nil {
		log.Fatalf("sync failed: %v", err)
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
	fmt.Printf("fetch=%s classify=%s write=%s\n", stats.Fetch, stats.Classify, stats.Write)
	if stats.Errors > 0 {
		os.Exit(2)
	}
}
