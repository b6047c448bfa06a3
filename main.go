package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/votojudicial/backend/internal/auth"
	"github.com/votojudicial/backend/internal/candidatos"
	"github.com/votojudicial/backend/internal/config"
	"github.com/votojudicial/backend/internal/db"
	"github.com/votojudicial/backend/internal/denuncias"
	"github.com/votojudicial/backend/internal/ine"
	"github.com/votojudicial/backend/internal/middleware"
	"github.com/votojudicial/backend/internal/votos"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	for name, migrate := range map[string]func() error{
		"candidatos": func() error { return candidatos.Migrate(gdb) },
		"votos":      func() error { return votos.Migrate(gdb) },
		"denuncias":  func() error { return denuncias.Migrate(gdb) },
	} {
		if err := migrate(); err != nil {
			log.Fatalf("migrate %s: %v", name, err)
		}
	}

	verifier, err := auth.NewVerifier(cfg.JWTPublicKeyPEM, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	candidateStore := candidatos.NewGormStore(gdb)
	directory := candidatos.Directory{Store: candidateStore}

	voteLedger := votos.NewLedger(votos.NewGormStore(gdb), directory)
	complaintLedger := denuncias.NewLedger(denuncias.NewGormStore(gdb), directory)

	syncer := candidatos.NewSyncer(candidateStore, ine.NewClient(cfg.CatalogTimeout, cfg.CatalogRPS), cfg.Sources)
	candidateHandler := candidatos.NewHandler(candidateStore, voteLedger, complaintLedger, syncer)
	voteHandler := votos.NewHandler(voteLedger)

	requireUser := middleware.SessionMiddleware(verifier)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.Get("/", RootHandler)
	r.Get("/entidades", candidatos.ListEntidades)

	r.Mount("/candidatos", candidatos.SetupRoutes(candidateHandler, middleware.OptionalSession(verifier)))
	r.Mount("/admin", candidatos.AdminRoutes(candidateHandler, middleware.SyncTokenMiddleware(cfg.SyncToken, cfg.SyncTokenHash)))
	r.Mount("/votar", votos.CastRoutes(voteHandler, requireUser))
	r.Mount("/votos", votos.SetupRoutes(voteHandler, requireUser))
	r.Mount("/denuncias", denuncias.SetupRoutes(denuncias.NewHandler(complaintLedger), requireUser))

	log.Printf("Server listening on port :%s...", cfg.Port)
	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
