package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	dsn         = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Report drift only; no DB writes")
	reportPath  = flag.String("report", "", "Optional CSV file for the drift report")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key. 0 = disabled")
)

// Drift is one candidate whose cached counter differs from the vote ledger.
type Drift struct {
	CandidatoID string `csv:"candidato_id"`
	IDCandidato int64  `csv:"id_candidato"`
	Nombre      string `csv:"nombre"`
	Cached      int64  `csv:"total_votos"`
	Ledger      int64  `csv:"votos_registrados"`
}

const driftQuery = `
SELECT c.id::text,
       c.id_candidato,
       COALESCE(c.datos_personales->>'nombreCandidato', ''),
       c.total_votos,
       COUNT(v.id)
  FROM votacion.candidatos c
  LEFT JOIN votacion.votos v ON v.candidato_id = c.id
 GROUP BY c.id
HAVING c.total_votos <> COUNT(v.id)
 ORDER BY c.id_candidato`

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	drift, err := findDrift(ctx, tx)
	if err != nil {
		fatalf("drift query: %v", err)
	}
	fmt.Printf("%d candidates with a stale vote counter\n", len(drift))
	for _, d := range drift {
		fmt.Printf("  %d %-40s cached=%d ledger=%d\n", d.IDCandidato, d.Nombre, d.Cached, d.Ledger)
	}

	if *reportPath != "" {
		if err := writeReport(*reportPath, drift); err != nil {
			fatalf("report: %v", err)
		}
		fmt.Printf("Report written to %s\n", *reportPath)
	}

	if *dryRun || len(drift) == 0 {
		fmt.Println("No changes made.")
		return
	}

	fixed, err := applyCounts(ctx, tx, drift)
	if err != nil {
		fatalf("update counters: %v", err)
	}
	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Printf("Reconciled %d counters\n", fixed)
}

func findDrift(ctx context.Context, tx *sql.Tx) ([]Drift, error) {
	rows, err := tx.QueryContext(ctx, driftQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Drift
	for rows.Next() {
		var d Drift
		if err := rows.Scan(&d.CandidatoID, &d.IDCandidato, &d.Nombre, &d.Cached, &d.Ledger); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func applyCounts(ctx context.Context, tx *sql.Tx, drift []Drift) (int64, error) {
	stmt, err := tx.PrepareContext(ctx, `UPDATE votacion.candidatos SET total_votos = $1, updated_at = now() WHERE id = $2::uuid`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var n int64
	for _, d := range drift {
		res, err := stmt.ExecContext(ctx, d.Ledger, d.CandidatoID)
		if err != nil {
			return n, fmt.Errorf("candidate %s: %w", d.CandidatoID, err)
		}
		affected, _ := res.RowsAffected()
		n += affected
	}
	return n, nil
}

func writeReport(path string, drift []Drift) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if drift == nil {
		drift = []Drift{}
	}
	return gocsv.MarshalFile(&drift, f)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
