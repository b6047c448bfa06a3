package ine

import (
	"log"
	"time"
)

// LogRequest logs an outbound catalog request.
func LogRequest(source, method, url string) {
	log.Printf("[%s] %s %s", source, method, url)
}

// LogResponse logs a catalog response and how many candidates it held.
func LogResponse(source string, statusCode int, duration time.Duration, resultCount int) {
	log.Printf("[%s] response status=%d duration=%dms results=%d",
		source, statusCode, duration.Milliseconds(), resultCount)
}

func LogError(source, operation string, err error) {
	log.Printf("[%s] %s error: %v", source, operation, err)
}

// LogTransform logs normalization of raw records into candidates.
func LogTransform(source string, inputCount, outputCount int, duration time.Duration) {
	log.Printf("[%s] transformed %d -> %d records in %dms",
		source, inputCount, outputCount, duration.Milliseconds())
}

// LogUpsert logs the outcome of a write phase.
func LogUpsert(source string, created, updated, errors int, duration time.Duration) {
	log.Printf("[%s] created=%d updated=%d errors=%d in %dms",
		source, created, updated, errors, duration.Milliseconds())
}
