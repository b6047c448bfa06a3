package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/votojudicial/backend/internal/apperr"
)

func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func WriteJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the status derived from err.
// Errors outside the apperr taxonomy are reported with fallback.
func WriteError(w http.ResponseWriter, err error, fallback string) {
	WriteJSONStatus(w, apperr.Status(err), map[string]string{
		"error": apperr.Message(err, fallback),
	})
}

// DecodeJSON reads a JSON request body into v. A malformed body is a
// validation error carrying msg.
func DecodeJSON(r *http.Request, v any, msg string) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", apperr.New(apperr.ErrValidation, msg), err)
	}
	return nil
}

// AddServerTiming appends one Server-Timing header built from name/duration pairs.
func AddServerTiming(w http.ResponseWriter, kv ...[2]string) {
	// kv: [][2]string{{"fetch","812.4"}, {"write","210.0"}}
	if len(kv) == 0 {
		return
	}
	val := ""
	for i, p := range kv {
		if i > 0 {
			val += ", "
		}
		val += fmt.Sprintf("%s;dur=%s", p[0], p[1])
	}
	w.Header().Add("Server-Timing", val)
}

// Millis formats d for a Server-Timing dur= value.
func Millis(d time.Duration) string {
	return fmt.Sprintf("%.1f", float64(d.Microseconds())/1000)
}
