package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/votojudicial/backend/internal/apperr"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.New(apperr.ErrValidation, "bad"), http.StatusBadRequest},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperr.New(apperr.ErrForbidden, "no"), http.StatusForbidden},
		{"not found wrapped", fmt.Errorf("lookup: %w", apperr.New(apperr.ErrNotFound, "x")), http.StatusNotFound},
		{"conflict", apperr.New(apperr.ErrConflict, "dup"), http.StatusConflict},
		{"upstream", apperr.ErrUpstream, http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := apperr.Status(tc.err); got != tc.want {
				t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("cast: %w", apperr.New(apperr.ErrConflict, "Ya has votado por este candidato"))
	if got := apperr.Message(err, "fallback"); got != "Ya has votado por este candidato" {
		t.Errorf("unexpected message %q", got)
	}
	if got := apperr.Message(errors.New("driver exploded"), "Error interno del servidor"); got != "Error interno del servidor" {
		t.Errorf("expected fallback, got %q", got)
	}
}
