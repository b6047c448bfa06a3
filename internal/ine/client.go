package ine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/votojudicial/backend/internal/apperr"
)

const (
	// BaseURL is where the electoral authority publishes the candidate catalogs.
	BaseURL = "https://candidaturaspoderjudicial.ine.mx/cycc/documentos/json/"

	// DefaultTimeout bounds a single catalog request.
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 64 << 20
)

// ErrMalformedCatalog reports a document whose candidatos field is missing
// or is not a list.
var ErrMalformedCatalog = fmt.Errorf("%w: malformed catalog", apperr.ErrUpstream)

// Source names one catalog and where to fetch it.
type Source struct {
	Key string `yaml:"key"`
	URL string `yaml:"url"`
}

// DefaultSources returns the five judicial-body catalogs.
func DefaultSources() []Source {
	return []Source{
		{Key: "salasRegionales", URL: BaseURL + "magistraturaSalasRegionales.json"},
		{Key: "salaSuperior", URL: BaseURL + "magistraturaSalaSuperior.json"},
		{Key: "tribunalDJ", URL: BaseURL + "magistraturaTribunalDJ.json"},
		{Key: "tribunales", URL: BaseURL + "magistraturaTribunales.json"},
		{Key: "supremacorte", URL: BaseURL + "ministrosSupremaCorte.json"},
	}
}

// Client fetches catalog documents, pacing requests with a shared limiter.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a catalog client. A non-positive rps disables pacing.
func NewClient(timeout time.Duration, rps float64) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    lim,
	}
}

// FetchCatalog downloads and decodes one catalog. Any returned error means
// the source should be treated as empty.
func (c *Client) FetchCatalog(ctx context.Context, src Source) (Catalog, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}

	start := time.Now()
	LogRequest(src.Key, http.MethodGet, src.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return Catalog{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		LogError(src.Key, "fetch", err)
		return Catalog{}, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %s status %d", apperr.ErrUpstream, src.Key, resp.StatusCode)
		LogError(src.Key, "fetch", err)
		return Catalog{}, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		LogError(src.Key, "read", err)
		return Catalog{}, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}

	cat, err := DecodeCatalog(src.Key, body)
	if err != nil {
		LogError(src.Key, "decode", err)
		return Catalog{}, err
	}

	LogResponse(src.Key, resp.StatusCode, time.Since(start), len(cat.Candidatos))
	return cat, nil
}

type catalogDocument struct {
	Candidatos       json.RawMessage `json:"candidatos"`
	RedesSociales    json.RawMessage `json:"redesSociales"`
	CursosCandidatos json.RawMessage `json:"cursosCandidatos"`
}

// DecodeCatalog validates a catalog document. Entries that fail to decode
// are logged and dropped individually.
func DecodeCatalog(key string, body []byte) (Catalog, error) {
	var doc catalogDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}
	if !isList(doc.Candidatos) {
		return Catalog{}, ErrMalformedCatalog
	}

	cat := Catalog{Key: key}
	cat.Candidatos = decodeList[RawCandidato](key, "candidato", doc.Candidatos)
	cat.RedesSociales = decodeList[RawRedSocial](key, "redSocial", doc.RedesSociales)
	cat.CursosCandidatos = decodeList[RawCurso](key, "curso", doc.CursosCandidatos)
	return cat, nil
}

func isList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func decodeList[T any](key, kind string, raw json.RawMessage) []T {
	if !isList(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		LogError(key, "decode "+kind+"s", err)
		return nil
	}
	out := make([]T, 0, len(items))
	for i, it := range items {
		var v T
		if err := json.Unmarshal(it, &v); err != nil {
			LogError(key, fmt.Sprintf("decode %s #%d", kind, i), err)
			continue
		}
		out = append(out, v)
	}
	return out
}
